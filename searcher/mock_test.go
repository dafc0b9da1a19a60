package searcher

import (
	"fmt"
	"strconv"

	"trisearch/game"

	"golang.org/x/exp/rand"
)

// tnode describes a scripted game tree. Child i is reached by the move 0->i and the
// side to move rotates blue, green, red with depth.
type tnode struct {
	scores [3]int
	over   bool
	winner *game.Side
	loser  *game.Side
	kids   []tnode
}

func side(s game.Side) *game.Side {
	return &s
}

type flatNode struct {
	turn game.Side
	tnode
}

type faults struct {
	failApply map[string]bool // Child keys whose ApplyMove fails
	failClone map[string]bool // Keys whose Clone fails
	clones    int
}

// treeState walks a scripted tree. Nodes are shared and read-only; only key changes.
type treeState struct {
	nodes  map[string]*flatNode
	key    string
	width  int
	faults *faults
}

func newTreeState(root tnode) *treeState {
	ts := &treeState{
		nodes:  map[string]*flatNode{},
		faults: &faults{failApply: map[string]bool{}, failClone: map[string]bool{}},
	}
	ts.flatten("", game.Blue, root)
	return ts
}

func (ts *treeState) flatten(key string, turn game.Side, n tnode) {
	ts.nodes[key] = &flatNode{turn: turn, tnode: n}
	ts.width = max(ts.width, len(n.kids))
	for i, kid := range n.kids {
		ts.flatten(childKey(key, i), turn.Next(3), kid)
	}
}

func childKey(key string, i int) string {
	return key + "/" + strconv.Itoa(i)
}

func (ts *treeState) node() *flatNode {
	return ts.nodes[ts.key]
}

func (ts *treeState) Turn() game.Side {
	return ts.node().turn
}

func (ts *treeState) Sides() []game.Side {
	return []game.Side{game.Blue, game.Green, game.Red}
}

func (ts *treeState) Board() []game.Position {
	board := make([]game.Position, ts.width)
	for i := range board {
		board[i] = game.Position(i)
	}
	return board
}

func (ts *treeState) PiecePositions(s game.Side) []game.Position {
	if s != ts.Turn() || len(ts.node().kids) == 0 {
		return []game.Position{}
	}
	return []game.Position{0}
}

func (ts *treeState) IsLegalMove(from, to game.Position) bool {
	n := ts.node()
	return !n.over && from == 0 && to >= 0 && int(to) < len(n.kids)
}

func (ts *treeState) ApplyMove(from, to game.Position) error {
	if !ts.IsLegalMove(from, to) {
		return game.NewIllegalMoveError(ts.Turn(), from, to, "not in script")
	}
	next := childKey(ts.key, int(to))
	if ts.faults.failApply[next] {
		return game.NewIllegalMoveError(ts.Turn(), from, to, "scripted failure")
	}
	ts.key = next
	return nil
}

func (ts *treeState) Clone() (game.State, error) {
	if ts.faults.failClone[ts.key] {
		return nil, game.CloneError(fmt.Errorf("scripted failure at %q", ts.key))
	}
	ts.faults.clones++
	c := *ts
	return &c, nil
}

func (ts *treeState) IsGameOver() bool {
	return ts.node().over
}

func (ts *treeState) Winner() (game.Side, bool) {
	if w := ts.node().winner; w != nil {
		return *w, true
	}
	return 0, false
}

func (ts *treeState) Loser() (game.Side, bool) {
	if l := ts.node().loser; l != nil {
		return *l, true
	}
	return 0, false
}

func (ts *treeState) Score(s game.Side) int {
	return ts.node().scores[s]
}

func move(to int) game.Move {
	return game.Move{From: 0, To: game.Position(to)}
}

// leaf builds a terminal-free leaf with the given blue, green and red scores
func leaf(blue, green, red int) tnode {
	return tnode{scores: [3]int{blue, green, red}}
}

// randomTree builds a full tree with random scores on every node
func randomTree(rng *rand.Rand, depth, branching int) tnode {
	n := tnode{scores: [3]int{rng.Intn(41) - 20, rng.Intn(41) - 20, rng.Intn(41) - 20}}
	if depth == 0 {
		return n
	}
	for i := 0; i < branching; i++ {
		n.kids = append(n.kids, randomTree(rng, depth-1, branching))
	}
	return n
}

// chain builds a single line of play where blue's score equals the depth
func chain(length int) tnode {
	n := tnode{scores: [3]int{length, 0, 0}}
	for d := length - 1; d >= 0; d-- {
		n = tnode{scores: [3]int{d, 0, 0}, kids: []tnode{n}}
	}
	return n
}
