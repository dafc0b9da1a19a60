package searcher

import (
	"math"

	"trisearch/game"
)

const noParent = -1

// node is an MCTS tree node. Parent and children are indices into the owning tree.
type node struct {
	state    game.State
	move     game.Move // Move that produced state from the parent, unset for the root
	parent   int
	children []int
	reward   float64
	visits   uint64
}

// tree is an arena of nodes; the root lives at index 0. Parent links are only used
// to walk back up during backup.
type tree struct {
	nodes []node
}

func newTree(root game.State) *tree {
	return &tree{
		nodes: []node{{state: root, parent: noParent}},
	}
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

// addChild attaches a new unvisited child under parent and returns its index
func (t *tree) addChild(parent int, move game.Move, state game.State) int {
	t.nodes = append(t.nodes, node{state: state, move: move, parent: parent})
	child := len(t.nodes) - 1
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	return child
}

// pickChild returns the child of i with the highest UCB1 score. Unvisited children
// win immediately, and ties keep the earlier child.
func (t *tree) pickChild(i int, cSquared float64) int {
	parent := &t.nodes[i]
	if len(parent.children) == 0 {
		panic("node has no children")
	}

	c2LnN := normalizer(cSquared, parent.visits)
	best := parent.children[0]
	maxScore := math.Inf(-1)
	for _, c := range parent.children {
		child := &t.nodes[c]
		score := ucb1(child.reward, child.visits, c2LnN)
		if math.IsInf(score, 1) {
			return c
		}
		if score > maxScore {
			maxScore = score
			best = c
		}
	}
	return best
}

// backup adds one visit and the same reward to i and every ancestor up to the root
func (t *tree) backup(i int, reward float64) {
	for i != noParent {
		n := &t.nodes[i]
		n.visits++
		n.reward += reward
		i = n.parent
	}
}

// mostVisited returns the root child with the most visits, ties keep the earlier child
func (t *tree) mostVisited() (int, bool) {
	children := t.root().children
	if len(children) == 0 {
		return 0, false
	}

	best := children[0]
	for _, c := range children[1:] {
		if t.nodes[c].visits > t.nodes[best].visits {
			best = c
		}
	}
	return best, true
}
