package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Strategy     string
	Duration     time.Duration
	Iterations   int // MCTS episodes completed
	Nodes        int // States created by clone and apply
	FullPlayouts int // Rollouts that reached game over before the cutoff
	Pruned       int // Alpha-beta cut-offs
	Skipped      int // Branches dropped after a failed clone or apply
}

type MoveMetric struct {
	Step   int
	Player int // Side that moved
	Agent  string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         string // Side name, "" if none
	Loser          string // Side name, "" if none
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Fallbacks      int // Moves forced by the engine when an agent returned none
}

type Collector interface {
	Start(strategy string)
	AddIteration()
	AddNode()
	AddFullPlayout()
	AddPruned()
	AddSkipped()
	Complete() SearchMetric
}

type collector struct {
	strategy     string
	startTime    time.Time
	iterations   atomic.Int32
	nodes        atomic.Int32
	fullPlayouts atomic.Int32
	pruned       atomic.Int32
	skipped      atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(strategy string) {
	m.strategy = strategy
	m.startTime = time.Now()
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddPruned() {
	m.pruned.Add(1)
}

func (m *collector) AddSkipped() {
	m.skipped.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Strategy:     m.strategy,
		Duration:     time.Since(m.startTime),
		Iterations:   int(m.iterations.Load()),
		Nodes:        int(m.nodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Pruned:       int(m.pruned.Load()),
		Skipped:      int(m.skipped.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string)  {}
func (m *dummyCollector) AddIteration()          {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) AddPruned()             {}
func (m *dummyCollector) AddSkipped()            {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
