package agent

import (
	"trisearch/game"
	"trisearch/searcher"
)

type searchAgent struct {
	base
	strategy searcher.Strategy
}

// NewSearchAgent returns an agent that plays the moves chosen by strategy.
func NewSearchAgent(name string, strategy searcher.Strategy) Agent {
	return searchAgent{base: base{name: name}, strategy: strategy}
}

func (a searchAgent) ChooseMove(state game.State) (game.Move, bool) {
	return a.strategy.ChooseMove(state)
}

func (a searchAgent) FindMove(state game.State) searcher.Decision {
	return a.strategy.Search(state)
}
