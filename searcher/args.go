package searcher

import (
	"math"
	"time"
)

// Hyperparameters for search

const DefaultDepth = 3 // Paranoid plies searched below each root move

const (
	DefaultDuration = 5 * time.Second
	DefaultCutoff   = 10  // Maximum plies per random playout
	CSquared        = 2.0 // Exploration constant
)

// Playout rewards from the searching side's perspective. They dominate any heuristic score.
const (
	WIN  = math.MaxFloat64
	LOSS = -math.MaxFloat64
)
