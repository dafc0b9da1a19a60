package engine

import "trisearch/experiments/metrics"

type Engine interface {
	// Run plays a game until it is over, no side can move, or the turn cap is reached
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
