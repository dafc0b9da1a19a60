package searcher

import "math"

// ucb1 = q/n + sqrt(c^2*ln(N)/n), where c2LnN = c^2*ln(N) is shared by all siblings
func ucb1(rewards float64, visits uint64, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	n := float64(visits)
	return rewards/n + math.Sqrt(c2LnN/n)
}

func normalizer(cSquared float64, parentVisits uint64) float64 {
	if parentVisits == 0 {
		panic("node has children but no visits")
	}
	return cSquared * math.Log(float64(parentVisits))
}
