package strategy

import (
	"log/slog"
	"math"

	"clipalign/internal/align"
)

const (
	// hybridJumpSpan is how far the edited index may advance per reference
	// step before the jump penalty applies.
	hybridJumpSpan = 2
	hybridJumpRate = 0.2
)

// Hybrid builds the full cost matrix but resolves it greedily one reference
// index at a time under sequence-order constraints, then re-optimizes poor
// matches in a small neighborhood. It trades DTW's global optimum for
// robustness against locally misleading cost cells.
type Hybrid struct {
	aligner *align.Aligner
}

// NewHybrid builds the hybrid strategy with the given cost parameters.
func NewHybrid(params align.Params, logger *slog.Logger) Hybrid {
	return Hybrid{aligner: align.New(params, logger)}
}

func (Hybrid) Name() string { return "hybrid" }

func (Hybrid) Applicable(refCount, editCount int) bool {
	return refCount > 0 && editCount > 0
}

func (s Hybrid) Run(in Input) ([]align.Pair, error) {
	m, n := len(in.Ref), len(in.Edited)
	cost := s.aligner.CostMatrix(in.Ref, in.Edited, in.Weights, in.Boundaries)

	matched := make([]int, m)
	lastJ := -1
	for i := 0; i < m; i++ {
		bestJ := -1
		bestScore := math.Inf(1)
		for j := 0; j < n; j++ {
			// A match that regresses relative to the previous one breaks
			// sequence order.
			if j < lastJ {
				continue
			}
			score := cost[i][j]
			if lastJ >= 0 && j-lastJ > hybridJumpSpan {
				score *= 1 + hybridJumpRate*float64(j-lastJ-hybridJumpSpan)
			}
			if score < bestScore {
				bestScore = score
				bestJ = j
			}
		}
		matched[i] = bestJ
		if bestJ >= 0 {
			lastJ = bestJ
		}
	}

	s.reoptimize(in, matched)

	pairs := make([]align.Pair, 0, m)
	for i, j := range matched {
		if j < 0 {
			continue
		}
		pairs = append(pairs, align.Pair{
			RefIndex:  i,
			EditIndex: j,
			Distance:  math.Abs(in.Ref[i] - in.Edited[j]),
		})
	}
	return pairs, nil
}

// reoptimize retries matches with error beyond the critical threshold in a
// +/-2 edited-index neighborhood, keeping a replacement only when it is
// strictly better.
func (s Hybrid) reoptimize(in Input, matched []int) {
	n := len(in.Edited)
	for i, j := range matched {
		if j < 0 {
			continue
		}
		err := math.Abs(in.Ref[i] - in.Edited[j])
		if err <= criticalError {
			continue
		}
		bestJ, bestErr := j, err
		for dj := -2; dj <= 2; dj++ {
			cand := j + dj
			if cand < 0 || cand >= n || cand == j {
				continue
			}
			if candErr := math.Abs(in.Ref[i] - in.Edited[cand]); candErr < bestErr {
				bestErr = candErr
				bestJ = cand
			}
		}
		matched[i] = bestJ
	}
}
