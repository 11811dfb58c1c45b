package align

import (
	"log/slog"
	"math"

	"clipalign/internal/logging"
)

// smoothingFloor keeps smoothing from firing on sub-quarter-second noise
// when a point's neighbors happen to align exactly.
const smoothingFloor = 0.25

// Pair matches one reference index to one edited index with the raw time
// distance between them.
type Pair struct {
	RefIndex  int
	EditIndex int
	Distance  float64
}

// Params tunes the cost matrix and path post-processing.
type Params struct {
	// DistanceCap bounds a single cell's base cost so pathological gaps do
	// not dominate the cumulative sum.
	DistanceCap float64
	// WeightDiscount scales the cost of reference points whose weight
	// exceeds 1; WeightPenalty scales everything else.
	WeightDiscount float64
	WeightPenalty  float64
	// BoundaryWindow is the distance within which a reference time counts as
	// sitting on a boundary; BoundaryDiscount is the cost multiplier there.
	BoundaryWindow   float64
	BoundaryDiscount float64
	// DirectionPenalty scales cells whose local travel direction disagrees
	// between the two sequences.
	DirectionPenalty float64
	// SmoothingThreshold is the neighbor-average multiple beyond which an
	// interior path point is replaced by its neighbors' midpoint.
	SmoothingThreshold float64
	// Window constrains the DP band around the diagonal (Sakoe-Chiba);
	// zero means unconstrained.
	Window int
}

// DefaultParams returns the calibration used by the standard precision
// levels.
func DefaultParams() Params {
	return Params{
		DistanceCap:        10.0,
		WeightDiscount:     0.5,
		WeightPenalty:      1.2,
		BoundaryWindow:     1.0,
		BoundaryDiscount:   0.3,
		DirectionPenalty:   1.5,
		SmoothingThreshold: 1.5,
	}
}

// Aligner runs weighted DTW alignment. Instances hold no mutable state and
// are safe for concurrent use.
type Aligner struct {
	params Params
	logger *slog.Logger
}

// New constructs an aligner. A nil logger disables logging.
func New(params Params, logger *slog.Logger) *Aligner {
	return &Aligner{params: params, logger: logging.NewComponentLogger(logger, "dtw-aligner")}
}

// Align computes the minimal-cost index correspondence between ref and
// edited. weights may be nil (treated as all 1.0); boundaries lists boundary
// times on the reference timeline. Empty input or non-finite values yield an
// empty alignment so the caller can fall back to a simpler strategy.
func (a *Aligner) Align(ref, edited, weights, boundaries []float64) []Pair {
	m, n := len(ref), len(edited)
	if m == 0 || n == 0 {
		return nil
	}
	if !finite(ref) || !finite(edited) || !finite(weights) || !finite(boundaries) {
		a.logger.Warn("non-finite input, returning empty alignment")
		return nil
	}

	cost := a.CostMatrix(ref, edited, weights, boundaries)
	cumulative := a.accumulate(cost, m, n)
	if math.IsInf(cumulative[m-1][n-1], 1) {
		a.logger.Warn("DP band excluded the terminal cell, returning empty alignment",
			logging.Int("window", a.params.Window))
		return nil
	}

	path := backtrack(cumulative, cost, m, n)
	return a.smooth(path, ref, edited)
}

// CostMatrix builds the biased m x n cost matrix shared by the DP and hybrid
// strategies.
func (a *Aligner) CostMatrix(ref, edited, weights, boundaries []float64) [][]float64 {
	m, n := len(ref), len(edited)
	cost := make([][]float64, m)
	for i := range cost {
		cost[i] = make([]float64, n)
		nearBoundary := nearAny(ref[i], boundaries, a.params.BoundaryWindow)
		weighted := i < len(weights) && weights[i] > 1
		for j := 0; j < n; j++ {
			c := math.Min(math.Abs(ref[i]-edited[j]), a.params.DistanceCap)
			if weighted {
				c *= a.params.WeightDiscount
			} else {
				c *= a.params.WeightPenalty
			}
			if nearBoundary {
				c *= a.params.BoundaryDiscount
			}
			if i > 0 && j > 0 {
				refDir := ref[i] - ref[i-1]
				editDir := edited[j] - edited[j-1]
				if refDir*editDir < 0 {
					c *= a.params.DirectionPenalty
				}
			}
			cost[i][j] = c
		}
	}
	return cost
}

// accumulate runs the DTW recurrence, optionally constrained to a band
// around the diagonal.
func (a *Aligner) accumulate(cost [][]float64, m, n int) [][]float64 {
	inf := math.Inf(1)
	cumulative := make([][]float64, m)
	for i := range cumulative {
		cumulative[i] = make([]float64, n)
		for j := range cumulative[i] {
			cumulative[i][j] = inf
		}
	}

	window := a.params.Window
	inBand := func(i, j int) bool {
		if window <= 0 {
			return true
		}
		// Scale the diagonal for unequal lengths before applying the band.
		diag := float64(i) * float64(n-1) / math.Max(1, float64(m-1))
		return math.Abs(float64(j)-diag) <= float64(window)
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if !inBand(i, j) {
				continue
			}
			best := inf
			switch {
			case i == 0 && j == 0:
				best = 0
			default:
				if i > 0 && cumulative[i-1][j] < best {
					best = cumulative[i-1][j]
				}
				if j > 0 && cumulative[i][j-1] < best {
					best = cumulative[i][j-1]
				}
				if i > 0 && j > 0 && cumulative[i-1][j-1] < best {
					best = cumulative[i-1][j-1]
				}
			}
			if !math.IsInf(best, 1) {
				cumulative[i][j] = cost[i][j] + best
			}
		}
	}
	return cumulative
}

// backtrack recovers the optimal path from the cumulative matrix, preferring
// the diagonal on ties.
func backtrack(cumulative, cost [][]float64, m, n int) []Pair {
	path := []Pair{{RefIndex: m - 1, EditIndex: n - 1, Distance: cost[m-1][n-1]}}
	i, j := m-1, n-1
	for i > 0 || j > 0 {
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diag := cumulative[i-1][j-1]
			up := cumulative[i-1][j]
			left := cumulative[i][j-1]
			if diag <= up && diag <= left {
				i--
				j--
			} else if up < left {
				i--
			} else {
				j--
			}
		}
		path = append(path, Pair{RefIndex: i, EditIndex: j, Distance: cost[i][j]})
	}

	// Reverse into forward order.
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}
	return path
}

// smooth replaces interior path points whose local time distance exceeds the
// configured multiple of their neighbors' average with the neighbors'
// midpoint index pair, then refreshes distances against the raw sequences.
func (a *Aligner) smooth(path []Pair, ref, edited []float64) []Pair {
	for k := range path {
		path[k].Distance = math.Abs(ref[path[k].RefIndex] - edited[path[k].EditIndex])
	}
	if len(path) < 3 {
		return path
	}

	for k := 1; k < len(path)-1; k++ {
		neighborAvg := (path[k-1].Distance + path[k+1].Distance) / 2
		limit := a.params.SmoothingThreshold * neighborAvg
		if limit < smoothingFloor {
			limit = smoothingFloor
		}
		if path[k].Distance <= limit {
			continue
		}
		i := (path[k-1].RefIndex + path[k+1].RefIndex) / 2
		j := (path[k-1].EditIndex + path[k+1].EditIndex) / 2
		path[k] = Pair{RefIndex: i, EditIndex: j, Distance: math.Abs(ref[i] - edited[j])}
	}
	return path
}

func nearAny(t float64, values []float64, window float64) bool {
	for _, v := range values {
		if math.Abs(t-v) <= window {
			return true
		}
	}
	return false
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
