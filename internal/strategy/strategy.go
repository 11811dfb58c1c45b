package strategy

import (
	"clipalign/internal/align"
)

// criticalError is the point error beyond which local re-optimization passes
// try to find a better match.
const criticalError = 0.5

// Input carries everything a strategy needs for one pass: the two timestamp
// sequences, per-reference-point importance weights, and boundary times on
// the reference timeline. Strategies treat all slices as read-only.
type Input struct {
	Ref        []float64
	Edited     []float64
	Weights    []float64
	Boundaries []float64
}

// Strategy is one way of producing an index correspondence.
type Strategy interface {
	Name() string
	// Applicable reports whether the strategy makes sense for the given
	// sequence cardinalities.
	Applicable(refCount, editCount int) bool
	Run(in Input) ([]align.Pair, error)
}

func (in Input) weightAt(i int) float64 {
	if i < len(in.Weights) {
		return in.Weights[i]
	}
	return 1
}

func (in Input) nearBoundary(t, window float64) bool {
	for _, b := range in.Boundaries {
		d := t - b
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true
		}
	}
	return false
}
