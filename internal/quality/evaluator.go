package quality

import "math"

// Bonus and penalty calibration for the composite score.
const (
	precisionWeight = 0.85
	boundaryWeight  = 0.4
	penaltyWeight   = 0.3

	comfortBonus   = 1.1  // avg and max comfortably under threshold
	tightMaxBonus  = 1.05 // max error at most 0.5s
	tightMaxLimit  = 0.5
	mlBonus        = 2.0
	highRateBonus  = 3.0
	stabilityBonus = 2.0

	maxErrorPenalty = 50.0
)

// ScoreInput carries one candidate's statistics.
type ScoreInput struct {
	// Errors holds every aligned point's absolute error in seconds.
	Errors []float64
	// BoundaryErrors holds the subset of errors for points classified as
	// track start, track end, or emotional peak.
	BoundaryErrors []float64
	AverageError   float64
	MaxError       float64
	MLEnabled      bool
	Strategy       string
}

// Evaluator scores alignment candidates against one error tolerance.
type Evaluator struct {
	threshold float64
}

// NewEvaluator constructs an evaluator for the given tolerance in seconds.
func NewEvaluator(threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Evaluator{threshold: threshold}
}

// Threshold returns the tolerance the evaluator scores against.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// PrecisionRate returns the percentage of errors within the tolerance.
// Empty input is 100% by convention: no produced point missed.
func (e *Evaluator) PrecisionRate(errors []float64) float64 {
	if len(errors) == 0 {
		return 100
	}
	within := 0
	for _, err := range errors {
		if err <= e.threshold {
			within++
		}
	}
	return 100 * float64(within) / float64(len(errors))
}

// Summarize computes the average and maximum of errors.
func Summarize(errors []float64) (avg, max float64) {
	if len(errors) == 0 {
		return 0, 0
	}
	var sum float64
	for _, err := range errors {
		sum += err
		if err > max {
			max = err
		}
	}
	return sum / float64(len(errors)), max
}

// Score computes the composite quality score in [0,100].
func (e *Evaluator) Score(in ScoreInput) float64 {
	precision := e.PrecisionRate(in.Errors)

	boosted := precision
	if in.AverageError <= 0.5*e.threshold && in.MaxError <= e.threshold {
		boosted *= comfortBonus
	}
	if in.MaxError <= tightMaxLimit {
		boosted *= tightMaxBonus
	}

	score := precisionWeight*boosted +
		boundaryWeight*boundaryQuality(in.BoundaryErrors) +
		e.fixedBonuses(in, precision) -
		penaltyWeight*e.errorPenalty(in.AverageError)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// boundaryQuality tiers the mean error over structurally critical points.
// Candidates without such points get a neutral 10.
func boundaryQuality(errors []float64) float64 {
	if len(errors) == 0 {
		return 10
	}
	avg, _ := Summarize(errors)
	switch {
	case avg <= 0.1:
		return 20
	case avg <= 0.2:
		return 15
	case avg <= 0.5:
		return 10
	default:
		return 5
	}
}

func (e *Evaluator) fixedBonuses(in ScoreInput, precision float64) float64 {
	bonus := 0.0
	if in.MLEnabled {
		bonus += mlBonus
	}
	if precision >= 90 {
		bonus += highRateBonus
	}
	// Stability: the worst point is not wildly out of line with the rest.
	if in.MaxError <= e.threshold || (in.AverageError > 0 && in.MaxError <= 2*in.AverageError) {
		bonus += stabilityBonus
	}
	switch in.Strategy {
	case "dynamic_programming", "hybrid":
		bonus += 2
	default:
		bonus += 1
	}
	return bonus
}

func (e *Evaluator) errorPenalty(avg float64) float64 {
	return math.Min(maxErrorPenalty, avg/e.threshold*maxErrorPenalty)
}
