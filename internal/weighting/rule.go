package weighting

// Weight bounds applied to every estimate, rule-based or learned.
const (
	MinWeight = 0.8
	MaxWeight = 6.0
)

const baseWeight = 1.2

// RuleBasedPredictor produces a deterministic weight estimate from tiered
// multiplicative boosts. It is always available and never fails.
type RuleBasedPredictor struct{}

// NewRuleBasedPredictor constructs the rule-based estimator.
func NewRuleBasedPredictor() *RuleBasedPredictor {
	return &RuleBasedPredictor{}
}

// Predict returns the rule-based weight for a sample, clamped to
// [MinWeight, MaxWeight].
func (p *RuleBasedPredictor) Predict(s Sample) float64 {
	weight := baseWeight

	// Boundary proximity dominates: points near structural marks anchor the
	// alignment.
	switch {
	case s.BoundaryDistance < 0.2:
		weight *= 3.0
	case s.BoundaryDistance < 0.5:
		weight *= 2.5
	case s.BoundaryDistance < 1.0:
		weight *= 2.0
	case s.BoundaryDistance < 1.5:
		weight *= 1.7
	}

	if s.IsDialogueBoundary {
		weight *= 1.6
	}
	if s.IsSceneTransition {
		weight *= 1.5
	}
	if s.IsEmotionalPeak {
		weight *= 2.2
	}

	// Sequence edges drift the most after editing.
	switch {
	case s.Position <= 0.1 || s.Position >= 0.9:
		weight *= 1.8
	case s.Position <= 0.2 || s.Position >= 0.8:
		weight *= 1.4
	}

	switch {
	case s.TimeGapToPrevious > 10:
		weight *= 1.8
	case s.TimeGapToPrevious > 5:
		weight *= 1.5
	case s.TimeGapToPrevious > 2:
		weight *= 1.3
	}

	switch {
	case s.PreviousPointError > 0.5:
		weight *= 1.6
	case s.PreviousPointError > 0.3:
		weight *= 1.4
	case s.PreviousPointError > 0.2:
		weight *= 1.2
	}

	switch {
	case s.TextLength > 40:
		weight *= 1.3
	case s.TextLength > 20:
		weight *= 1.2
	}

	return clampWeight(weight)
}

func clampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
