package weighting

// Sample is the engineered feature vector for one reference time point.
// Position and Timestamp are normalized into [0,1]; the remaining time
// features are in seconds.
type Sample struct {
	TimeGapToPrevious  float64
	Position           float64
	BoundaryDistance   float64
	PreviousPointError float64
	TextLength         int
	IsDialogueBoundary bool
	IsSceneTransition  bool
	IsEmotionalPeak    bool
	Timestamp          float64
}

// Features flattens the sample into the vector consumed by the trainable
// predictor. Order is load-bearing for fitted models.
func (s Sample) Features() []float64 {
	return []float64{
		s.TimeGapToPrevious,
		s.Position,
		s.BoundaryDistance,
		s.PreviousPointError,
		float64(s.TextLength),
		boolFeature(s.IsDialogueBoundary),
		boolFeature(s.IsSceneTransition),
		boolFeature(s.IsEmotionalPeak),
		s.Timestamp,
	}
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Record is one training observation: the features seen, the weight that was
// applied, and how the aligned point turned out.
type Record struct {
	Sample        Sample
	OptimalWeight float64
	ObservedError float64
	Success       bool
}
