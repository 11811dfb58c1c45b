package weighting

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	featureCount  = 9
	ensembleSize  = 4
	bagFraction   = 0.8
	ridgeLambda   = 0.1
	ensembleSeed  = 42
	minFitRecords = 10
)

// TrainablePredictor is a small bagged ensemble of ridge regressors mapping
// feature vectors directly to weights. Fitting is deterministic: the bag
// sampler is seeded so refitting the same records yields the same model.
type TrainablePredictor struct {
	models [][]float64 // per bag: featureCount coefficients + intercept
}

// NewTrainablePredictor constructs an unfitted predictor.
func NewTrainablePredictor() *TrainablePredictor {
	return &TrainablePredictor{}
}

// Ready reports whether a model has been fitted.
func (p *TrainablePredictor) Ready() bool {
	return len(p.models) > 0
}

// Predict averages the ensemble's estimates. It fails when no model has been
// fitted or the estimate is not finite; callers fall back to the rules.
func (p *TrainablePredictor) Predict(s Sample) (float64, error) {
	if !p.Ready() {
		return 0, fmt.Errorf("predictor not fitted")
	}
	features := s.Features()
	var sum float64
	for _, model := range p.models {
		est := model[featureCount] // intercept
		for i, f := range features {
			est += model[i] * f
		}
		sum += est
	}
	weight := sum / float64(len(p.models))
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("non-finite prediction")
	}
	return clampWeight(weight), nil
}

// Fit replaces the ensemble with models fitted on the given records. On any
// failure the previous ensemble stays in force.
func (p *TrainablePredictor) Fit(records []Record) error {
	if len(records) < minFitRecords {
		return fmt.Errorf("fit: need at least %d records, have %d", minFitRecords, len(records))
	}

	rng := rand.New(rand.NewSource(ensembleSeed))
	bagSize := int(float64(len(records)) * bagFraction)
	if bagSize < minFitRecords {
		bagSize = len(records)
	}

	models := make([][]float64, 0, ensembleSize)
	for bag := 0; bag < ensembleSize; bag++ {
		subset := make([]Record, 0, bagSize)
		for k := 0; k < bagSize; k++ {
			subset = append(subset, records[rng.Intn(len(records))])
		}
		model, err := fitRidge(subset)
		if err != nil {
			return fmt.Errorf("fit bag %d: %w", bag, err)
		}
		models = append(models, model)
	}

	p.models = models
	return nil
}

// fitRidge solves (XtX + lambda*I) beta = Xty for one bag. The last column
// of X is the intercept term.
func fitRidge(records []Record) ([]float64, error) {
	rows := len(records)
	cols := featureCount + 1

	x := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for r, rec := range records {
		features := rec.Sample.Features()
		for c, f := range features {
			x.Set(r, c, f)
		}
		x.Set(r, featureCount, 1)
		y.SetVec(r, rec.OptimalWeight)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < cols; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridgeLambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("solve ridge system: %w", err)
	}

	model := make([]float64, cols)
	for i := 0; i < cols; i++ {
		v := beta.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite coefficient at %d", i)
		}
		model[i] = v
	}
	return model, nil
}
