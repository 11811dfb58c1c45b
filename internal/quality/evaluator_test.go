package quality

import (
	"math"
	"testing"
)

func TestPrecisionRateExactCount(t *testing.T) {
	e := NewEvaluator(0.2)
	errors := []float64{0.05, 0.1, 0.15, 0.3, 0.02, 0.18, 0.01, 0.07, 0.12, 0.09}

	if got := e.PrecisionRate(errors); math.Abs(got-90.0) > 1e-9 {
		t.Fatalf("PrecisionRate = %f, want exactly 90.0", got)
	}
}

func TestPrecisionRateEmptyIsPerfect(t *testing.T) {
	e := NewEvaluator(0.2)
	if got := e.PrecisionRate(nil); got != 100 {
		t.Fatalf("PrecisionRate(nil) = %f, want 100", got)
	}
}

func TestPrecisionRateBoundaryInclusive(t *testing.T) {
	e := NewEvaluator(0.2)
	if got := e.PrecisionRate([]float64{0.2}); got != 100 {
		t.Fatalf("error exactly at threshold should count: %f", got)
	}
}

func TestSummarize(t *testing.T) {
	avg, max := Summarize([]float64{0.1, 0.2, 0.3})
	if math.Abs(avg-0.2) > 1e-9 {
		t.Errorf("avg = %f, want 0.2", avg)
	}
	if math.Abs(max-0.3) > 1e-9 {
		t.Errorf("max = %f, want 0.3", max)
	}

	avg, max = Summarize(nil)
	if avg != 0 || max != 0 {
		t.Errorf("Summarize(nil) = %f, %f, want zeros", avg, max)
	}
}

func TestScoreRangeAndOrdering(t *testing.T) {
	e := NewEvaluator(0.2)

	good := e.Score(ScoreInput{
		Errors:         []float64{0.02, 0.03, 0.05},
		BoundaryErrors: []float64{0.02},
		AverageError:   0.033,
		MaxError:       0.05,
		Strategy:       "dynamic_programming",
	})
	bad := e.Score(ScoreInput{
		Errors:       []float64{0.5, 0.8, 1.2},
		AverageError: 0.833,
		MaxError:     1.2,
		Strategy:     "nearest_neighbor",
	})

	if good <= bad {
		t.Fatalf("ordering broken: good=%f bad=%f", good, bad)
	}
	for _, s := range []float64{good, bad} {
		if s < 0 || s > 100 {
			t.Errorf("score %f outside [0,100]", s)
		}
	}
}

func TestScoreClampsAtZero(t *testing.T) {
	e := NewEvaluator(0.1)
	got := e.Score(ScoreInput{
		Errors:       []float64{5, 6, 7},
		AverageError: 6,
		MaxError:     7,
		Strategy:     "nearest_neighbor",
	})
	if got != 0 {
		t.Fatalf("hopeless candidate score = %f, want 0", got)
	}
}

func TestScoreBoundaryQualityTiers(t *testing.T) {
	tests := []struct {
		errors []float64
		want   float64
	}{
		{[]float64{0.05}, 20},
		{[]float64{0.15}, 15},
		{[]float64{0.4}, 10},
		{[]float64{0.9}, 5},
		{nil, 10},
	}
	for _, tt := range tests {
		if got := boundaryQuality(tt.errors); got != tt.want {
			t.Errorf("boundaryQuality(%v) = %f, want %f", tt.errors, got, tt.want)
		}
	}
}

func TestScoreMLBonus(t *testing.T) {
	e := NewEvaluator(0.2)
	base := ScoreInput{
		Errors:       []float64{0.15, 0.25},
		AverageError: 0.2,
		MaxError:     0.25,
		Strategy:     "nearest_neighbor",
	}
	without := e.Score(base)
	base.MLEnabled = true
	with := e.Score(base)
	if math.Abs(with-without-2.0) > 1e-9 {
		t.Fatalf("ML bonus = %f, want 2.0", with-without)
	}
}
