package weighting

import (
	"math"
	"testing"
)

func TestRulePredictBase(t *testing.T) {
	p := NewRuleBasedPredictor()
	s := Sample{BoundaryDistance: 5, Position: 0.5, Timestamp: 0.5}
	if got := p.Predict(s); math.Abs(got-1.2) > 0.0001 {
		t.Fatalf("plain sample weight = %f, want 1.2", got)
	}
}

func TestRulePredictBoundaryTiers(t *testing.T) {
	p := NewRuleBasedPredictor()
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.1, 1.2 * 3.0},
		{0.3, 1.2 * 2.5},
		{0.7, 1.2 * 2.0},
		{1.2, 1.2 * 1.7},
		{3.0, 1.2},
	}
	for _, tt := range tests {
		s := Sample{BoundaryDistance: tt.distance, Position: 0.5}
		if got := p.Predict(s); math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("distance %.1f weight = %f, want %f", tt.distance, got, tt.want)
		}
	}
}

func TestRulePredictClamps(t *testing.T) {
	p := NewRuleBasedPredictor()
	s := Sample{
		BoundaryDistance:   0.1,
		Position:           0.02,
		TimeGapToPrevious:  12,
		PreviousPointError: 0.7,
		TextLength:         80,
		IsDialogueBoundary: true,
		IsSceneTransition:  true,
		IsEmotionalPeak:    true,
	}
	if got := p.Predict(s); got != MaxWeight {
		t.Fatalf("stacked boosts = %f, want clamp to %f", got, MaxWeight)
	}
}

func TestRulePredictEdgePositions(t *testing.T) {
	p := NewRuleBasedPredictor()
	center := p.Predict(Sample{BoundaryDistance: 5, Position: 0.5})
	near := p.Predict(Sample{BoundaryDistance: 5, Position: 0.15})
	edge := p.Predict(Sample{BoundaryDistance: 5, Position: 0.05})
	if !(center < near && near < edge) {
		t.Fatalf("edge taper broken: center=%f near=%f edge=%f", center, near, edge)
	}
	if math.Abs(edge-center*1.8) > 0.0001 {
		t.Errorf("edge boost = %f, want %f", edge, center*1.8)
	}
}
