package weighting

import (
	"math"
	"testing"
)

func trainingRecord(i int) Record {
	pos := float64(i%10) / 10
	return Record{
		Sample: Sample{
			TimeGapToPrevious: 1 + float64(i%5),
			Position:          pos,
			BoundaryDistance:  0.1 + float64(i%4)*0.5,
			TextLength:        10 + i%30,
			Timestamp:         pos,
		},
		OptimalWeight: 1.0 + float64(i%4)*0.8,
		ObservedError: 0.05 * float64(i%6),
		Success:       i%6 < 4,
	}
}

func TestWeightRuleOnlyWhenLearningDisabled(t *testing.T) {
	o := NewOptimizer(Options{Learning: false}, nil)
	s := Sample{BoundaryDistance: 0.1, Position: 0.05}

	want := NewRuleBasedPredictor().Predict(s)
	if got := o.Weight(s); math.Abs(got-want) > 0.0001 {
		t.Fatalf("Weight = %f, want rule estimate %f", got, want)
	}
	if o.Ready() {
		t.Fatal("optimizer should never be ready without learning")
	}
}

func TestWeightFallsBackBeforeTraining(t *testing.T) {
	o := NewOptimizer(Options{Learning: true}, nil)
	s := Sample{BoundaryDistance: 0.3, Position: 0.9}

	want := NewRuleBasedPredictor().Predict(s)
	if got := o.Weight(s); math.Abs(got-want) > 0.0001 {
		t.Fatalf("cold Weight = %f, want rule estimate %f", got, want)
	}
}

func TestTrainFitsAfterThreshold(t *testing.T) {
	o := NewOptimizer(Options{Learning: true}, nil)

	for i := 0; i < minTrainRecords-1; i++ {
		o.Train(trainingRecord(i))
	}
	if o.Ready() {
		t.Fatalf("model fitted with %d records, want none before %d", o.TrainingCount(), minTrainRecords)
	}

	o.Train(trainingRecord(minTrainRecords - 1))
	if !o.Ready() {
		t.Fatal("model not fitted once the training threshold was reached")
	}
}

func TestWeightStaysBoundedAfterTraining(t *testing.T) {
	o := NewOptimizer(Options{Learning: true}, nil)
	for i := 0; i < 60; i++ {
		o.Train(trainingRecord(i))
	}
	if !o.Ready() {
		t.Fatal("expected fitted model")
	}

	samples := []Sample{
		{BoundaryDistance: 0.05, Position: 0.01, IsEmotionalPeak: true, TimeGapToPrevious: 12},
		{BoundaryDistance: 3, Position: 0.5},
		{BoundaryDistance: 0.4, Position: 0.95, IsDialogueBoundary: true, TextLength: 50},
	}
	for _, s := range samples {
		got := o.Weight(s)
		if got < MinWeight || got > MaxWeight {
			t.Errorf("Weight(%+v) = %f, outside [%f, %f]", s, got, MinWeight, MaxWeight)
		}
	}
}

func TestWeightDeterministicWithFixedModel(t *testing.T) {
	o := NewOptimizer(Options{Learning: true}, nil)
	for i := 0; i < 40; i++ {
		o.Train(trainingRecord(i))
	}

	s := Sample{BoundaryDistance: 0.2, Position: 0.1, TextLength: 25}
	first := o.Weight(s)
	for i := 0; i < 5; i++ {
		if got := o.Weight(s); got != first {
			t.Fatalf("Weight not deterministic: %f then %f", first, got)
		}
	}
}

func TestTrainEvictsBeyondCapacity(t *testing.T) {
	o := NewOptimizer(Options{Learning: false, Capacity: 25}, nil)
	for i := 0; i < 40; i++ {
		o.Train(trainingRecord(i))
	}
	if got := o.TrainingCount(); got != 25 {
		t.Fatalf("TrainingCount = %d, want capacity 25", got)
	}
}

func TestTrainInvokesObserver(t *testing.T) {
	var seen []Record
	o := NewOptimizer(Options{OnTrain: func(r Record) { seen = append(seen, r) }}, nil)

	o.Train(trainingRecord(0))
	o.Train(trainingRecord(1))

	if len(seen) != 2 {
		t.Fatalf("observer saw %d records, want 2", len(seen))
	}
}

func TestTrainObserverRunsUnlocked(t *testing.T) {
	// The observer must be able to call back into the optimizer; if Train
	// still held the write lock, the Weight call here would deadlock.
	var o *Optimizer
	called := false
	o = NewOptimizer(Options{OnTrain: func(r Record) {
		called = true
		_ = o.Weight(r.Sample)
	}}, nil)

	o.Train(trainingRecord(0))
	if !called {
		t.Fatal("observer not invoked")
	}
}

func TestSeedFitsModel(t *testing.T) {
	records := make([]Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, trainingRecord(i))
	}

	o := NewOptimizer(Options{Learning: true}, nil)
	o.Seed(records)

	if !o.Ready() {
		t.Fatal("seeded optimizer should have a fitted model")
	}
	if got := o.TrainingCount(); got != 30 {
		t.Fatalf("TrainingCount = %d, want 30", got)
	}
}

func TestSnapshotCopies(t *testing.T) {
	o := NewOptimizer(Options{}, nil)
	o.Train(trainingRecord(0))

	snap := o.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot length = %d, want 1", len(snap))
	}
	snap[0].ObservedError = 99
	if o.Snapshot()[0].ObservedError == 99 {
		t.Fatal("snapshot should not alias internal buffer")
	}
}

func TestFeatureImportanceCapped(t *testing.T) {
	s := Sample{
		BoundaryDistance:   0,
		Position:           0,
		IsDialogueBoundary: true,
		IsSceneTransition:  true,
		IsEmotionalPeak:    true,
	}
	if got := featureImportance(s); got != 1 {
		t.Fatalf("featureImportance = %f, want cap at 1", got)
	}
}
