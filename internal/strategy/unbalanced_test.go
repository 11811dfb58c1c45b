package strategy

import (
	"testing"
)

func TestUnbalancedApplicability(t *testing.T) {
	if (Unbalanced{}).Applicable(5, 5) {
		t.Error("unbalanced should not apply to equal cardinalities")
	}
	if !(Unbalanced{}).Applicable(5, 3) {
		t.Error("unbalanced should apply to unequal cardinalities")
	}
	if (Unbalanced{}).Applicable(0, 3) {
		t.Error("unbalanced should not apply to empty input")
	}
}

func TestUnbalancedFiveToThree(t *testing.T) {
	in := Input{
		Ref:     []float64{1, 5, 10, 15, 20},
		Edited:  []float64{5.1, 10.05, 19.9},
		Weights: []float64{1, 1, 1, 1, 1},
	}

	pairs, err := Unbalanced{}.Run(in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3 (one per edited point)", len(pairs))
	}

	seen := map[int]bool{}
	for _, p := range pairs {
		if seen[p.EditIndex] {
			t.Fatalf("edited index %d consumed twice: %v", p.EditIndex, pairs)
		}
		seen[p.EditIndex] = true
	}
	for _, p := range pairs {
		if p.Distance > 0.2 {
			t.Errorf("pair %+v error too large", p)
		}
	}
}

func TestUnbalancedAnchorsBoundaryPointsFirst(t *testing.T) {
	// Ref point at 10 is boundary-adjacent; the lone edited point sits 2.5s
	// away, inside the relaxed anchor ceiling but beyond nothing else.
	in := Input{
		Ref:        []float64{10, 30},
		Edited:     []float64{12.5},
		Weights:    []float64{1, 1},
		Boundaries: []float64{10},
	}

	pairs, err := Unbalanced{}.Run(in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].RefIndex != 0 {
		t.Fatalf("anchor pass should claim the boundary point: %+v", pairs[0])
	}
}

func TestUnbalancedDeterministicReplacement(t *testing.T) {
	// Two poor matches contend for the same unused edited point in the
	// replacement pass; repeated identical calls must resolve the
	// contention the same way every time.
	in := Input{
		Ref:    []float64{10.0, 50.0, 10.82},
		Edited: []float64{9.4, 50.05, 10.41, 80.0, 11.42},
	}

	first, err := Unbalanced{}.Run(in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for run := 0; run < 200; run++ {
		pairs, err := Unbalanced{}.Run(in)
		if err != nil {
			t.Fatalf("Run %d: %v", run, err)
		}
		if len(pairs) != len(first) {
			t.Fatalf("run %d: got %d pairs, first run had %d", run, len(pairs), len(first))
		}
		for k := range pairs {
			if pairs[k] != first[k] {
				t.Fatalf("run %d diverged at pair %d: %+v vs %+v", run, k, pairs[k], first[k])
			}
		}
	}
}

func TestUnbalancedOutputSortedByRefIndex(t *testing.T) {
	in := Input{
		Ref:    []float64{2, 4, 6, 8, 10, 12},
		Edited: []float64{3.9, 8.1, 11.95},
	}

	pairs, err := Unbalanced{}.Run(in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for k := 1; k < len(pairs); k++ {
		if pairs[k].RefIndex < pairs[k-1].RefIndex {
			t.Fatalf("pairs not sorted: %v", pairs)
		}
	}
}
