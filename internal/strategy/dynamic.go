package strategy

import (
	"fmt"
	"log/slog"

	"clipalign/internal/align"
)

// DynamicProgramming wraps the full weighted DTW aligner as a strategy. The
// orchestrator constructs fresh instances per iteration with adapted
// parameters.
type DynamicProgramming struct {
	aligner *align.Aligner
}

// NewDynamicProgramming builds the DP strategy with the given parameters.
func NewDynamicProgramming(params align.Params, logger *slog.Logger) DynamicProgramming {
	return DynamicProgramming{aligner: align.New(params, logger)}
}

func (DynamicProgramming) Name() string { return "dynamic_programming" }

func (DynamicProgramming) Applicable(refCount, editCount int) bool {
	return refCount > 0 && editCount > 0
}

func (s DynamicProgramming) Run(in Input) ([]align.Pair, error) {
	pairs := s.aligner.Align(in.Ref, in.Edited, in.Weights, in.Boundaries)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("dtw produced no path")
	}
	return pairs, nil
}
