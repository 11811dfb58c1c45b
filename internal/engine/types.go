package engine

import (
	"fmt"
	"strings"
	"time"

	"clipalign/internal/boundary"
)

// PrecisionLevel names the error tolerance an alignment call must aim for.
type PrecisionLevel int

const (
	PrecisionUltraHigh PrecisionLevel = iota
	PrecisionHigh
	PrecisionStandard
	PrecisionRelaxed
)

// Threshold returns the level's error tolerance in seconds.
func (l PrecisionLevel) Threshold() float64 {
	switch l {
	case PrecisionUltraHigh:
		return 0.1
	case PrecisionHigh:
		return 0.2
	case PrecisionRelaxed:
		return 1.0
	default:
		return 0.5
	}
}

func (l PrecisionLevel) String() string {
	switch l {
	case PrecisionUltraHigh:
		return "ultra_high"
	case PrecisionHigh:
		return "high"
	case PrecisionRelaxed:
		return "relaxed"
	default:
		return "standard"
	}
}

// ParsePrecisionLevel resolves a level from its configuration name.
func ParsePrecisionLevel(value string) (PrecisionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ultra_high", "ultrahigh", "ultra-high":
		return PrecisionUltraHigh, nil
	case "high":
		return PrecisionHigh, nil
	case "standard", "":
		return PrecisionStandard, nil
	case "relaxed":
		return PrecisionRelaxed, nil
	default:
		return PrecisionStandard, fmt.Errorf("unknown precision level %q", value)
	}
}

// criticalErrorThreshold flags points whose error makes the match suspect.
const criticalErrorThreshold = 0.5

// AlignmentPoint is one matched index pair, the authoritative unit of output
// precision.
type AlignmentPoint struct {
	ReferenceIndex   int               `json:"reference_index"`
	EditedIndex      int               `json:"edited_index"`
	ReferenceTime    float64           `json:"reference_time"`
	EditedTime       float64           `json:"edited_time"`
	Confidence       float64           `json:"confidence"`
	Error            float64           `json:"error"`
	BoundaryCategory boundary.Category `json:"boundary_category"`
	Critical         bool              `json:"critical"`
	Note             string            `json:"note,omitempty"`
}

// VideoSegment is the interval on the reference timeline corresponding to
// one edited line, ready for an external cutter.
type VideoSegment struct {
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	ReferenceIndex int     `json:"reference_index"`
	EditedIndex    int     `json:"edited_index"`
	Confidence     float64 `json:"confidence"`
	Error          float64 `json:"error"`
}

// AlignmentResult is the sole output of an alignment call.
type AlignmentResult struct {
	RunID          string           `json:"run_id"`
	Strategy       string           `json:"strategy"`
	Segments       []VideoSegment   `json:"segments"`
	Points         []AlignmentPoint `json:"points"`
	TotalDuration  float64          `json:"total_duration"`
	AverageError   float64          `json:"average_error"`
	MaxError       float64          `json:"max_error"`
	PrecisionRate  float64          `json:"precision_rate"`
	ProcessingTime time.Duration    `json:"processing_time"`
	QualityScore   float64          `json:"quality_score"`
	// Degraded marks a total failure to align: sentinel errors, no
	// segments, nothing usable downstream.
	Degraded bool `json:"degraded"`
}
