package boundary

import "strconv"

// Category classifies why a time point matters for alignment.
type Category int

const (
	CategoryNone Category = iota
	CategoryTrackStart
	CategoryTrackEnd
	CategoryDialogueStart
	CategoryDialogueEnd
	CategorySilenceGap
	CategorySceneTransition
	CategoryEmotionalPeak
)

var categoryNames = map[Category]string{
	CategoryNone:            "none",
	CategoryTrackStart:      "track_start",
	CategoryTrackEnd:        "track_end",
	CategoryDialogueStart:   "dialogue_start",
	CategoryDialogueEnd:     "dialogue_end",
	CategorySilenceGap:      "silence_gap",
	CategorySceneTransition: "scene_transition",
	CategoryEmotionalPeak:   "emotional_peak",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the category by name.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// Mark is one classified time point on the reference timeline.
type Mark struct {
	Time     float64
	Category Category
}

// Times extracts the raw time offsets of marks in order.
func Times(marks []Mark) []float64 {
	times := make([]float64, len(marks))
	for i, m := range marks {
		times[i] = m.Time
	}
	return times
}

// Nearest returns the mark closest in time to t, and false when marks is empty.
func Nearest(marks []Mark, t float64) (Mark, bool) {
	if len(marks) == 0 {
		return Mark{}, false
	}
	best := marks[0]
	bestDist := absFloat(t - best.Time)
	for _, m := range marks[1:] {
		if d := absFloat(t - m.Time); d < bestDist {
			best = m
			bestDist = d
		}
	}
	return best, true
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
