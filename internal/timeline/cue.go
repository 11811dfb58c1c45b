package timeline

import "strings"

// Line is a raw timed text entry with unparsed SRT-style timestamps.
type Line struct {
	Start string
	End   string
	Text  string
}

// Cue is a timed text entry in float seconds on its track's timeline.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue's span in seconds, never negative.
func (c Cue) Duration() float64 {
	if c.End < c.Start {
		return 0
	}
	return c.End - c.Start
}

// Parse converts a raw line into a cue. Malformed timestamps become 0.0
// rather than failing; callers that care should treat zero starts beyond the
// first line with suspicion.
func (l Line) Parse() Cue {
	return Cue{
		Start: ParseTimestampLenient(l.Start),
		End:   ParseTimestampLenient(l.End),
		Text:  strings.TrimSpace(l.Text),
	}
}

// ParseLines converts raw lines into cues, preserving order.
func ParseLines(lines []Line) []Cue {
	cues := make([]Cue, len(lines))
	for i, l := range lines {
		cues[i] = l.Parse()
	}
	return cues
}

// StartTimes extracts the start offsets of cues in order.
func StartTimes(cues []Cue) []float64 {
	times := make([]float64, len(cues))
	for i, c := range cues {
		times[i] = c.Start
	}
	return times
}

// TrackDuration returns the latest end time across cues, or 0 for an empty track.
func TrackDuration(cues []Cue) float64 {
	var last float64
	for _, c := range cues {
		if c.End > last {
			last = c.End
		}
	}
	return last
}
