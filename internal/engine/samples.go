package engine

import (
	"math"

	"clipalign/internal/boundary"
	"clipalign/internal/timeline"
	"clipalign/internal/weighting"
)

// boundaryWindow is the distance within which a reference point takes on a
// nearby mark's category.
const boundaryWindow = 1.0

// buildSamples derives the weighting feature vector for every reference
// point. PreviousPointError stays zero here: error history only exists once
// a candidate has been aligned, and is filled in when training records are
// built.
func buildSamples(ref []timeline.Cue, refTimes []float64, marks []boundary.Mark, duration float64) []weighting.Sample {
	m := len(ref)
	samples := make([]weighting.Sample, m)
	for i := range ref {
		s := weighting.Sample{
			TextLength: len(ref[i].Text),
		}
		if i > 0 {
			s.TimeGapToPrevious = refTimes[i] - refTimes[i-1]
		}
		if m > 1 {
			s.Position = float64(i) / float64(m-1)
		}
		if duration > 0 {
			s.Timestamp = math.Min(1, math.Max(0, refTimes[i]/duration))
		}

		s.BoundaryDistance = math.Inf(1)
		for _, mark := range marks {
			d := math.Abs(refTimes[i] - mark.Time)
			if d < s.BoundaryDistance {
				s.BoundaryDistance = d
			}
			if d > boundaryWindow {
				continue
			}
			switch mark.Category {
			case boundary.CategoryDialogueStart, boundary.CategoryDialogueEnd:
				s.IsDialogueBoundary = true
			case boundary.CategorySceneTransition:
				s.IsSceneTransition = true
			case boundary.CategoryEmotionalPeak:
				s.IsEmotionalPeak = true
			}
		}
		if math.IsInf(s.BoundaryDistance, 1) {
			s.BoundaryDistance = duration
		}
		samples[i] = s
	}
	return samples
}

// nearestCategory returns the category of the closest mark within the
// boundary window, or CategoryNone.
func nearestCategory(marks []boundary.Mark, t float64) boundary.Category {
	mark, ok := boundary.Nearest(marks, t)
	if !ok || math.Abs(mark.Time-t) > boundaryWindow {
		return boundary.CategoryNone
	}
	return mark.Category
}
