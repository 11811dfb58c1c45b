package boundary

import (
	"log/slog"
	"math"
	"sort"

	"clipalign/internal/logging"
)

// Config tunes the boundary heuristics. Zero values fall back to defaults.
type Config struct {
	// DialogueGapFloor is the minimum gap that can separate dialogue blocks
	// regardless of the track's mean spacing.
	DialogueGapFloor float64
	// SceneDeviationFloor is the minimum gap deviation that can qualify as a
	// scene transition regardless of the track's gap variance.
	SceneDeviationFloor float64
	// SilenceGap is the minimum gap treated as silence.
	SilenceGap float64
	// PeakSpacing is the minimum distance between flagged emotional peaks.
	PeakSpacing float64
}

func (c Config) withDefaults() Config {
	if c.DialogueGapFloor <= 0 {
		c.DialogueGapFloor = 1.0
	}
	if c.SceneDeviationFloor <= 0 {
		c.SceneDeviationFloor = 0.5
	}
	if c.SilenceGap <= 0 {
		c.SilenceGap = 2.0
	}
	if c.PeakSpacing <= 0 {
		c.PeakSpacing = 5.0
	}
	return c
}

// Detector finds structurally significant points in a reference timestamp
// sequence.
type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// NewDetector constructs a detector. A nil logger disables logging.
func NewDetector(cfg Config, logger *slog.Logger) *Detector {
	return &Detector{
		cfg:    cfg.withDefaults(),
		logger: logging.NewComponentLogger(logger, "boundary-detector"),
	}
}

// Detect derives boundary marks from reference start times. The track start
// and end marks are always present; every other sub-detector degrades
// independently so detection never fails the caller.
func (d *Detector) Detect(refTimes []float64, totalDuration float64) []Mark {
	if totalDuration < 0 {
		totalDuration = 0
	}
	marks := []Mark{
		{Time: 0, Category: CategoryTrackStart},
		{Time: totalDuration, Category: CategoryTrackEnd},
	}

	marks = append(marks, d.runSub("dialogue", func() []Mark { return d.dialogueMarks(refTimes) })...)
	marks = append(marks, d.runSub("silence", func() []Mark { return d.silenceMarks(refTimes) })...)
	marks = append(marks, d.runSub("scene", func() []Mark { return d.sceneMarks(refTimes) })...)
	marks = append(marks, d.runSub("peaks", func() []Mark { return d.peakMarks(refTimes) })...)

	return dedupe(marks)
}

// runSub isolates one sub-detector so a panic there costs only its marks.
func (d *Detector) runSub(name string, fn func() []Mark) (marks []Mark) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("boundary sub-detector failed", logging.String("detector", name), logging.Any("panic", r))
			marks = nil
		}
	}()
	return fn()
}

func (d *Detector) dialogueMarks(times []float64) []Mark {
	if len(times) == 0 {
		return nil
	}
	marks := []Mark{
		{Time: times[0], Category: CategoryDialogueStart},
		{Time: times[len(times)-1], Category: CategoryDialogueEnd},
	}
	if len(times) < 2 {
		return marks
	}

	gaps := consecutiveGaps(times)
	threshold := math.Max(d.cfg.DialogueGapFloor, 2*mean(gaps))
	for i, gap := range gaps {
		if gap > threshold {
			marks = append(marks,
				Mark{Time: times[i], Category: CategoryDialogueEnd},
				Mark{Time: times[i+1], Category: CategoryDialogueStart},
			)
		}
	}
	return marks
}

func (d *Detector) silenceMarks(times []float64) []Mark {
	if len(times) < 2 {
		return nil
	}
	var marks []Mark
	for i := 0; i < len(times)-1; i++ {
		gap := times[i+1] - times[i]
		if gap > d.cfg.SilenceGap {
			marks = append(marks, Mark{Time: times[i] + gap/2, Category: CategorySilenceGap})
		}
	}
	return marks
}

// sceneMarks flags gaps that deviate sharply from the track's rhythm. An
// extended gap must also exceed 1.5x the mean so sparse stretches are not
// over-marked; a compressed gap qualifies on deviation alone.
func (d *Detector) sceneMarks(times []float64) []Mark {
	if len(times) < 4 {
		return nil
	}
	gaps := consecutiveGaps(times)
	gapMean := mean(gaps)
	gapStd := stddev(gaps, gapMean)
	threshold := math.Max(d.cfg.SceneDeviationFloor, 2*gapStd)

	var marks []Mark
	for i, gap := range gaps {
		deviation := math.Abs(gap - gapMean)
		if deviation <= threshold {
			continue
		}
		if gap >= gapMean && gap <= 1.5*gapMean {
			continue
		}
		marks = append(marks, Mark{Time: times[i] + gap/2, Category: CategorySceneTransition})
	}
	return marks
}

// peakMarks finds clusters of unusually dense subtitles using a sliding
// window over local density.
func (d *Detector) peakMarks(times []float64) []Mark {
	n := len(times)
	window := n / 3
	if window > 3 {
		window = 3
	}
	if window < 2 {
		return nil
	}

	type candidate struct {
		time    float64
		density float64
	}
	var candidates []candidate
	var densitySum float64
	for i := 0; i+window <= n; i++ {
		span := times[i+window-1] - times[i]
		if span <= 0 {
			continue
		}
		density := 2 * float64(window) / span
		candidates = append(candidates, candidate{time: times[i+window/2], density: density})
		densitySum += density
	}
	if len(candidates) == 0 {
		return nil
	}

	avg := densitySum / float64(len(candidates))
	var marks []Mark
	lastPeak := math.Inf(-1)
	for _, c := range candidates {
		if c.density <= 1.5*avg {
			continue
		}
		if c.time-lastPeak < d.cfg.PeakSpacing {
			continue
		}
		marks = append(marks, Mark{Time: c.time, Category: CategoryEmotionalPeak})
		lastPeak = c.time
	}
	return marks
}

func consecutiveGaps(times []float64) []float64 {
	gaps := make([]float64, 0, len(times)-1)
	for i := 0; i < len(times)-1; i++ {
		gaps = append(gaps, times[i+1]-times[i])
	}
	return gaps
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// dedupe sorts marks ascending by time and removes duplicate (time, category)
// pairs.
func dedupe(marks []Mark) []Mark {
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].Time != marks[j].Time {
			return marks[i].Time < marks[j].Time
		}
		return marks[i].Category < marks[j].Category
	})
	out := marks[:0]
	for i, m := range marks {
		if i > 0 && m == marks[i-1] {
			continue
		}
		out = append(out, m)
	}
	return out
}
