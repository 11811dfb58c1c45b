package engine

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"clipalign/internal/align"
	"clipalign/internal/boundary"
	"clipalign/internal/logging"
	"clipalign/internal/quality"
	"clipalign/internal/strategy"
	"clipalign/internal/timeline"
	"clipalign/internal/weighting"
)

const (
	defaultMaxIterations = 3
	// sentinelError marks a degraded result's error statistics.
	sentinelError = 9999.0
	// cheapPassRate is the nearest-neighbor precision rate below which the
	// orchestrator escalates to the DP and hybrid strategies.
	cheapPassRate = 90.0
	// earlyStopRate ends DP iteration once reached together with the
	// average-error target.
	earlyStopRate = 95.0
)

// Config tunes the orchestrator.
type Config struct {
	// MaxIterations caps the dynamic programming retuning loop.
	MaxIterations int
	// Boundary overrides the boundary detector's heuristics.
	Boundary boundary.Config
}

// Engine runs the full multi-strategy alignment search. Instances hold no
// per-call mutable state; distinct calls may run concurrently. The optimizer
// is the only shared mutable collaborator and synchronizes internally.
type Engine struct {
	cfg       Config
	detector  *boundary.Detector
	optimizer *weighting.Optimizer
	logger    *slog.Logger
}

// New constructs an engine around an explicit optimizer handle. A nil
// optimizer gets a rules-only default; a nil logger disables logging.
func New(cfg Config, optimizer *weighting.Optimizer, logger *slog.Logger) *Engine {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if optimizer == nil {
		optimizer = weighting.NewOptimizer(weighting.Options{}, logger)
	}
	return &Engine{
		cfg:       cfg,
		detector:  boundary.NewDetector(cfg.Boundary, logger),
		optimizer: optimizer,
		logger:    logging.NewComponentLogger(logger, "alignment-engine"),
	}
}

// Align maps raw edited lines onto the reference track's timeline. Line
// timestamps are parsed leniently: malformed values become 0.0 per the
// ingest contract. Align never returns an error; total failure is a
// degraded result.
func (e *Engine) Align(ref, edited []timeline.Line, totalDuration float64, level PrecisionLevel) AlignmentResult {
	return e.AlignCues(timeline.ParseLines(ref), timeline.ParseLines(edited), totalDuration, level)
}

// AlignCues is Align for already-parsed cues.
func (e *Engine) AlignCues(ref, edited []timeline.Cue, totalDuration float64, level PrecisionLevel) AlignmentResult {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With(logging.String(logging.FieldRunID, runID))

	threshold := level.Threshold()
	evaluator := quality.NewEvaluator(threshold)

	if len(ref) == 0 && len(edited) == 0 {
		// Nothing was asked for and nothing was missed.
		return AlignmentResult{
			RunID:          runID,
			Strategy:       "none",
			PrecisionRate:  100,
			QualityScore:   evaluator.Score(quality.ScoreInput{}),
			TotalDuration:  totalDuration,
			ProcessingTime: time.Since(start),
		}
	}
	if len(ref) == 0 || len(edited) == 0 {
		logger.Warn("one-sided input, nothing to align",
			logging.Int("reference", len(ref)), logging.Int("edited", len(edited)))
		return e.degraded(runID, totalDuration, start)
	}

	duration := totalDuration
	if duration <= 0 {
		duration = timeline.TrackDuration(ref)
	}

	refTimes := timeline.StartTimes(ref)
	editTimes := timeline.StartTimes(edited)
	marks := e.detector.Detect(refTimes, duration)
	samples := buildSamples(ref, refTimes, marks, duration)

	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = e.optimizer.Weight(s)
	}

	in := strategy.Input{
		Ref:        refTimes,
		Edited:     editTimes,
		Weights:    weights,
		Boundaries: boundary.Times(marks),
	}

	candidates := e.search(in, marks, evaluator, logger)
	if len(candidates) == 0 {
		logger.Warn("all strategies failed")
		return e.degraded(runID, totalDuration, start)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		// Strictly greater: ties favor the earliest-computed strategy.
		if c.score > best.score {
			best = c
		}
	}
	logger.Info("alignment selected",
		logging.String(logging.FieldStrategy, best.name),
		logging.Float64("score", best.score),
		logging.Float64("precision_rate", best.precision),
		logging.Float64("avg_error", best.avgError))

	e.train(samples, weights, best, threshold)

	return AlignmentResult{
		RunID:          runID,
		Strategy:       best.name,
		Segments:       buildSegments(best.points, ref),
		Points:         best.points,
		TotalDuration:  duration,
		AverageError:   best.avgError,
		MaxError:       best.maxError,
		PrecisionRate:  best.precision,
		ProcessingTime: time.Since(start),
		QualityScore:   best.score,
	}
}

// candidate is one scored strategy outcome.
type candidate struct {
	name      string
	points    []AlignmentPoint
	errors    []float64
	avgError  float64
	maxError  float64
	precision float64
	score     float64
}

// search runs the strategy set. The nearest-neighbor pass always runs; the
// unbalanced strategy joins whenever cardinalities differ; DP and hybrid run
// only when the cheap pass misses the target.
func (e *Engine) search(in strategy.Input, marks []boundary.Mark, evaluator *quality.Evaluator, logger *slog.Logger) []candidate {
	var candidates []candidate
	run := func(s strategy.Strategy) (candidate, bool) {
		if !s.Applicable(len(in.Ref), len(in.Edited)) {
			return candidate{}, false
		}
		pairs, err := s.Run(in)
		if err != nil {
			logger.Warn("strategy failed, excluded from scoring",
				logging.String(logging.FieldStrategy, s.Name()), logging.Error(err))
			return candidate{}, false
		}
		if len(pairs) == 0 {
			return candidate{}, false
		}
		c := e.evaluate(s.Name(), pairs, in, marks, evaluator)
		candidates = append(candidates, c)
		return c, true
	}

	nn, nnOK := run(strategy.NearestNeighbor{})
	run(strategy.Unbalanced{})

	threshold := evaluator.Threshold()
	if nnOK && nn.precision >= cheapPassRate && nn.avgError <= threshold {
		return candidates
	}

	params := align.DefaultParams()
	params.Window = initialWindow(len(in.Ref), len(in.Edited))
	for iter := 0; iter < e.cfg.MaxIterations; iter++ {
		c, ok := run(strategy.NewDynamicProgramming(params, logger))
		if ok && c.precision >= earlyStopRate && c.avgError <= threshold {
			break
		}
		params = retune(params)
	}

	run(strategy.NewHybrid(align.DefaultParams(), logger))
	return candidates
}

// evaluate converts raw pairs into scored alignment points.
func (e *Engine) evaluate(name string, pairs []align.Pair, in strategy.Input, marks []boundary.Mark, evaluator *quality.Evaluator) candidate {
	points := make([]AlignmentPoint, 0, len(pairs))
	errors := make([]float64, 0, len(pairs))
	var boundaryErrors []float64

	for _, p := range pairs {
		refTime := in.Ref[p.RefIndex]
		editTime := in.Edited[p.EditIndex]
		pointErr := math.Abs(refTime - editTime)
		category := nearestCategory(marks, refTime)

		point := AlignmentPoint{
			ReferenceIndex:   p.RefIndex,
			EditedIndex:      p.EditIndex,
			ReferenceTime:    refTime,
			EditedTime:       editTime,
			Confidence:       math.Max(0, 1-pointErr),
			Error:            pointErr,
			BoundaryCategory: category,
			Critical:         pointErr > criticalErrorThreshold,
		}
		if point.Critical {
			point.Note = "match error above critical threshold"
		}
		points = append(points, point)
		errors = append(errors, pointErr)

		switch category {
		case boundary.CategoryTrackStart, boundary.CategoryTrackEnd, boundary.CategoryEmotionalPeak:
			boundaryErrors = append(boundaryErrors, pointErr)
		}
	}

	avg, max := quality.Summarize(errors)
	precision := evaluator.PrecisionRate(errors)
	score := evaluator.Score(quality.ScoreInput{
		Errors:         errors,
		BoundaryErrors: boundaryErrors,
		AverageError:   avg,
		MaxError:       max,
		MLEnabled:      e.optimizer.Learning(),
		Strategy:       name,
	})

	return candidate{
		name:      name,
		points:    points,
		errors:    errors,
		avgError:  avg,
		maxError:  max,
		precision: precision,
		score:     score,
	}
}

// train feeds the winning candidate's outcomes back into the optimizer.
// PreviousPointError is filled from the preceding point now that errors
// exist.
func (e *Engine) train(samples []weighting.Sample, weights []float64, best candidate, threshold float64) {
	if !e.optimizer.Learning() {
		return
	}
	var prevErr float64
	for _, p := range best.points {
		sample := samples[p.ReferenceIndex]
		sample.PreviousPointError = prevErr
		e.optimizer.Train(weighting.Record{
			Sample:        sample,
			OptimalWeight: weights[p.ReferenceIndex],
			ObservedError: p.Error,
			Success:       p.Error <= threshold,
		})
		prevErr = p.Error
	}
}

// buildSegments derives one reference-timeline interval per consumed edited
// line. When a warped path visits an edited index more than once, the lowest
// error pairing wins, so segments are never duplicated.
func buildSegments(points []AlignmentPoint, ref []timeline.Cue) []VideoSegment {
	byEdited := make(map[int]AlignmentPoint, len(points))
	for _, p := range points {
		if existing, ok := byEdited[p.EditedIndex]; ok && existing.Error <= p.Error {
			continue
		}
		byEdited[p.EditedIndex] = p
	}

	segments := make([]VideoSegment, 0, len(byEdited))
	for editedIndex, p := range byEdited {
		cue := ref[p.ReferenceIndex]
		segments = append(segments, VideoSegment{
			StartTime:      cue.Start,
			EndTime:        cue.End,
			ReferenceIndex: p.ReferenceIndex,
			EditedIndex:    editedIndex,
			Confidence:     p.Confidence,
			Error:          p.Error,
		})
	}
	sort.Slice(segments, func(a, b int) bool { return segments[a].EditedIndex < segments[b].EditedIndex })
	return segments
}

func (e *Engine) degraded(runID string, totalDuration float64, start time.Time) AlignmentResult {
	return AlignmentResult{
		RunID:          runID,
		Strategy:       "none",
		Degraded:       true,
		TotalDuration:  totalDuration,
		AverageError:   sentinelError,
		MaxError:       sentinelError,
		PrecisionRate:  0,
		ProcessingTime: time.Since(start),
	}
}

// initialWindow starts the DP band proportional to the shorter sequence.
func initialWindow(m, n int) int {
	shorter := m
	if n < shorter {
		shorter = n
	}
	w := shorter / 4
	if w < 3 {
		w = 3
	}
	return w
}

// retune widens the DP band, smooths more aggressively, and strengthens the
// boundary preference for the next iteration.
func retune(p align.Params) align.Params {
	p.Window *= 2
	p.SmoothingThreshold *= 0.9
	p.BoundaryDiscount *= 0.8
	return p
}
