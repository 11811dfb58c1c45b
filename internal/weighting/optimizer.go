package weighting

import (
	"log/slog"
	"math"
	"sync"

	"clipalign/internal/logging"
)

const (
	defaultCapacity = 500
	minTrainRecords = 20
	retrainInterval = 5
	// confidenceScale is the record count at which sample-size confidence
	// saturates.
	confidenceScale = 100.0
)

// Options configures an Optimizer.
type Options struct {
	// Learning enables the trainable predictor; when false only the
	// rule-based estimate is used.
	Learning bool
	// Capacity bounds the training ring buffer. Zero means the default.
	Capacity int
	// OnTrain, when set, observes every accepted training record. Used by
	// the embedding layer to persist records outside the engine.
	OnTrain func(Record)
}

// Optimizer produces importance weights by blending the rule-based and
// trainable predictors.
type Optimizer struct {
	mu        sync.RWMutex
	rule      *RuleBasedPredictor
	trainable *TrainablePredictor
	records   []Record
	capacity  int
	newSince  int
	onTrain   func(Record)
	logger    *slog.Logger
}

// NewOptimizer constructs an optimizer. A nil logger disables logging.
func NewOptimizer(opts Options, logger *slog.Logger) *Optimizer {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	o := &Optimizer{
		rule:     NewRuleBasedPredictor(),
		capacity: capacity,
		onTrain:  opts.OnTrain,
		logger:   logging.NewComponentLogger(logger, "weight-optimizer"),
	}
	if opts.Learning {
		o.trainable = NewTrainablePredictor()
	}
	return o
}

// Learning reports whether the trainable predictor is enabled.
func (o *Optimizer) Learning() bool {
	return o.trainable != nil
}

// TrainingCount returns the number of buffered training records.
func (o *Optimizer) TrainingCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.records)
}

// Ready reports whether a fitted model is available.
func (o *Optimizer) Ready() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.trainable != nil && o.trainable.Ready()
}

// Weight computes the blended importance weight for a sample. It never fails:
// any prediction problem falls back to the rule-based estimate.
func (o *Optimizer) Weight(s Sample) float64 {
	ruleEstimate := o.rule.Predict(s)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.trainable == nil || !o.trainable.Ready() {
		return ruleEstimate
	}

	predicted, err := o.trainable.Predict(s)
	if err != nil {
		o.logger.Debug("prediction failed, using rule estimate", logging.Error(err))
		return ruleEstimate
	}

	alpha := o.blendFactor(s, ruleEstimate, predicted, len(o.records))
	return clampWeight(alpha*predicted + (1-alpha)*ruleEstimate)
}

// blendFactor controls how much the learned model is trusted over the rules.
// It grows with feature importance, with accumulated training volume, and
// with agreement between the two estimates.
func (o *Optimizer) blendFactor(s Sample, ruleEstimate, predicted float64, recordCount int) float64 {
	importance := featureImportance(s)
	sizeConfidence := math.Min(1, float64(recordCount)/confidenceScale)
	agreement := 1 / (1 + math.Abs(predicted-ruleEstimate))

	alpha := importance * sizeConfidence * (0.7 + 0.3*agreement)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// featureImportance scores how informative a sample's features are, as a
// weighted sum capped at 1.0.
func featureImportance(s Sample) float64 {
	score := 0.0
	if s.BoundaryDistance < 2.0 {
		score += 0.4 * (1 - s.BoundaryDistance/2.0)
	}
	if s.IsDialogueBoundary {
		score += 0.2
	}
	if s.IsSceneTransition {
		score += 0.15
	}
	if s.IsEmotionalPeak {
		score += 0.25
	}
	edge := math.Min(s.Position, 1-s.Position)
	if edge < 0.2 {
		score += 0.2 * (1 - edge/0.2)
	}
	if score > 1 {
		return 1
	}
	return score
}

// Train appends one record, evicts beyond capacity, and retrains once enough
// records have accumulated. Retraining failures keep the previous model in
// force; Train never fails the caller. The observer runs outside the lock so
// slow persistence cannot stall concurrent Weight calls.
func (o *Optimizer) Train(record Record) {
	o.mu.Lock()
	o.appendLocked(record)
	o.maybeRetrainLocked()
	o.mu.Unlock()

	if o.onTrain != nil {
		o.onTrain(record)
	}
}

// Seed loads previously persisted records into the buffer and fits the model
// once when enough are present. Intended for startup, before concurrent use.
func (o *Optimizer) Seed(records []Record) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, record := range records {
		o.appendLocked(record)
	}
	o.newSince = 0
	if o.trainable == nil || len(o.records) < minTrainRecords {
		return
	}
	if err := o.trainable.Fit(o.records); err != nil {
		o.logger.Warn("seed training failed, rules only until retrain", logging.Error(err))
	}
}

// Snapshot copies the current training buffer.
func (o *Optimizer) Snapshot() []Record {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Record, len(o.records))
	copy(out, o.records)
	return out
}

func (o *Optimizer) appendLocked(record Record) {
	o.records = append(o.records, record)
	if len(o.records) > o.capacity {
		o.records = o.records[len(o.records)-o.capacity:]
	}
	o.newSince++
}

func (o *Optimizer) maybeRetrainLocked() {
	if o.trainable == nil {
		return
	}
	if len(o.records) < minTrainRecords || o.newSince < retrainInterval {
		return
	}
	if err := o.trainable.Fit(o.records); err != nil {
		o.logger.Warn("retrain failed, keeping previous model", logging.Error(err))
		return
	}
	o.newSince = 0
	o.logger.Debug("model retrained", logging.Int("records", len(o.records)))
}
