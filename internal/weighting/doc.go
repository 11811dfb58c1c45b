// Package weighting assigns importance weights to reference time points.
//
// Two predictors contribute: a deterministic rule-based estimate that is
// always available, and an optional trainable regression estimate fitted from
// observed alignment outcomes. The Optimizer blends them with a confidence
// factor that grows with training volume and with agreement between the two
// estimates, so a cold or failing model degrades transparently to the rules.
//
// The training buffer and fitted model are the only mutable state shared
// across alignment calls; the Optimizer serializes training and model swaps
// behind a read/write lock so Weight may be called concurrently.
package weighting
