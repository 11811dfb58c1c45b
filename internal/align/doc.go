// Package align computes index correspondences between two ordered
// timestamp sequences using dynamic time warping over a weighted cost
// matrix.
//
// Costs are biased three ways before the DP pass: high-importance reference
// points get cheaper matches, anything near a structural boundary is strongly
// preferred, and locally inverted travel direction is penalized. The
// recovered path is smoothed to remove isolated outliers introduced by local
// minima in the matrix.
package align
