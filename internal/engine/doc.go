// Package engine orchestrates multi-strategy subtitle alignment.
//
// One call maps an edited track's lines onto the reference track's timeline:
// boundary detection and per-point weighting feed a set of alignment
// strategies, every produced candidate is quality-scored, and the best one
// becomes the AlignmentResult. The cheap nearest-neighbor pass short-circuits
// the expensive DP and hybrid strategies when it already meets the requested
// precision.
//
// Align never returns an error. Recoverable problems degrade locally; a
// total inability to align is reported as a degraded result carrying sentinel
// error values, because "no good answer" is a valid outcome for a best-effort
// statistical aligner.
package engine
