// Package quality scores alignment candidates for strategy selection.
//
// The composite 0-100 score leans on the precision rate against the
// requested tolerance, adds a smaller term for how well the structurally
// critical points landed, and subtracts a penalty proportional to average
// error. The exact bonus constants are an empirical calibration: treat the
// score as "higher is better" for ranking, not as a portable metric.
package quality
