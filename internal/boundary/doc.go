// Package boundary derives structurally significant time points from a
// reference track's timestamps.
//
// The detector classifies marks as dialogue starts/ends, silence gaps, scene
// transitions, emotional peaks, and the mandatory track start/end pair. Each
// sub-detector degrades independently: if one fails the others still
// contribute, and in the worst case only the track endpoints are returned.
// Detection never fails an alignment call.
package boundary
