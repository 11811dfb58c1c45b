// Package timeline defines the shared time vocabulary for alignment work.
//
// A Cue is one timed text line in float seconds; a Line is the same record
// before its SRT-style timestamps have been parsed. The timestamp codec
// accepts the HH:MM:SS,mmm format (period tolerated for the millisecond
// separator) and offers a lenient variant that maps malformed values to zero
// so ingest never fails mid-track.
package timeline
