// Package srt reads and writes SubRip subtitle files.
//
// Parsing is deliberately forgiving: blocks with missing indices, broken
// timing lines, or unparsable timestamps are skipped rather than failing the
// whole file, since real-world edited tracks are frequently hand-mangled.
package srt
