// Package trainstore persists weight-optimizer training records in SQLite so
// learned models survive process restarts.
package trainstore
