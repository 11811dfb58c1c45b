// Package logging constructs slog loggers for the alignment engine and CLI.
//
// It offers a console handler tuned for interactive terminals (colorized when
// stdout is a TTY) and a JSON handler for machine consumption, plus small
// helpers for component-scoped loggers and standardized attribute keys.
package logging
