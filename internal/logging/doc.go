// Package logging assembles the structured slog loggers used across keepsake
// components.
//
// It owns level and output plumbing for the console and JSON formats and
// exposes small attr helpers so components emit fields with a consistent
// shape. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
