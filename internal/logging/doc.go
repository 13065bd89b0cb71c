// Package logging builds slog loggers with console and JSON handlers and
// exposes the standardized attribute keys the ingest passes log with.
package logging
