// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the pipeline
// (operation, category, tier, thread_id, ...) together with attribute
// constructors, and anonymization helpers so sender addresses never appear
// raw in log output.
package logging
