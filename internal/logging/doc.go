// Package logging configures slog output for the daemon and CLI.
//
// It provides console and JSON handlers behind a small Options surface,
// typed attribute helpers, and context plumbing that lifts capture run
// metadata (run id, mode) into every log line emitted while handling a run.
package logging
