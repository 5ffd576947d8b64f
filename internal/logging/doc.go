// Package logging assembles the slog loggers used by SlowMovie.
//
// A daemon run logs to the console (plain text, colored on terminals) and to
// a JSON file named after the run ID; file records carry the run_id so runs
// can be told apart after the fact. WarnWithContext and ErrorWithContext
// fill in event_type, error_hint and impact for problems worth an operator's
// attention. PruneRunLogs removes run files past the retention window.
package logging
