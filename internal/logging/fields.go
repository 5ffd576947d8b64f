package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. frame_published).
	FieldEventType = "event_type"
	// FieldErrorHint is the suggested next step for the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries the failure kind of a classified error.
	FieldErrorKind = "error_kind"
	// FieldRole is the process role decided by the singleton lock.
	FieldRole = "role"
	// FieldMovie is the movie being cycled.
	FieldMovie = "movie"
	// FieldFrameIndex is the frame currently published.
	FieldFrameIndex = "frame_index"
	// FieldFrameTotal is the movie's frame count.
	FieldFrameTotal = "frame_total"
	// FieldRunID identifies the process run that wrote a log file record.
	FieldRunID = "run_id"
)
