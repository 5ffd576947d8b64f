package history

import "time"

// Outcome classifies how a cycle ended.
type Outcome string

const (
	// OutcomePublished means the frame became the wallpaper and the index advanced.
	OutcomePublished Outcome = "published"
	// OutcomeWallpaperFailed means the frame was extracted but not applied.
	OutcomeWallpaperFailed Outcome = "wallpaper_failed"
	// OutcomeFailed means the cycle ended the scheduler.
	OutcomeFailed Outcome = "failed"
)

// Entry is one scheduler cycle.
type Entry struct {
	ID           int64
	At           time.Time
	RunID        string
	MoviePath    string
	FrameIndex   uint64
	FrameTotal   uint64
	Outcome      Outcome
	ErrorKind    string
	ErrorMessage string
}

// Summary aggregates the journal for status output.
type Summary struct {
	Total           int
	Published       int
	WallpaperFailed int
	Failed          int
	Last            *Entry
}
