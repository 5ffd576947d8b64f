// Package scheduler runs the frame cycle: reload settings, count frames,
// extract the next frame, apply it as wallpaper, persist the new index, and
// wait for the configured interval.
//
// State lives only in the settings file, so a restarted process resumes
// from the last published frame. The index advances only after the
// wallpaper is applied; a failed wallpaper update is alerted and retried on
// the next tick. Every other failure ends Run with a classified error.
package scheduler
