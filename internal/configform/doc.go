// Package configform is the terminal form behind slowmovie-config.
//
// The form edits the movie, the interval and its unit, and an optional
// start offset. It ends in one of three outcomes: Confirmed (start or keep
// cycling with the edited values), Exit (stop the running scheduler), or
// Cancelled (leave the settings untouched).
package configform
