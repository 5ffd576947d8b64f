// Package settings owns the JSON record shared by the configurator and the
// frame scheduler: which movie to cycle, how long to wait between frames,
// which frame is on screen, and whether the scheduler should stop.
//
// Every read and write goes through Store. Load never fails; a missing or
// damaged file degrades to Defaults so the program always starts. Save
// writes through a temporary file and rename.
package settings
