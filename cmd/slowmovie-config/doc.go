// Command slowmovie-config edits the settings file read by the slowmovie
// scheduler.
//
// With edit flags it applies them and exits. Without flags on a terminal
// it opens an interactive form. slowmovie starts it with --settings when a
// second instance is launched, so edits reach the running scheduler on its
// next cycle.
package main
