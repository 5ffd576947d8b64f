// Package failure defines the error taxonomy shared by the coordinator,
// launcher, tool gateway, and scheduler.
//
// Callers tag failures with one of the exported sentinel markers through Wrap
// so the process boundary can classify them with errors.Is: Kind feeds the
// error_kind log field, Recoverable separates the single self-healing path
// (wallpaper updates) from fatal loop errors, and ExitCode picks the process
// status.
package failure
