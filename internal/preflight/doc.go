// Package preflight provides readiness checks for the directories and
// services SlowMovie depends on.
//
// The daemon logs the results at startup; "slowmovie status" renders them.
// A failed check is informational: the scheduler reports the concrete
// failure when a cycle actually needs the resource.
package preflight
