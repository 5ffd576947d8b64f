// Package history journals every scheduler cycle to SQLite so `slowmovie
// status` and `slowmovie history` can show what was published and why a
// cycle failed. The journal is advisory: the scheduler keeps running when it
// cannot be written.
package history
