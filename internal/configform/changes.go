package configform

import "slowmovie/internal/settings"

// Changes are the edits a user asked for. Nil fields keep whatever the
// settings file holds when the edits are applied, so a frame index the
// scheduler advanced while the form was open survives.
type Changes struct {
	Movie    *string
	Interval *uint32
	Unit     *settings.Unit
	Frame    *uint64
	Exit     bool
}

// Empty reports whether applying c would only clear the exit flag.
func (c Changes) Empty() bool {
	return c.Movie == nil && c.Interval == nil && c.Unit == nil && c.Frame == nil && !c.Exit
}

// Apply writes the edits onto st. Exit only raises the exit flag; any other
// apply clears it. Switching to a different movie restarts it at
// settings.DefaultFrameIndex unless Frame is also set.
func (c Changes) Apply(st *settings.Settings) {
	if c.Exit {
		st.ExitRequested = true
		return
	}
	st.ExitRequested = false

	if c.Movie != nil {
		if *c.Movie != st.MoviePath {
			st.FrameIndex = settings.DefaultFrameIndex
		}
		st.MoviePath = *c.Movie
	}
	if c.Interval != nil {
		st.IntervalValue = settings.ClampInterval(*c.Interval)
	}
	if c.Unit != nil {
		st.IntervalUnit = *c.Unit
	}
	if c.Frame != nil {
		st.FrameIndex = *c.Frame
	}
}

// Updater is the slice of settings.Store that Save needs.
type Updater interface {
	Update(mutate func(*settings.Settings)) (settings.Settings, error)
}

// Save applies c to the latest stored settings and persists the result.
func (c Changes) Save(store Updater) (settings.Settings, error) {
	return store.Update(c.Apply)
}
