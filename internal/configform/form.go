package configform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"slowmovie/internal/settings"
)

// Outcome is how the form was closed.
type Outcome int

const (
	Cancelled Outcome = iota
	Confirmed
	Exit
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Exit:
		return "exit"
	default:
		return "cancelled"
	}
}

const (
	fieldMovie = iota
	fieldInterval
	fieldUnit
	fieldStart
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Movie:    ",
	"Interval: ",
	"Unit:     ",
	"Start at: ",
}

// MovieCheck validates a movie path before the form accepts it.
type MovieCheck func(path string) error

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the Bubble Tea model for the settings form.
type Model struct {
	initial  settings.Settings
	inputs   [fieldCount]textinput.Model
	focusIdx int
	keys     keyMap
	help     help.Model
	check    MovieCheck

	err     error
	outcome Outcome
	changes Changes
	done    bool
}

// New builds a form prefilled from current. check may be nil.
func New(current settings.Settings, check MovieCheck) Model {
	m := Model{
		initial: current,
		keys:    defaultKeyMap(),
		help:    help.New(),
		check:   check,
	}

	movie := textinput.New()
	movie.Placeholder = "path to a video file"
	movie.CharLimit = 1024
	movie.Width = 48
	movie.SetValue(current.MoviePath)

	interval := textinput.New()
	interval.Placeholder = strconv.FormatUint(uint64(settings.DefaultIntervalValue), 10)
	interval.CharLimit = 10
	interval.Width = 12
	interval.SetValue(strconv.FormatUint(uint64(current.IntervalValue), 10))

	unit := textinput.New()
	unit.Placeholder = "second, minute, or hour"
	unit.CharLimit = 10
	unit.Width = 12
	unitName := settings.Second.String()
	if current.IntervalUnit.Valid() {
		unitName = current.IntervalUnit.String()
	}
	unit.SetValue(unitName)

	start := textinput.New()
	start.Placeholder = "keep current frame (or hh:mm:ss)"
	start.CharLimit = 12
	start.Width = 36

	m.inputs = [fieldCount]textinput.Model{movie, interval, unit, start}
	m.inputs[fieldMovie].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.outcome, m.done = Cancelled, true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Exit):
		m.changes = Changes{Exit: true}
		m.outcome, m.done = Exit, true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Confirm):
		changes, err := m.collect()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.changes, m.err = changes, nil
		m.outcome, m.done = Confirmed, true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Next):
		m.setFocus((m.focusIdx + 1) % fieldCount)
		return m, nil

	case key.Matches(keyMsg, m.keys.Prev):
		m.setFocus((m.focusIdx - 1 + fieldCount) % fieldCount)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

// collect validates the fields and returns the ones that differ from the
// values the form opened with.
func (m Model) collect() (Changes, error) {
	var c Changes

	movie := strings.TrimSpace(m.inputs[fieldMovie].Value())
	if movie == "" {
		return c, errors.New("choose a movie file")
	}
	if m.check != nil {
		if err := m.check(movie); err != nil {
			return c, err
		}
	}
	if movie != m.initial.MoviePath {
		c.Movie = &movie
	}

	value, err := strconv.ParseUint(strings.TrimSpace(m.inputs[fieldInterval].Value()), 10, 32)
	if err != nil {
		return c, fmt.Errorf("interval must be a whole number")
	}
	if interval := uint32(value); interval != m.initial.IntervalValue {
		c.Interval = &interval
	}

	unit, err := settings.ParseUnit(m.inputs[fieldUnit].Value())
	if err != nil {
		return c, err
	}
	if unit != m.initial.IntervalUnit {
		c.Unit = &unit
	}

	if raw := strings.TrimSpace(m.inputs[fieldStart].Value()); raw != "" {
		seconds, err := ParseOffset(raw)
		if err != nil {
			return c, err
		}
		frame := settings.FrameForOffset(seconds)
		c.Frame = &frame
	}
	return c, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("SlowMovie"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := fieldLabels[i]
		if i == m.focusIdx {
			label = focusStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("Current frame: %d. Intervals below %d are raised to %d.",
		m.initial.FrameIndex, settings.MinIntervalValue, settings.MinIntervalValue)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.help()))
	b.WriteString("\n")
	return b.String()
}

// Outcome reports how the form was closed.
func (m Model) Outcome() Outcome {
	return m.outcome
}

// Changes returns the edits to persist for Confirmed and Exit.
func (m Model) Changes() Changes {
	return m.changes
}

// Err returns the last validation error shown to the user.
func (m Model) Err() error {
	return m.err
}

// Run shows the form on the terminal until it is closed.
func Run(ctx context.Context, current settings.Settings, check MovieCheck, in io.Reader, out io.Writer) (Outcome, Changes, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	final, err := tea.NewProgram(New(current, check), opts...).Run()
	if err != nil {
		return Cancelled, Changes{}, fmt.Errorf("configuration form: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Cancelled, Changes{}, fmt.Errorf("configuration form: unexpected model %T", final)
	}
	return model.Outcome(), model.Changes(), nil
}
