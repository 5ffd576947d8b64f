package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// verdict is the outcome shown next to each status check.
type verdict int

const (
	verdictInfo verdict = iota
	verdictOK
	verdictWarn
	verdictFail
)

func (v verdict) String() string {
	switch v {
	case verdictOK:
		return "ok"
	case verdictWarn:
		return "warn"
	case verdictFail:
		return "fail"
	default:
		return "info"
	}
}

// report prints the sectioned check lists shared by status and deps.
// Colors follow the writer: lipgloss drops them when out is not a terminal.
type report struct {
	out      io.Writer
	heading  lipgloss.Style
	verdicts [verdictFail + 1]lipgloss.Style
}

func newReport(out io.Writer) *report {
	r := lipgloss.NewRenderer(out)
	return &report{
		out:     out,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		verdicts: [...]lipgloss.Style{
			verdictInfo: r.NewStyle().Foreground(lipgloss.Color("8")),
			verdictOK:   r.NewStyle().Foreground(lipgloss.Color("2")),
			verdictWarn: r.NewStyle().Foreground(lipgloss.Color("3")),
			verdictFail: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (r *report) section(title string) {
	fmt.Fprintln(r.out, r.heading.Render("== "+strings.TrimSpace(title)+" =="))
}

func (r *report) check(name string, v verdict, detail string) {
	label := v.String()
	tag := r.verdicts[v].Render(label) + strings.Repeat(" ", max(0, 4-len(label)))
	fmt.Fprintf(r.out, "  %-20s %s  %s\n", name, tag, detail)
}

func (r *report) gap() {
	fmt.Fprintln(r.out)
}
