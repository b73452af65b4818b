package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// Styles renders CLI output for one output stream. The colour profile is
// detected from that stream, so sessions on pipes and sockets stay plain.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Command  lipgloss.Style
	Group    lipgloss.Style
	Usage    lipgloss.Style
	Help     lipgloss.Style
	ArgType  lipgloss.Style
	Error    lipgloss.Style
	OK       lipgloss.Style
}

// NewStyles creates the styles for output written to w
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		Subtitle: r.NewStyle().
			Foreground(colorMuted).
			Italic(true),
		Command: r.NewStyle().
			Foreground(colorSecondary).
			Bold(true),
		Group: r.NewStyle().
			Foreground(colorPrimary).
			Bold(true),
		Usage: r.NewStyle().
			Foreground(colorAccent),
		Help: r.NewStyle(),
		ArgType: r.NewStyle().
			Foreground(colorMuted),
		Error: r.NewStyle().
			Foreground(colorError),
		OK: r.NewStyle().
			Foreground(colorSecondary),
	}
}
