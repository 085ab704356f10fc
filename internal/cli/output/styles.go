package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style

	classes map[string]lipgloss.Style
}

// NewStyles builds styles bound to r.
func NewStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	yellow := lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	gray := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}

	s := &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(blue),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(gray),
		Key:     r.NewStyle().Foreground(blue),
		Success: r.NewStyle().Foreground(green),
		Warning: r.NewStyle().Foreground(yellow),
		Error:   r.NewStyle().Foreground(red).Bold(true),

		StatusSuccess: r.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(red).SetString("✗"),
	}

	// cell classes shared with the web UI
	s.classes = map[string]lipgloss.Style{
		"requirement-mandatory": r.NewStyle().Bold(true),
		"requirement-optional":  r.NewStyle().Foreground(gray),
		"usage-must-use":        r.NewStyle().Foreground(green).Bold(true),
		"usage-used":            r.NewStyle().Foreground(green),
		"usage-conditional":     r.NewStyle().Foreground(yellow),
		"usage-not-used":        r.NewStyle().Foreground(gray),
		"status-present":        r.NewStyle().Foreground(green),
		"status-missing":        r.NewStyle().Foreground(red),
		"empty-value":           r.NewStyle().Foreground(gray).Italic(true),
	}
	return s
}

// Cell renders text in the style of a cell class.
func (s *Styles) Cell(class, text string) string {
	if st, ok := s.classes[class]; ok {
		return st.Render(text)
	}
	return text
}

func newLipglossRenderer(w io.Writer, isTTY bool) *lipgloss.Renderer {
	if !isTTY {
		return lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}
	return lipgloss.NewRenderer(w)
}
