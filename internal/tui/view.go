package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/edilens/internal/results"
)

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	filter    lipgloss.Style
	selected  lipgloss.Style
	status    lipgloss.Style
	err       lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	gray := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(blue),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(gray),
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true),
		filter:    lipgloss.NewStyle().Foreground(gray),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(blue),
		status:    lipgloss.NewStyle().Foreground(gray),
		err:       lipgloss.NewStyle().Bold(true).Foreground(red),
		help:      lipgloss.NewStyle().Foreground(gray),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "edilens"
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")

	t := m.current()
	if t == nil {
		b.WriteString("\nNo segment or element data to show.\n\n")
		b.WriteString(m.styles.help.Render("q quit"))
		return b.String()
	}
	snap := t.Snapshot()

	tabs := make([]string, len(m.names))
	for i, name := range m.names {
		label := tabLabel(name)
		if i == m.active {
			tabs[i] = m.styles.activeTab.Render(label)
		} else {
			tabs[i] = m.styles.tab.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	filters := make([]string, len(snap.Filters))
	for i, fc := range snap.Filters {
		value := fc.Label
		for _, o := range fc.Options {
			if o.Value == fc.Value {
				value = o.Label
			}
		}
		text := fmt.Sprintf("%s: %s", fc.Key, value)
		if i == m.filter {
			filters[i] = m.styles.selected.Render("[" + text + "]")
		} else {
			filters[i] = m.styles.filter.Render(" " + text + " ")
		}
	}
	b.WriteString(strings.Join(filters, " "))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	b.WriteString(m.grid.View())
	b.WriteString("\n")

	b.WriteString(m.statusLine(snap.Counter, snap.SortKey, snap.SortDir.String()))
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) statusLine(counter, sortKey, sortDir string) string {
	parts := []string{counter}
	if sortKey != "" {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", sortKey, sortDir))
	}
	line := m.styles.status.Render(strings.Join(parts, " · "))
	if m.status != "" {
		style := m.styles.status
		if m.statusErr {
			style = m.styles.err
		}
		line += "  " + style.Render(m.status)
	}
	return line
}

func (m Model) helpLine() string {
	parts := []string{"1-9 sort"}
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " · "))
}

func tabLabel(name string) string {
	if name == results.ElementsName {
		return "EDI Elements"
	}
	return "Segments"
}
