// Package tui is an interactive terminal browser for analysis results.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tableview"
)

const (
	maxColumnWidth = 40
	chromeHeight   = 8
)

// Options configures a Model.
type Options struct {
	// Title is shown above the tables.
	Title string
	// ExportDir receives CSV exports. Empty means the working directory.
	ExportDir string
	// Now returns the export date. Defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea model over a pair of result tables.
type Model struct {
	tables *results.Tables
	names  []string
	active int

	grid      table.Model
	search    textinput.Model
	searching bool
	filter    int

	status    string
	statusErr bool

	keys   keyMap
	styles styles
	opts   Options
	height int
}

// New returns a model showing the open tables of t.
func New(t *results.Tables, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	m := Model{
		tables: t,
		grid:   table.New(table.WithFocused(true), table.WithHeight(20)),
		search: search,
		keys:   defaultKeyMap(),
		styles: newStyles(),
		opts:   opts,
	}
	for _, name := range results.Names {
		if tbl, err := t.Table(name); err == nil && tbl.IsOpen() {
			m.names = append(m.names, name)
		}
	}
	m.refresh()
	return m
}

// Run starts an interactive program over m and blocks until it exits.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.grid.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Done) {
		m.searching = false
		m.search.Blur()
		m.grid.Focus()
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if t := m.current(); t != nil {
		_ = t.SetFilter(tableview.SearchKey, m.search.Value())
	}
	m.refresh()
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	t := m.current()
	if t == nil {
		return m, nil
	}

	if col, ok := sortColumn(msg.String()); ok {
		headers := t.Snapshot().Headers
		if col < len(headers) {
			_ = t.Sort(headers[col].Key)
			m.refresh()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Switch):
		m.active = (m.active + 1) % len(m.names)
		m.filter = 0
		m.search.SetValue(searchOf(m.current()))
		m.setStatus("", false)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.grid.Blur()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Filter):
		if n := len(t.Snapshot().Filters); n > 0 {
			m.filter = (m.filter + 1) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.cycleFilter(t, 1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleFilter(t, -1)
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		t.Clear()
		m.search.SetValue("")
		m.setStatus("", false)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Export):
		m.export()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// cycleFilter moves the selected filter to its next or previous option.
// The empty "All" value sits before the first option.
func (m *Model) cycleFilter(t tableview.Table, step int) {
	filters := t.Snapshot().Filters
	if m.filter >= len(filters) {
		return
	}
	fc := filters[m.filter]

	values := make([]string, 0, len(fc.Options)+1)
	values = append(values, "")
	for _, o := range fc.Options {
		values = append(values, o.Value)
	}
	idx := 0
	for i, v := range values {
		if v == fc.Value {
			idx = i
			break
		}
	}
	idx = (idx + step + len(values)) % len(values)

	_ = t.SetFilter(fc.Key, values[idx])
	m.refresh()
}

func (m *Model) export() {
	name := m.names[m.active]
	exp, err := m.tables.Export(name, m.opts.Now())
	if err != nil {
		if errors.Is(err, tableview.ErrEmptyResult) {
			m.setStatus("No data to export", true)
			return
		}
		m.setStatus(err.Error(), true)
		return
	}
	path, err := tableview.SaveExport(m.opts.ExportDir, exp)
	if err != nil {
		m.setStatus(fmt.Sprintf("export failed: %v", err), true)
		return
	}
	m.setStatus("Exported "+path, false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) current() tableview.Table {
	if len(m.names) == 0 {
		return nil
	}
	t, err := m.tables.Table(m.names[m.active])
	if err != nil {
		return nil
	}
	return t
}

// refresh rebuilds the grid from the active table's snapshot.
func (m *Model) refresh() {
	t := m.current()
	if t == nil {
		m.grid.SetRows(nil)
		m.grid.SetColumns(nil)
		return
	}
	snap := t.Snapshot()

	widths := make([]int, len(snap.Headers))
	cols := make([]table.Column, len(snap.Headers))
	for i, h := range snap.Headers {
		title := fmt.Sprintf("%d %s", i+1, h.Label)
		if h.Indicator != "" {
			title += " " + h.Indicator
		}
		widths[i] = len([]rune(title))
		cols[i] = table.Column{Title: title}
	}
	rows := make([]table.Row, len(snap.Rows))
	for r, cells := range snap.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c.Text
			widths[i] = max(widths[i], len([]rune(c.Text)))
		}
		rows[r] = row
	}
	for i := range cols {
		cols[i].Width = min(widths[i], maxColumnWidth)
	}

	// rows must never be wider than the columns
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	if m.grid.Cursor() >= len(rows) {
		m.grid.SetCursor(max(len(rows)-1, 0))
	}
}

func searchOf(t tableview.Table) string {
	if t == nil {
		return ""
	}
	return t.Snapshot().Search
}
