package tableview

import "fmt"

// Sort indicators shown on the active column.
const (
	IndicatorAsc  = "▲"
	IndicatorDesc = "▼"
)

// Header is one column header.
type Header struct {
	Key       string
	Label     string
	Sorted    bool
	Direction Direction
	Indicator string
}

// Cell is one display cell.
type Cell struct {
	Text  string
	Class string
}

// FilterControl is the state of one structured filter control.
type FilterControl struct {
	Key     string
	Label   string
	Value   string
	Options []Option
}

// Snapshot is a surface-neutral projection of a view.
type Snapshot struct {
	Name    string
	Noun    string
	Open    bool
	Headers []Header
	Rows    [][]Cell
	Filters []FilterControl
	Search  string
	Total   int
	Showing int
	Counter string
	SortKey string
	SortDir Direction
}

// Empty reports whether no rows are visible.
func (s Snapshot) Empty() bool { return s.Showing == 0 }

// Snapshot projects the current state.
func (v *View[R]) Snapshot() Snapshot {
	s := Snapshot{
		Name:    v.schema.Name,
		Noun:    v.schema.Noun,
		Open:    v.open,
		Search:  v.search,
		Total:   len(v.source),
		Showing: len(v.visible),
		SortKey: v.sortKey,
		SortDir: v.sortDir,
	}
	s.Counter = Counter(s.Showing, s.Total, s.Noun)

	s.Headers = make([]Header, len(v.schema.Columns))
	for i, c := range v.schema.Columns {
		h := Header{Key: c.Key, Label: c.Header}
		if c.Key == v.sortKey {
			h.Sorted = true
			h.Direction = v.sortDir
			h.Indicator = IndicatorAsc
			if v.sortDir == Desc {
				h.Indicator = IndicatorDesc
			}
		}
		s.Headers[i] = h
	}

	s.Rows = make([][]Cell, len(v.visible))
	for i, r := range v.visible {
		cells := make([]Cell, len(v.schema.Columns))
		for j, c := range v.schema.Columns {
			cells[j].Text = c.Text(r)
			if c.Class != nil {
				cells[j].Class = c.Class(r)
			}
		}
		s.Rows[i] = cells
	}

	s.Filters = make([]FilterControl, len(v.schema.Filters))
	for i, f := range v.schema.Filters {
		s.Filters[i] = FilterControl{
			Key:     f.Key,
			Label:   f.Label,
			Value:   v.filters[f.Key],
			Options: v.options[f.Key],
		}
	}
	return s
}

// Counter formats "Showing N of M noun".
func Counter(showing, total int, noun string) string {
	return fmt.Sprintf("Showing %d of %d %s", showing, total, noun)
}
