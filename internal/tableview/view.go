// Package tableview holds the state of one filterable, sortable result
// table. A View owns its rows, active filters and sort; every surface
// (HTML, terminal, TUI) renders from View.Snapshot.
package tableview

import (
	"fmt"
	"time"
)

// Direction is a sort direction.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc" or "desc". Anything else is Asc.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Desc
	}
	return Asc
}

// View is one result table. It is not safe for concurrent use.
type View[R any] struct {
	schema Schema[R]

	source  []R
	visible []R

	search  string
	filters map[string]string
	options map[string][]Option

	sortKey string
	sortDir Direction

	open bool
}

// New returns a closed, empty view.
func New[R any](schema Schema[R]) *View[R] {
	return &View[R]{
		schema:  schema,
		filters: make(map[string]string),
		options: make(map[string][]Option),
	}
}

// Schema returns the view's schema.
func (v *View[R]) Schema() Schema[R] { return v.schema }

// Load replaces the rows, resets filters and sort, and opens the view.
func (v *View[R]) Load(rows []R) {
	v.source = append([]R(nil), rows...)
	v.search = ""
	clear(v.filters)
	v.sortKey = ""
	v.sortDir = Asc

	clear(v.options)
	for _, f := range v.schema.Filters {
		switch {
		case f.Options != nil:
			v.options[f.Key] = f.Options(v.source)
		default:
			v.options[f.Key] = f.Static
		}
	}

	v.visible = append([]R(nil), v.source...)
	v.open = true
}

// SetFilter sets one filter value. An empty value clears it.
func (v *View[R]) SetFilter(key, value string) error {
	if key == SearchKey {
		v.search = value
		v.recompute()
		return nil
	}
	if _, ok := v.schema.Filter(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	if value == "" {
		delete(v.filters, key)
	} else {
		v.filters[key] = value
	}
	v.recompute()
	return nil
}

// Sort sorts by field. Sorting the current field again toggles the direction.
func (v *View[R]) Sort(field string) error {
	if _, ok := v.schema.Column(field); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	if v.sortKey == field {
		if v.sortDir == Asc {
			v.sortDir = Desc
		} else {
			v.sortDir = Asc
		}
	} else {
		v.sortKey = field
		v.sortDir = Asc
	}
	v.recompute()
	return nil
}

// SetSort sorts by field in an explicit direction.
func (v *View[R]) SetSort(field string, dir Direction) error {
	if _, ok := v.schema.Column(field); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	v.sortKey = field
	v.sortDir = dir
	v.recompute()
	return nil
}

// Clear drops every filter and the search. The sort is kept.
func (v *View[R]) Clear() {
	v.search = ""
	clear(v.filters)
	v.recompute()
}

// Hide closes the view and discards its rows.
func (v *View[R]) Hide() {
	v.source = nil
	v.visible = nil
	v.search = ""
	clear(v.filters)
	clear(v.options)
	v.sortKey = ""
	v.sortDir = Asc
	v.open = false
}

// Export is a rendered CSV download.
type Export struct {
	Filename string
	Data     []byte
}

// Export serializes the visible rows as CSV.
func (v *View[R]) Export(prefix string, now time.Time) (Export, error) {
	if len(v.visible) == 0 {
		return Export{}, ErrEmptyResult
	}
	header, records := v.Records()
	data, err := EncodeCSV(header, records)
	if err != nil {
		return Export{}, err
	}
	return Export{Filename: ExportFilename(prefix, now), Data: data}, nil
}

// Records returns the header and the display text of every visible row.
func (v *View[R]) Records() ([]string, [][]string) {
	records := make([][]string, len(v.visible))
	for i, r := range v.visible {
		rec := make([]string, len(v.schema.Columns))
		for j, c := range v.schema.Columns {
			rec[j] = c.Text(r)
		}
		records[i] = rec
	}
	return v.schema.Headers(), records
}

// IsOpen reports whether the view is showing data.
func (v *View[R]) IsOpen() bool { return v.open }

// Visible returns a copy of the visible rows in order.
func (v *View[R]) Visible() []R { return append([]R(nil), v.visible...) }

// Total returns the number of loaded rows.
func (v *View[R]) Total() int { return len(v.source) }

// Len returns the number of visible rows.
func (v *View[R]) Len() int { return len(v.visible) }

// SortState returns the sort key ("" when unsorted) and direction.
func (v *View[R]) SortState() (string, Direction) { return v.sortKey, v.sortDir }

// FilterValue returns the current value of a filter or of the search.
func (v *View[R]) FilterValue(key string) string {
	if key == SearchKey {
		return v.search
	}
	return v.filters[key]
}

// Options returns the options of a filter for the loaded rows.
func (v *View[R]) Options(key string) []Option {
	return v.options[key]
}
