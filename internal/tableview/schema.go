package tableview

import (
	"slices"
	"strconv"
)

// SearchKey is the reserved filter key for the free-text search.
const SearchKey = "search"

// Kind selects how a column compares when sorted.
type Kind int

// Column kinds.
const (
	KindText Kind = iota
	KindNumber
	KindBool
)

// Column describes one table column.
type Column[R any] struct {
	Key    string
	Header string
	Kind   Kind

	// Text is the display and CSV form of the cell.
	Text func(R) string
	// Number returns the numeric sort key. ok=false marks a missing value.
	Number func(R) (v float64, ok bool)
	// Bool returns the boolean sort key.
	Bool func(R) bool
	// Class is an optional CSS class for the cell.
	Class func(R) string

	Searchable bool
}

// Option is one choice of a filter control.
type Option struct {
	Value string
	Label string
}

// Filter is a structured filter. Options are either Static or derived
// from the loaded rows.
type Filter[R any] struct {
	Key     string
	Label   string
	Static  []Option
	Options func(rows []R) []Option
	Match   func(row R, value string) bool
}

// Schema configures a View.
type Schema[R any] struct {
	Name    string
	Noun    string
	Columns []Column[R]
	Filters []Filter[R]
}

// Column returns the column with the given key.
func (s Schema[R]) Column(key string) (Column[R], bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[R]{}, false
}

// Filter returns the filter with the given key.
func (s Schema[R]) Filter(key string) (Filter[R], bool) {
	for _, f := range s.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter[R]{}, false
}

// Headers returns the column headers in order.
func (s Schema[R]) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// DistinctStrings returns an option per distinct non-empty value, sorted
// ascending by string order.
func DistinctStrings[R any](rows []R, value func(R) string) []Option {
	seen := make(map[string]struct{}, len(rows))
	var values []string
	for _, r := range rows {
		v := value(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)

	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// DistinctInts returns an option per distinct value, sorted ascending by
// numeric order. label formats the option label.
func DistinctInts[R any](rows []R, value func(R) int, label func(int) string) []Option {
	seen := make(map[int]struct{}, len(rows))
	var values []int
	for _, r := range rows {
		v := value(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)

	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: strconv.Itoa(v), Label: label(v)}
	}
	return out
}
