package tableview

import "time"

// Table is the row-type independent surface of a View.
type Table interface {
	SetFilter(key, value string) error
	Sort(field string) error
	SetSort(field string, dir Direction) error
	Clear()
	Hide()
	Export(prefix string, now time.Time) (Export, error)
	Records() ([]string, [][]string)
	Snapshot() Snapshot
	IsOpen() bool
	Len() int
	Total() int
}

var _ Table = (*View[struct{}])(nil)
