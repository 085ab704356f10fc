package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// ErrUnknownTable is returned for a table name other than segments or elements.
var ErrUnknownTable = errors.New("unknown table")

// Names lists the table names in display order.
var Names = []string{SegmentsName, ElementsName}

// Tables is the pair of result views shown for one analysis.
type Tables struct {
	Segments *tableview.View[core.SegmentRow]
	Elements *tableview.View[core.ElementRow]
}

// NewTables returns a closed pair of views.
func NewTables() *Tables {
	return &Tables{
		Segments: tableview.New(SegmentSchema()),
		Elements: tableview.New(ElementSchema()),
	}
}

// Apply loads each view whose section is present in p. Views whose
// section is absent are hidden so no rows from an older analysis remain.
func (t *Tables) Apply(p *core.Payload) {
	if p != nil && p.HasSegments {
		t.Segments.Load(p.TabularData)
	} else {
		t.Segments.Hide()
	}
	if p != nil && p.HasElements {
		t.Elements.Load(p.EDIElements)
	} else {
		t.Elements.Hide()
	}
}

// Hide closes both views.
func (t *Tables) Hide() {
	t.Segments.Hide()
	t.Elements.Hide()
}

// AnyOpen reports whether either view is showing data.
func (t *Tables) AnyOpen() bool {
	return t.Segments.IsOpen() || t.Elements.IsOpen()
}

// Table returns the view named name.
func (t *Tables) Table(name string) (tableview.Table, error) {
	switch name {
	case SegmentsName:
		return t.Segments, nil
	case ElementsName:
		return t.Elements, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
}

// Export renders the CSV download of the named view.
func (t *Tables) Export(name string, now time.Time) (tableview.Export, error) {
	tbl, err := t.Table(name)
	if err != nil {
		return tableview.Export{}, err
	}
	return tbl.Export(Prefix(name), now)
}

// Title returns the heading shown above a table.
func Title(name string) string {
	if name == ElementsName {
		return "EDI Elements Breakdown"
	}
	return "Segment Analysis"
}

// Prefix returns the CSV filename prefix of a table.
func Prefix(name string) string {
	if name == ElementsName {
		return ElementsPrefix
	}
	return SegmentsPrefix
}
