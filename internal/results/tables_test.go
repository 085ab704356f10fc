package results

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/pkg/core"
)

const examplePayload = `{
  "message": "ok",
  "tabular_data": [
    {"segment_tag":"NM1","x12_requirement":"mandatory","company_usage":"must_use","min_usage":1,"max_usage":1,"present_in_edi":true,"status":"OK"},
    {"segment_tag":"REF","x12_requirement":"optional","company_usage":"not_used","min_usage":null,"max_usage":null,"present_in_edi":false,"status":"Missing"}
  ],
  "edi_elements": [
    {"line_number":2,"segment_tag":"NM1","element_position":"01","element_code":"98","element_value":"IL","element_description":"Entity Identifier Code"},
    {"line_number":1,"segment_tag":"ISA","element_position":"01","element_code":"I01","element_value":"(empty)","element_description":"Authorization, Information"},
    {"line_number":10,"segment_tag":"NM1","element_position":"03","element_code":"1035","element_value":"DOE","element_description":"Name Last"}
  ]
}`

func decode(t *testing.T, body string) *core.Payload {
	t.Helper()
	p, err := core.DecodePayload([]byte(body))
	require.NoError(t, err)
	return p
}

func TestTables_PresenceFilterExample(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))

	require.NoError(t, tables.Segments.SetFilter("presence", PresenceMissing))

	visible := tables.Segments.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "REF", visible[0].SegmentTag)
	assert.Equal(t, "Showing 1 of 2 segments", tables.Segments.Snapshot().Counter)
}

func TestTables_Apply(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		segmentsOpen bool
		elementsOpen bool
	}{
		{name: "both sections", body: examplePayload, segmentsOpen: true, elementsOpen: true},
		{name: "segments only", body: `{"tabular_data":[]}`, segmentsOpen: true},
		{name: "elements only", body: `{"edi_elements":[]}`, elementsOpen: true},
		{name: "error payload", body: `{"error":"boom"}`},
		{name: "wrong section type", body: `{"tabular_data":"nope","edi_elements":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := NewTables()
			tables.Apply(decode(t, tt.body))
			assert.Equal(t, tt.segmentsOpen, tables.Segments.IsOpen())
			assert.Equal(t, tt.elementsOpen, tables.Elements.IsOpen())
		})
	}
}

func TestTables_ApplyReplacesPrevious(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))
	require.NoError(t, tables.Segments.SetFilter("usage", "must_use"))

	tables.Apply(decode(t, `{"tabular_data":[{"segment_tag":"BHT"}]}`))

	assert.Equal(t, 1, tables.Segments.Len())
	assert.Empty(t, tables.Segments.FilterValue("usage"))
	assert.False(t, tables.Elements.IsOpen())

	tables.Apply(nil)
	assert.False(t, tables.AnyOpen())
}

func TestSegmentSchema_Cells(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))

	snap := tables.Segments.Snapshot()
	require.Len(t, snap.Rows, 2)

	nm1 := snap.Rows[0]
	assert.Equal(t, tableview.Cell{Text: "NM1"}, nm1[0])
	assert.Equal(t, tableview.Cell{Text: "mandatory", Class: "requirement-mandatory"}, nm1[1])
	assert.Equal(t, tableview.Cell{Text: "must_use", Class: "usage-must-use"}, nm1[2])
	assert.Equal(t, "1", nm1[3].Text)
	assert.Equal(t, "Yes", nm1[5].Text)
	assert.Equal(t, tableview.Cell{Text: "OK", Class: "status-present"}, nm1[6])

	ref := snap.Rows[1]
	assert.Equal(t, "usage-not-used", ref[2].Class)
	assert.Equal(t, "N/A", ref[3].Text)
	assert.Equal(t, "N/A", ref[4].Text)
	assert.Equal(t, "No", ref[5].Text)
	assert.Equal(t, "status-missing", ref[6].Class)
}

func TestSegmentSchema_UnknownEnums(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, `{"tabular_data":[{"segment_tag":"ZZZ","min_usage":0}]}`))

	row := tables.Segments.Snapshot().Rows[0]
	assert.Equal(t, tableview.Cell{Text: "unknown", Class: "requirement-unknown"}, row[1])
	assert.Equal(t, "usage-unknown", row[2].Class)
	assert.Equal(t, "0", row[3].Text)
}

func TestSegmentSchema_SortUsage(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, `{"tabular_data":[
		{"segment_tag":"A","min_usage":5},
		{"segment_tag":"B","min_usage":"N/A"},
		{"segment_tag":"C","min_usage":0},
		{"segment_tag":"D","min_usage":null}
	]}`))

	require.NoError(t, tables.Segments.Sort("min_usage"))
	var tags []string
	for _, r := range tables.Segments.Visible() {
		tags = append(tags, r.SegmentTag)
	}
	assert.Equal(t, []string{"B", "D", "C", "A"}, tags)
}

func TestElementSchema_FilterOptions(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))

	assert.Equal(t, []tableview.Option{
		{Value: "ISA", Label: "ISA"},
		{Value: "NM1", Label: "NM1"},
	}, tables.Elements.Options("segment"))
	assert.Equal(t, []tableview.Option{
		{Value: "1", Label: "Line 1"},
		{Value: "2", Label: "Line 2"},
		{Value: "10", Label: "Line 10"},
	}, tables.Elements.Options("line"))

	require.NoError(t, tables.Elements.SetFilter("segment", "NM1"))
	require.NoError(t, tables.Elements.SetFilter("line", "10"))
	visible := tables.Elements.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "DOE", visible[0].ElementValue)
	assert.Equal(t, "Showing 1 of 3 elements", tables.Elements.Snapshot().Counter)
}

func TestElementSchema_EmptyValueClass(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))

	rows := tables.Elements.Snapshot().Rows
	assert.Equal(t, "", rows[0][4].Class)
	assert.Equal(t, tableview.Cell{Text: "(empty)", Class: "empty-value"}, rows[1][4])
}

func TestElementSchema_SearchDescription(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))

	require.NoError(t, tables.Elements.SetFilter(tableview.SearchKey, "name last"))
	assert.Equal(t, 1, tables.Elements.Len())
}

func TestTables_Export(t *testing.T) {
	tables := NewTables()
	tables.Apply(decode(t, examplePayload))
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.Local)

	seg, err := tables.Export(SegmentsName, now)
	require.NoError(t, err)
	assert.Equal(t, "edi-segment-analysis-2024-01-02.csv", seg.Filename)
	lines := strings.Split(strings.TrimSuffix(string(seg.Data), "\n"), "\n")
	assert.Equal(t, []string{
		"Segment Tag,X12 Requirement,Company Usage,Min Usage,Max Usage,Present in EDI,Status",
		"NM1,mandatory,must_use,1,1,Yes,OK",
		"REF,optional,not_used,N/A,N/A,No,Missing",
	}, lines)

	el, err := tables.Export(ElementsName, now)
	require.NoError(t, err)
	assert.Equal(t, "edi-elements-breakdown-2024-01-02.csv", el.Filename)
	assert.True(t, strings.HasPrefix(string(el.Data), "Line #,Segment,Position,Element Code,Value,Description\n"))
	assert.Contains(t, string(el.Data), `1,ISA,01,I01,(empty),"Authorization, Information"`)

	_, err = tables.Export("other", now)
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestTables_ExportEmpty(t *testing.T) {
	tables := NewTables()
	_, err := tables.Export(SegmentsName, time.Now())
	require.ErrorIs(t, err, tableview.ErrEmptyResult)
}
