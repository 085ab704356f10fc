package tableview

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name  string
	group string
	size  int
	ok    bool
	known bool
}

func itemSchema() Schema[item] {
	return Schema[item]{
		Name: "items",
		Noun: "items",
		Columns: []Column[item]{
			{Key: "name", Header: "Name", Kind: KindText, Text: func(i item) string { return i.name }, Searchable: true},
			{Key: "group", Header: "Group", Kind: KindText, Text: func(i item) string { return i.group }, Searchable: true},
			{
				Key: "size", Header: "Size", Kind: KindNumber,
				Text: func(i item) string {
					if !i.known {
						return "N/A"
					}
					return strconv.Itoa(i.size)
				},
				Number: func(i item) (float64, bool) { return float64(i.size), i.known },
			},
			{
				Key: "ok", Header: "OK", Kind: KindBool,
				Text:  func(i item) string { return strconv.FormatBool(i.ok) },
				Bool:  func(i item) bool { return i.ok },
				Class: func(i item) string { return "ok-" + strconv.FormatBool(i.ok) },
			},
		},
		Filters: []Filter[item]{
			{
				Key:     "group",
				Label:   "All Groups",
				Options: func(rows []item) []Option { return DistinctStrings(rows, func(i item) string { return i.group }) },
				Match:   func(i item, v string) bool { return i.group == v },
			},
			{
				Key:    "ok",
				Label:  "All",
				Static: []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}},
				Match: func(i item, v string) bool {
					return (v == "yes" && i.ok) || (v == "no" && !i.ok)
				},
			},
		},
	}
}

func sampleItems() []item {
	return []item{
		{name: "Bravo", group: "b", size: 3, ok: true, known: true},
		{name: "alpha", group: "a", size: 1, ok: false, known: true},
		{name: "Charlie", group: "b", ok: true},
		{name: "delta", group: "a", size: 3, ok: false, known: true},
	}
}

func names(rows []item) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func loaded(t *testing.T) *View[item] {
	t.Helper()
	v := New(itemSchema())
	v.Load(sampleItems())
	return v
}

func TestView_Load(t *testing.T) {
	v := New(itemSchema())
	assert.False(t, v.IsOpen())

	v.Load(sampleItems())
	assert.True(t, v.IsOpen())
	assert.Equal(t, 4, v.Total())
	assert.Equal(t, names(sampleItems()), names(v.Visible()))
	assert.Equal(t, []Option{{Value: "a", Label: "a"}, {Value: "b", Label: "b"}}, v.Options("group"))
	assert.Len(t, v.Options("ok"), 2)
}

func TestView_LoadResetsState(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetFilter("group", "a"))
	require.NoError(t, v.SetFilter(SearchKey, "del"))
	require.NoError(t, v.Sort("name"))

	v.Load(sampleItems())

	key, dir := v.SortState()
	assert.Empty(t, key)
	assert.Equal(t, Asc, dir)
	assert.Empty(t, v.FilterValue("group"))
	assert.Empty(t, v.FilterValue(SearchKey))
	assert.Equal(t, names(sampleItems()), names(v.Visible()))
}

func TestView_LoadEmpty(t *testing.T) {
	v := New(itemSchema())
	v.Load(nil)

	assert.True(t, v.IsOpen())
	snap := v.Snapshot()
	assert.True(t, snap.Empty())
	assert.Equal(t, "Showing 0 of 0 items", snap.Counter)
}

func TestView_SetFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
		want    []string
	}{
		{name: "no filters", filters: nil, want: []string{"Bravo", "alpha", "Charlie", "delta"}},
		{name: "group", filters: map[string]string{"group": "a"}, want: []string{"alpha", "delta"}},
		{name: "bool filter", filters: map[string]string{"ok": "yes"}, want: []string{"Bravo", "Charlie"}},
		{name: "search is case-insensitive", filters: map[string]string{SearchKey: "ALP"}, want: []string{"alpha"}},
		{name: "search covers every searchable column", filters: map[string]string{SearchKey: "b"}, want: []string{"Bravo", "Charlie"}},
		{name: "search skips non-searchable columns", filters: map[string]string{SearchKey: "N/A"}, want: []string{}},
		{name: "filters combine with AND", filters: map[string]string{"group": "b", SearchKey: "char"}, want: []string{"Charlie"}},
		{name: "no row matches", filters: map[string]string{"group": "a", "ok": "yes"}, want: []string{}},
		{name: "unknown value matches nothing", filters: map[string]string{"ok": "maybe"}, want: []string{}},
		{name: "empty value clears", filters: map[string]string{"group": ""}, want: []string{"Bravo", "alpha", "Charlie", "delta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := loaded(t)
			for k, val := range tt.filters {
				require.NoError(t, v.SetFilter(k, val))
			}
			assert.Equal(t, tt.want, names(v.Visible()))
		})
	}
}

func TestView_SetFilterUnknownKey(t *testing.T) {
	v := loaded(t)
	err := v.SetFilter("colour", "red")
	require.ErrorIs(t, err, ErrUnknownFilter)
	assert.Equal(t, 4, v.Len())
}

func TestView_SetFilterKeepsSort(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.Sort("name"))
	require.NoError(t, v.SetFilter("group", "b"))
	assert.Equal(t, []string{"Bravo", "Charlie"}, names(v.Visible()))

	require.NoError(t, v.Sort("name"))
	require.NoError(t, v.SetFilter("group", ""))
	assert.Equal(t, []string{"delta", "Charlie", "Bravo", "alpha"}, names(v.Visible()))
}

func TestView_Sort(t *testing.T) {
	tests := []struct {
		name  string
		field string
		times int
		want  []string
	}{
		{name: "text folds case", field: "name", times: 1, want: []string{"alpha", "Bravo", "Charlie", "delta"}},
		{name: "text desc", field: "name", times: 2, want: []string{"delta", "Charlie", "Bravo", "alpha"}},
		{name: "text toggles back", field: "name", times: 3, want: []string{"alpha", "Bravo", "Charlie", "delta"}},
		{name: "missing number sorts first", field: "size", times: 1, want: []string{"Charlie", "alpha", "Bravo", "delta"}},
		{name: "number desc keeps ties stable", field: "size", times: 2, want: []string{"Bravo", "delta", "alpha", "Charlie"}},
		{name: "bool is 0/1", field: "ok", times: 1, want: []string{"alpha", "delta", "Bravo", "Charlie"}},
		{name: "bool desc", field: "ok", times: 2, want: []string{"Bravo", "Charlie", "alpha", "delta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := loaded(t)
			for range tt.times {
				require.NoError(t, v.Sort(tt.field))
			}
			assert.Equal(t, tt.want, names(v.Visible()))
		})
	}
}

func TestView_SortIsStable(t *testing.T) {
	v := New(itemSchema())
	rows := []item{
		{name: "x1", group: "g"},
		{name: "x2", group: "f"},
		{name: "x3", group: "g"},
		{name: "x4", group: "f"},
		{name: "x5", group: "g"},
	}
	v.Load(rows)

	require.NoError(t, v.Sort("group"))
	assert.Equal(t, []string{"x2", "x4", "x1", "x3", "x5"}, names(v.Visible()))

	require.NoError(t, v.Sort("group"))
	assert.Equal(t, []string{"x1", "x3", "x5", "x2", "x4"}, names(v.Visible()))
}

func TestView_SortTwiceReversesDistinctKeys(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.Sort("name"))
	first := names(v.Visible())

	require.NoError(t, v.Sort("name"))
	second := names(v.Visible())

	for i := range first {
		assert.Equal(t, first[i], second[len(second)-1-i])
	}
}

func TestView_SortNewFieldStartsAsc(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.Sort("name"))
	require.NoError(t, v.Sort("name"))
	require.NoError(t, v.Sort("group"))

	key, dir := v.SortState()
	assert.Equal(t, "group", key)
	assert.Equal(t, Asc, dir)
}

func TestView_SortUnknownColumn(t *testing.T) {
	v := loaded(t)
	err := v.Sort("weight")
	require.ErrorIs(t, err, ErrUnknownColumn)

	key, _ := v.SortState()
	assert.Empty(t, key)
}

func TestView_SetSort(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetSort("name", Desc))
	assert.Equal(t, []string{"delta", "Charlie", "Bravo", "alpha"}, names(v.Visible()))

	require.ErrorIs(t, v.SetSort("nope", Asc), ErrUnknownColumn)
}

func TestView_Clear(t *testing.T) {
	t.Run("restores source when unsorted", func(t *testing.T) {
		v := loaded(t)
		require.NoError(t, v.SetFilter("group", "a"))
		require.NoError(t, v.SetFilter("ok", "no"))
		require.NoError(t, v.SetFilter(SearchKey, "zzz"))
		require.Equal(t, 0, v.Len())

		v.Clear()
		assert.Equal(t, names(sampleItems()), names(v.Visible()))
		assert.Empty(t, v.FilterValue(SearchKey))
		assert.Empty(t, v.FilterValue("group"))
	})

	t.Run("keeps sort", func(t *testing.T) {
		v := loaded(t)
		require.NoError(t, v.Sort("name"))
		require.NoError(t, v.SetFilter("group", "a"))

		v.Clear()
		key, dir := v.SortState()
		assert.Equal(t, "name", key)
		assert.Equal(t, Asc, dir)
		assert.Equal(t, []string{"alpha", "Bravo", "Charlie", "delta"}, names(v.Visible()))
	})
}

func TestView_Hide(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.Sort("name"))
	v.Hide()

	assert.False(t, v.IsOpen())
	assert.Equal(t, 0, v.Total())
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Options("group"))

	_, err := v.Export("items", time.Now())
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestView_Export(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetFilter("group", "b"))
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)

	exp, err := v.Export("items", now)
	require.NoError(t, err)
	assert.Equal(t, "items-2024-03-09.csv", exp.Filename)
	assert.Equal(t, "Name,Group,Size,OK\nBravo,b,3,true\nCharlie,b,N/A,true\n", string(exp.Data))
}

func TestView_ExportEmpty(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetFilter(SearchKey, "nothing matches"))

	exp, err := v.Export("items", time.Now())
	require.ErrorIs(t, err, ErrEmptyResult)
	assert.Empty(t, exp.Data)
	assert.Empty(t, exp.Filename)
	assert.Equal(t, "nothing matches", v.FilterValue(SearchKey))
}

func TestView_Snapshot(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetFilter("ok", "yes"))
	require.NoError(t, v.Sort("size"))
	require.NoError(t, v.Sort("size"))

	snap := v.Snapshot()
	assert.True(t, snap.Open)
	assert.Equal(t, "Showing 2 of 4 items", snap.Counter)
	assert.Equal(t, 2, snap.Showing)
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, "size", snap.SortKey)
	assert.Equal(t, Desc, snap.SortDir)

	require.Len(t, snap.Headers, 4)
	for _, h := range snap.Headers {
		if h.Key == "size" {
			assert.True(t, h.Sorted)
			assert.Equal(t, IndicatorDesc, h.Indicator)
			continue
		}
		assert.False(t, h.Sorted, h.Key)
		assert.Empty(t, h.Indicator, h.Key)
	}

	require.Len(t, snap.Rows, 2)
	assert.Equal(t, Cell{Text: "Bravo"}, snap.Rows[0][0])
	assert.Equal(t, Cell{Text: "N/A"}, snap.Rows[1][2])
	assert.Equal(t, Cell{Text: "true", Class: "ok-true"}, snap.Rows[1][3])

	require.Len(t, snap.Filters, 2)
	assert.Equal(t, "group", snap.Filters[0].Key)
	assert.Empty(t, snap.Filters[0].Value)
	assert.Equal(t, "yes", snap.Filters[1].Value)
	assert.Equal(t, "All", snap.Filters[1].Label)
}

func TestView_SnapshotIsRepeatable(t *testing.T) {
	v := loaded(t)
	require.NoError(t, v.SetFilter("group", "a"))
	assert.Equal(t, v.Snapshot(), v.Snapshot())
}

func TestDistinctInts(t *testing.T) {
	rows := []item{{size: 10}, {size: 2}, {size: 10}, {size: 1}}
	opts := DistinctInts(rows, func(i item) int { return i.size }, func(n int) string { return "Line " + strconv.Itoa(n) })
	assert.Equal(t, []Option{
		{Value: "1", Label: "Line 1"},
		{Value: "2", Label: "Line 2"},
		{Value: "10", Label: "Line 10"},
	}, opts)
}
