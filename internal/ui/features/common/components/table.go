package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tableview"
)

// TableSection renders one result table with its toolbar. A closed view
// renders as an empty hidden section so a patch removes the old table.
func TableSection(s tableview.Snapshot) templ.Component {
	return render(func(b *builder) {
		id := TableID(s.Name)
		if !s.Open {
			b.open("section", "id", id, "class", "panel table-section", "hidden", "hidden")
			b.close("section")
			return
		}

		base := "/api/tables/" + s.Name
		b.open("section", "id", id, "class", "panel table-section")

		b.element("h2", results.Title(s.Name))
		tableToolbar(b, s, base)
		b.element("p", s.Counter, "id", s.Name+"-count", "class", "counter")

		b.open("div", "class", "table-scroll")
		b.open("table", "class", "results")
		b.open("thead")
		b.open("tr")
		for _, h := range s.Headers {
			label := h.Label
			if h.Sorted {
				label += " " + h.Indicator
			}
			b.element("th", label,
				"class", flag(h.Sorted, "sorted"),
				"aria-sort", ariaSort(h),
				"data-on:click", post(base+"/sort/"+h.Key))
		}
		b.close("tr")
		b.close("thead")

		b.open("tbody", "id", s.Name+"-body")
		if s.Empty() {
			b.open("tr")
			b.element("td", "No matching "+s.Noun, "colspan", strconv.Itoa(len(s.Headers)), "class", "empty-row")
			b.close("tr")
		}
		for _, row := range s.Rows {
			b.open("tr")
			for _, c := range row {
				b.element("td", c.Text, "class", c.Class)
			}
			b.close("tr")
		}
		b.close("tbody")
		b.close("table")
		b.close("div")

		b.close("section")
	})
}

func tableToolbar(b *builder, s tableview.Snapshot, base string) {
	filterURL := post(base + "/filter")

	b.open("div", "class", "toolbar")
	b.open("input",
		"type", "search",
		"placeholder", "Search "+s.Noun+"...",
		"value", s.Search,
		"data-bind", SignalPath(s.Name, tableview.SearchKey),
		"data-on:input__debounce.300ms", filterURL)

	for _, f := range s.Filters {
		b.open("select",
			"aria-label", f.Label,
			"data-bind", SignalPath(s.Name, f.Key),
			"data-on:change", filterURL)
		b.raw(`<option value="">`)
		b.text(f.Label)
		b.close("option")
		for _, o := range f.Options {
			b.open("option", "value", o.Value, "selected", flag(o.Value == f.Value, "selected"))
			b.text(o.Label)
			b.close("option")
		}
		b.close("select")
	}

	b.element("button", "Clear", "type", "button", "data-on:click", post(base+"/clear"))
	b.element("button", "Export CSV", "type", "button", "data-on:click", post(base+"/export"))
	b.element("button", "Hide", "type", "button", "class", "link", "data-on:click", post(base+"/hide"))
	b.close("div")
}

func ariaSort(h tableview.Header) string {
	switch {
	case !h.Sorted:
		return ""
	case h.Direction == tableview.Desc:
		return "descending"
	default:
		return "ascending"
	}
}

// SignalPath is the Datastar signal bound to a table control.
func SignalPath(table, key string) string {
	return table + "." + key
}
