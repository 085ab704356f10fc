package components

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/internal/ui/resources"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
)

// PageData is everything the full page renders.
type PageData struct {
	Title   string
	Signals string
	Pane    workspace.Pane
	Tables  []tableview.Snapshot
	History HistoryData
}

// Page renders the complete HTML document. Updates arrive over the
// /updates stream started on load.
func Page(d PageData) templ.Component {
	return templ.Join(
		pageStart(d),
		ResultsPane(d.Pane),
		tables(d.Tables),
		render(func(b *builder) { b.close("div") }),
		HistoryPanel(d.History),
		render(func(b *builder) {
			b.close("main")
			b.close("body")
			b.close("html")
		}),
	)
}

func pageStart(d PageData) templ.Component {
	return render(func(b *builder) {
		b.raw("<!doctype html>")
		b.open("html", "lang", "en")
		b.open("head")
		b.open("meta", "charset", "utf-8")
		b.open("meta", "name", "viewport", "content", "width=device-width, initial-scale=1")
		b.element("title", d.Title+" - EDI Lens")
		b.open("link", "rel", "stylesheet", "href", resources.StaticPath("app.css"))
		b.open("script", "type", "module", "src", resources.DatastarScript)
		b.close("script")
		b.close("head")

		b.open("body", "data-signals", d.Signals, "data-init", "@get('/updates')")
		b.open("header", "class", "app-header")
		b.element("h1", "EDI Lens")
		b.element("span", "Check EDI data against a PDF implementation guide", "class", "tagline")
		b.close("header")

		b.open("main", "class", "layout")
		b.open("div", "class", "content")
		uploadPanel(b)
	})
}

// tables renders the container that analysis responses scroll into view.
func tables(snaps []tableview.Snapshot) templ.Component {
	sections := make([]templ.Component, 0, len(snaps)+2)
	sections = append(sections, render(func(b *builder) { b.open("div", "id", TablesID) }))
	for _, s := range snaps {
		sections = append(sections, TableSection(s))
	}
	sections = append(sections, render(func(b *builder) { b.close("div") }))
	return templ.Join(sections...)
}

func uploadPanel(b *builder) {
	b.open("section", "id", "upload", "class", "panel")
	b.element("h2", "Analyze")
	b.open("form", "id", "upload-form", "class", "upload-form",
		"enctype", "multipart/form-data",
		"data-on:submit", "@post('/api/analyze', {contentType: 'form'})",
		"data-indicator", "_analyzing")

	b.open("label")
	b.text("PDF specification")
	b.open("input", "type", "file", "name", "pdf", "accept", ".pdf,application/pdf")
	b.close("label")

	b.open("label")
	b.text("EDI data ")
	b.element("span", "(optional)", "class", "hint")
	b.open("input", "type", "file", "name", "edi_data", "accept", ".edi,.x12,.txt")
	b.close("label")

	b.open("div", "class", "actions")
	b.element("button", "Analyze", "id", "analyze-button", "type", "submit", "class", "primary",
		"data-attr:disabled", "$_analyzing")
	b.element("button", "Run Test Sample", "id", "sample-button", "type", "button",
		"data-on:click", "@post('/api/sample')",
		"data-indicator", "_sampling", "data-attr:disabled", "$_sampling")
	b.element("button", "Debug Filter", "id", "debug-button", "type", "button",
		"data-on:click", "@post('/api/debug-filter', {contentType: 'form', selector: '#upload-form'})",
		"data-indicator", "_debugging", "data-attr:disabled", "$_debugging")
	b.close("div")

	b.close("form")
	b.close("section")
}
