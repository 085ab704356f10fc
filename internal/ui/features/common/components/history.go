package components

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/edilens/pkg/core"
)

// HistoryData is the content of the history panel.
type HistoryData struct {
	Disabled bool
	Error    string
	Items    []*core.Analysis
	ActiveID string
}

// HistoryPanel renders the list of archived analyses.
func HistoryPanel(h HistoryData) templ.Component {
	return render(func(b *builder) {
		b.open("aside", "id", HistoryPanelID, "class", "panel")
		b.element("h2", "History")

		switch {
		case h.Disabled:
			b.element("p", "History is disabled.", "class", "empty-state")
		case h.Error != "":
			b.element("p", h.Error, "class", "results-error")
		case len(h.Items) == 0:
			b.element("p", "No analyses yet.", "class", "empty-state")
		default:
			b.open("ul", "class", "history-list")
			for _, a := range h.Items {
				historyItem(b, a, a.ID == h.ActiveID)
			}
			b.close("ul")
		}

		b.close("aside")
	})
}

func historyItem(b *builder, a *core.Analysis, active bool) {
	base := "/api/history/" + a.ID
	b.open("li", "id", "history-"+a.ID, "aria-current", flag(active, "true"))
	b.element("strong", historyTitle(a))
	b.element("span", a.CreatedAt.Local().Format("2006-01-02 15:04")+" · "+string(a.Kind), "class", "meta")
	if a.Error != "" {
		b.element("span", a.Error, "class", "meta failed")
	} else {
		b.element("span", fmt.Sprintf("%d segments · %d elements", a.SegmentCount, a.ElementCount), "class", "meta")
	}
	b.open("div", "class", "actions")
	b.element("button", "Load", "type", "button", "class", "link", "data-on:click", post(base+"/load"))
	b.element("button", "Delete", "type", "button", "class", "link danger",
		"data-on:click", "confirm('Delete this analysis?') && "+post(base+"/delete"))
	b.close("div")
	b.close("li")
}

func historyTitle(a *core.Analysis) string {
	switch {
	case a.PDFName != "" && a.EDIName != "":
		return a.PDFName + " + " + a.EDIName
	case a.PDFName != "":
		return a.PDFName
	case a.Kind == core.AnalysisKindSample:
		return "Test sample"
	default:
		return a.ID
	}
}
