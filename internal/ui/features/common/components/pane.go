package components

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// ResultsPane renders the raw JSON response panel.
func ResultsPane(p workspace.Pane) templ.Component {
	return render(func(b *builder) {
		if !p.Visible {
			b.open("section", "id", ResultsPaneID, "class", "panel", "hidden", "hidden")
			b.close("section")
			return
		}

		b.open("section", "id", ResultsPaneID, "class", "panel")
		b.element("h2", paneTitle(p.Kind))
		if p.Error != "" {
			b.element("p", p.Error, "class", "results-message results-error")
		}
		if p.Message != "" {
			b.element("p", p.Message, "class", "results-message")
		}
		if p.AnalysisID != "" {
			b.element("p", "Saved to history as "+p.AnalysisID, "class", "counter")
		}
		b.element("pre", p.JSON, "id", "results-json", "class", "results-json")
		b.open("div", "class", "actions")
		b.element("button", "Hide", "type", "button", "class", "link", "data-on:click", post("/api/results/hide"))
		b.close("div")
		b.close("section")
	})
}

func paneTitle(kind core.AnalysisKind) string {
	switch kind {
	case core.AnalysisKindSample:
		return "Test Sample Results"
	case core.AnalysisKindDebug:
		return "Filter Debug Results"
	default:
		return "Analysis Results"
	}
}
