package home

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	"github.com/leapstack-labs/edilens/internal/ui/features/common/components"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	store    core.Store
	notifier *notifier.Notifier
	reload   bool
}

// NewHandlers creates a new Handlers instance. store may be nil.
func NewHandlers(store core.Store, notify *notifier.Notifier, reload bool) *Handlers {
	return &Handlers{
		store:    store,
		notifier: notify,
		reload:   reload,
	}
}

// HomePage renders the full page from the session's workspace, so a
// reload shows the same tables, filters and sort.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}

	var view common.WorkspaceView
	ws.Do(func(ws *workspace.Workspace) { view = common.Capture(ws) })

	page := components.Page(components.PageData{
		Title:   "Analyze",
		Signals: common.SignalsOf(view.Tables...).JSON(),
		Pane:    view.Pane,
		Tables:  view.Tables,
		History: common.LoadHistory(r.Context(), h.store, view.Pane.AnalysisID),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE stream. It sends nothing up front since
// HomePage already rendered the current state.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-updates:
			if err := h.send(r, sse, event); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) send(r *http.Request, sse *datastar.ServerSentEventGenerator, event notifier.Event) error {
	switch event {
	case notifier.EventReload:
		if h.reload {
			return common.Reload(sse)
		}
		return nil
	case notifier.EventHistory:
		activeID := ""
		if ws, ok := workspace.FromContext(r.Context()); ok {
			ws.Do(func(ws *workspace.Workspace) { activeID = ws.Pane.AnalysisID })
		}
		return sse.PatchElementTempl(components.HistoryPanel(common.LoadHistory(r.Context(), h.store, activeID)))
	default:
		return nil
	}
}
