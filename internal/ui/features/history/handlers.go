package history

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	"github.com/leapstack-labs/edilens/internal/ui/features/common/components"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

const msgDisabled = "History is disabled"

// Handlers provides HTTP handlers for the history feature.
type Handlers struct {
	store    core.Store
	notifier *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, notify *notifier.Notifier) *Handlers {
	return &Handlers{store: store, notifier: notify}
}

// List patches the history panel.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := h.patchPanel(r, sse, ws); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Load shows an archived analysis in the session's workspace.
func (h *Handlers) Load(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	if h.store == nil {
		_ = common.Alert(sse, msgDisabled)
		return
	}

	id := chi.URLParam(r, "id")
	a, err := h.store.GetAnalysis(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		_ = common.Alert(sse, "Analysis "+id+" no longer exists")
		_ = h.patchPanel(r, sse, ws)
		return
	}
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	p, err := core.DecodePayload(a.Payload)
	if err != nil {
		common.Logger(r).Warn("archived payload unreadable", slog.String("id", id), slog.String("error", err.Error()))
		p = core.NewErrorPayload(err.Error(), a.Message)
	}

	var view common.WorkspaceView
	ws.Do(func(ws *workspace.Workspace) {
		ws.Show(a.Kind, p, a.ID, a.Kind == core.AnalysisKindAnalyze)
		view = common.Capture(ws)
	})

	if err := common.PatchResults(sse, view); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := h.patchPanel(r, sse, ws); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = common.ScrollIntoView(sse, components.ResultsPaneID)
}

// Delete removes an archived analysis and tells every open page.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	if h.store == nil {
		_ = common.Alert(sse, msgDisabled)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.store.DeleteAnalysis(r.Context(), id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		_ = sse.ConsoleError(err)
		return
	}

	var pane workspace.Pane
	ws.Do(func(ws *workspace.Workspace) {
		if ws.Pane.AnalysisID == id {
			ws.Pane.AnalysisID = ""
		}
		pane = ws.Pane
	})

	if err := sse.PatchElementTempl(components.ResultsPane(pane)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := h.patchPanel(r, sse, ws); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.notifier.Broadcast(notifier.EventHistory)
}

func (h *Handlers) patchPanel(r *http.Request, sse *datastar.ServerSentEventGenerator, ws *workspace.Workspace) error {
	activeID := ""
	ws.Do(func(ws *workspace.Workspace) { activeID = ws.Pane.AnalysisID })
	return sse.PatchElementTempl(components.HistoryPanel(common.LoadHistory(r.Context(), h.store, activeID)))
}
