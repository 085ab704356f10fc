package tables

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
)

const msgNoData = "No data to export"

// Handlers provides HTTP handlers for the tables feature.
type Handlers struct {
	now func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{now: time.Now}
}

// Filter applies the search box and filter selects from the request
// signals.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}

	values, readErr := common.ReadTableSignals(r, name)
	sse := datastar.NewSSE(w, r)
	if readErr != nil {
		_ = sse.ConsoleError(readErr)
		return
	}

	var snap tableview.Snapshot
	var err error
	withTable(ws, name, func(t tableview.Table) {
		keys := []string{tableview.SearchKey}
		for _, f := range t.Snapshot().Filters {
			keys = append(keys, f.Key)
		}
		for _, key := range keys {
			if err = t.SetFilter(key, values[key]); err != nil {
				return
			}
		}
		snap = t.Snapshot()
	})
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := common.PatchTable(sse, snap); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Sort sorts by a column, toggling the direction when it is already the
// sort column.
func (h *Handlers) Sort(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}
	field := chi.URLParam(r, "field")
	sse := datastar.NewSSE(w, r)

	var snap tableview.Snapshot
	var err error
	withTable(ws, name, func(t tableview.Table) {
		err = t.Sort(field)
		snap = t.Snapshot()
	})
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := common.PatchTable(sse, snap); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Clear drops the search and filters and resets the bound controls.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	var snap tableview.Snapshot
	withTable(ws, name, func(t tableview.Table) {
		t.Clear()
		snap = t.Snapshot()
	})
	if err := common.PatchTable(sse, snap); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(common.SignalsOf(snap)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Hide closes the table.
func (h *Handlers) Hide(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	var snap tableview.Snapshot
	withTable(ws, name, func(t tableview.Table) {
		t.Hide()
		snap = t.Snapshot()
	})
	if err := common.PatchTable(sse, snap); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Export starts the CSV download of the visible rows, or alerts when
// there are none.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	empty := true
	withTable(ws, name, func(t tableview.Table) { empty = t.Len() == 0 })
	if empty {
		_ = common.Alert(sse, emptyMessage(name))
		return
	}
	_ = common.Navigate(sse, "/api/tables/"+name+"/export.csv")
}

// Download serves the CSV of the visible rows as an attachment.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	ws, name, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var export tableview.Export
	var err error
	ws.Do(func(ws *workspace.Workspace) { export, err = ws.Tables.Export(name, h.now()) })
	switch {
	case errors.Is(err, tableview.ErrEmptyResult):
		http.Error(w, msgNoData, http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(export.Data)
}

// resolve returns the session workspace and the table named in the URL,
// answering 404 for an unknown table.
func (h *Handlers) resolve(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, string, bool) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(results.Names, name) {
		http.NotFound(w, r)
		return nil, "", false
	}
	ws, ok := common.Workspace(w, r)
	return ws, name, ok
}

// withTable runs fn on the named table under the workspace lock.
func withTable(ws *workspace.Workspace, name string, fn func(tableview.Table)) {
	ws.Do(func(ws *workspace.Workspace) {
		if t, err := ws.Tables.Table(name); err == nil {
			fn(t)
		}
	})
}

func emptyMessage(name string) string {
	if name == results.ElementsName {
		return "No elements data to export"
	}
	return msgNoData
}
