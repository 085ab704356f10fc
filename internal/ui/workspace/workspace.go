// Package workspace holds the per-browser-session result state of the UI.
package workspace

import (
	"sync"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// Pane is the raw results panel.
type Pane struct {
	Visible    bool
	Kind       core.AnalysisKind
	JSON       string
	Message    string
	Error      string
	AnalysisID string
}

// Workspace is the state of one browser session: the two result tables
// and the last raw response.
type Workspace struct {
	mu sync.Mutex

	ID     string
	Tables *results.Tables
	Pane   Pane
}

// New returns an empty workspace.
func New(id string) *Workspace {
	return &Workspace{ID: id, Tables: results.NewTables()}
}

// Do runs fn while holding the workspace lock.
func (w *Workspace) Do(fn func(*Workspace)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w)
}

// Show fills the pane from p. Tables are loaded from p only when
// withTables is set, and hidden otherwise.
func (w *Workspace) Show(kind core.AnalysisKind, p *core.Payload, analysisID string, withTables bool) {
	w.Pane = Pane{
		Visible:    true,
		Kind:       kind,
		JSON:       p.Pretty(),
		Message:    p.Message,
		Error:      p.Error,
		AnalysisID: analysisID,
	}
	if withTables {
		w.Tables.Apply(p)
	} else {
		w.Tables.Hide()
	}
}

// HidePane closes the raw results panel.
func (w *Workspace) HidePane() {
	w.Pane.Visible = false
}
