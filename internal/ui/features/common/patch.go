package common

import (
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/results"
	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/internal/ui/features/common/components"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
)

// WorkspaceView is a copy of the render state of a workspace, safe to use
// after the workspace lock is released.
type WorkspaceView struct {
	Pane   workspace.Pane
	Tables []tableview.Snapshot
}

// Capture copies the render state of ws. Call it inside ws.Do.
func Capture(ws *workspace.Workspace) WorkspaceView {
	v := WorkspaceView{Pane: ws.Pane}
	for _, name := range results.Names {
		t, _ := ws.Tables.Table(name)
		v.Tables = append(v.Tables, t.Snapshot())
	}
	return v
}

// PatchResults sends the results pane, both table sections and the table
// control signals.
func PatchResults(sse *datastar.ServerSentEventGenerator, v WorkspaceView) error {
	if err := sse.PatchElementTempl(components.ResultsPane(v.Pane)); err != nil {
		return err
	}
	for _, s := range v.Tables {
		if err := PatchTable(sse, s); err != nil {
			return err
		}
	}
	return sse.MarshalAndPatchSignals(SignalsOf(v.Tables...))
}

// PatchTable sends one table section.
func PatchTable(sse *datastar.ServerSentEventGenerator, s tableview.Snapshot) error {
	return sse.PatchElementTempl(components.TableSection(s))
}
