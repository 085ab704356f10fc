package common

import (
	"context"
	"net/http"

	"github.com/leapstack-labs/edilens/internal/ui/features/common/components"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// HistoryLimit is the number of analyses listed in the history panel.
const HistoryLimit = 20

// Workspace returns the request's workspace, answering 500 when the
// workspace middleware did not run.
func Workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, ok := workspace.FromContext(r.Context())
	if !ok {
		http.Error(w, "no workspace for this session", http.StatusInternalServerError)
	}
	return ws, ok
}

// LoadHistory builds the history panel from store, which may be nil when
// the archive is disabled.
func LoadHistory(ctx context.Context, store core.Store, activeID string) components.HistoryData {
	if store == nil {
		return components.HistoryData{Disabled: true}
	}
	items, err := store.ListAnalyses(ctx, HistoryLimit)
	if err != nil {
		return components.HistoryData{Error: "Failed to load history: " + err.Error()}
	}
	return components.HistoryData{Items: items, ActiveID: activeID}
}
