// Package analysis handles uploads to the analysis service and the raw
// results pane.
package analysis

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// SetupRoutes configures routes for the analysis feature.
func SetupRoutes(
	router chi.Router,
	client *analyzer.Client,
	store core.Store,
	notify *notifier.Notifier,
	maxUpload int64,
) error {
	handlers := NewHandlers(client, store, notify, maxUpload)

	router.Post("/api/analyze", handlers.Analyze)
	router.Post("/api/sample", handlers.Sample)
	router.Post("/api/debug-filter", handlers.DebugFilter)
	router.Post("/api/results/hide", handlers.HideResults)

	return nil
}
