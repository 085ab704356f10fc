// Package history lists, reloads and deletes archived analyses.
package history

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// SetupRoutes configures routes for the history feature. store may be nil.
func SetupRoutes(router chi.Router, store core.Store, notify *notifier.Notifier) error {
	handlers := NewHandlers(store, notify)

	router.Route("/api/history", func(r chi.Router) {
		r.Get("/", handlers.List)
		r.Post("/{id}/load", handlers.Load)
		r.Post("/{id}/delete", handlers.Delete)
	})

	return nil
}
