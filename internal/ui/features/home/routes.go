// Package home serves the page shell and its live update stream.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, store core.Store, notify *notifier.Notifier, reload bool) error {
	handlers := NewHandlers(store, notify, reload)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.Updates)

	return nil
}
