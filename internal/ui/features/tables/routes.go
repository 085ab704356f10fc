// Package tables handles the controls of the segment and element tables.
package tables

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the tables feature.
func SetupRoutes(router chi.Router) error {
	mount(router, NewHandlers())
	return nil
}

func mount(router chi.Router, handlers *Handlers) {
	router.Route("/api/tables/{name}", func(r chi.Router) {
		r.Post("/filter", handlers.Filter)
		r.Post("/sort/{field}", handlers.Sort)
		r.Post("/clear", handlers.Clear)
		r.Post("/hide", handlers.Hide)
		r.Post("/export", handlers.Export)
		r.Get("/export.csv", handlers.Download)
	})
}
