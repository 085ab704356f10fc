// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	analysisFeature "github.com/leapstack-labs/edilens/internal/ui/features/analysis"
	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	historyFeature "github.com/leapstack-labs/edilens/internal/ui/features/history"
	homeFeature "github.com/leapstack-labs/edilens/internal/ui/features/home"
	tablesFeature "github.com/leapstack-labs/edilens/internal/ui/features/tables"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/resources"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// Deps are the services the routes are built on. Store may be nil when
// history is disabled.
type Deps struct {
	Analyzer   *analyzer.Client
	Store      core.Store
	Sessions   sessions.Store
	Workspaces *workspace.Registry
	Notifier   *notifier.Notifier
	MaxUpload  int64
	IsDev      bool
	Logger     *slog.Logger
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	if deps.IsDev {
		setupReload(router, deps.Notifier)
	}

	router.Handle("/static/*", resources.Handler())

	// Everything else runs against the session's workspace.
	r := router.With(
		common.LoggerMiddleware(deps.Logger),
		workspace.Middleware(deps.Sessions, deps.Workspaces, deps.Logger),
	)

	if err := homeFeature.SetupRoutes(r, deps.Store, deps.Notifier, deps.IsDev); err != nil {
		return err
	}

	if err := analysisFeature.SetupRoutes(r, deps.Analyzer, deps.Store, deps.Notifier, deps.MaxUpload); err != nil {
		return err
	}

	if err := tablesFeature.SetupRoutes(r); err != nil {
		return err
	}

	if err := historyFeature.SetupRoutes(r, deps.Store, deps.Notifier); err != nil {
		return err
	}

	return nil
}

// setupReload lets an external build watcher trigger a page reload.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast(notifier.EventReload)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
