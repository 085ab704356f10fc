package workspace

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// Session cookie and value names.
const (
	SessionName = "edilens"
	SessionKey  = "ws"
)

type ctxKey struct{}

// WithWorkspace returns a copy of ctx carrying ws.
func WithWorkspace(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, ctxKey{}, ws)
}

// FromContext returns the workspace stored by Middleware.
func FromContext(ctx context.Context) (*Workspace, bool) {
	ws, ok := ctx.Value(ctxKey{}).(*Workspace)
	return ws, ok && ws != nil
}

// Middleware resolves the session's workspace and stores it in the
// request context. A new workspace id is written back to the session
// cookie.
func Middleware(store sessions.Store, reg *Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// a cookie that fails to decode yields a fresh session
			session, _ := store.Get(r, SessionName)
			current, _ := session.Values[SessionKey].(string)

			id, ws := reg.Acquire(current)
			if id != current {
				session.Values[SessionKey] = id
				if err := session.Save(r, w); err != nil {
					logger.Error("save session", slog.String("error", err.Error()))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}
