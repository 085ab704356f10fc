package common

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLoggerMiddleware_UsesServerLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewMux()
	r.Use(middleware.RequestID, LoggerMiddleware(logger))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		Logger(r).Warn("analysis failed", slog.String("error", "boom"))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	assert.Contains(t, out, "analysis failed")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "request_id=")
}

func TestLogger_WithoutMiddlewareDiscards(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	Logger(httptest.NewRequest(http.MethodGet, "/", nil)).Error("lost")
	assert.Empty(t, buf.String(), "handlers never fall back to the global logger")
}

func TestLoggerMiddleware_NilLogger(t *testing.T) {
	h := LoggerMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Logger(r).Info("ok")
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
