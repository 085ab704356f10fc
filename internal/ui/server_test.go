package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/testutil"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
)

func newTestServer(t *testing.T, watch bool) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	client, err := analyzer.New(analyzer.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, Logger: logger})
	require.NoError(t, err)
	return NewServer(Config{
		Analyzer:      client,
		Watch:         watch,
		SessionSecret: "test-secret",
		Logger:        logger,
	})
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandler_Routes(t *testing.T) {
	s := newTestServer(t, false)
	h, err := s.Handler()
	require.NoError(t, err)

	rec := serve(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "EDI Lens")
	assert.Contains(t, rec.Body.String(), "History is disabled.")

	var sessionSet bool
	for _, c := range rec.Result().Cookies() {
		sessionSet = sessionSet || c.Name == workspace.SessionName
	}
	assert.True(t, sessionSet, "the page starts a session")

	rec = serve(t, h, http.MethodGet, "/static/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodGet, "/hotreload").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodPost, "/api/tables/other/hide").Code)
}

func TestHandler_HotReload(t *testing.T) {
	s := newTestServer(t, true)
	assert.True(t, s.IsDev())

	h, err := s.Handler()
	require.NoError(t, err)

	events := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(events)

	rec := serve(t, h, http.MethodGet, "/hotreload")
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case e := <-events:
		assert.Equal(t, notifier.EventReload, e)
	default:
		t.Error("hotreload did not broadcast")
	}
}
