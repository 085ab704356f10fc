package history

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/edilens/internal/testutil"
	"github.com/leapstack-labs/edilens/internal/ui/features"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

func setupTestHandlers(t *testing.T, opts ...features.FixtureOption) *features.TestFixture {
	t.Helper()

	f := features.SetupTestFixture(t, opts...)
	f.Mount(func(r chi.Router) error {
		return SetupRoutes(r, f.Store, f.Notifier)
	})
	return f
}

func seed(t *testing.T, f *features.TestFixture, kind core.AnalysisKind, raw string) *core.Analysis {
	t.Helper()
	p, err := core.DecodePayload([]byte(raw))
	require.NoError(t, err)
	a := core.NewAnalysis(kind, "spec.pdf", "claim.edi", p)
	require.NoError(t, f.Store.SaveAnalysis(context.Background(), a))
	return a
}

func TestList(t *testing.T) {
	f := setupTestHandlers(t)
	a := seed(t, f, core.AnalysisKindAnalyze, testutil.SamplePayload)

	rec := f.Get("/api/history/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := features.ParseHTML(t, features.SSEElements(rec.Body.String()))
	item := features.FindByID(doc, "history-"+a.ID)
	require.NotNil(t, item)
	text := features.Text(item)
	assert.Contains(t, text, "spec.pdf + claim.edi")
	assert.Contains(t, text, "2 segments · 2 elements")
	assert.False(t, features.HasAttr(item, "aria-current"))
}

func TestList_Empty(t *testing.T) {
	f := setupTestHandlers(t)

	rec := f.Get("/api/history/")
	panel := features.FindByID(features.ParseHTML(t, features.SSEElements(rec.Body.String())), "history-panel")
	require.NotNil(t, panel)
	assert.Contains(t, features.Text(panel), "No analyses yet.")
}

func TestLoad_Analysis(t *testing.T) {
	f := setupTestHandlers(t)
	a := seed(t, f, core.AnalysisKindAnalyze, testutil.SamplePayload)

	rec := f.Post("/api/history/" + a.ID + "/load")
	body := rec.Body.String()
	doc := features.ParseHTML(t, features.SSEElements(body))

	pane := features.FindByID(doc, "results-pane")
	require.NotNil(t, pane)
	assert.Contains(t, features.Text(pane), "Analysis complete")

	segments := features.FindByID(doc, "segments-table")
	require.NotNil(t, segments)
	assert.False(t, features.HasAttr(segments, "hidden"))
	assert.Len(t, features.RowTexts(segments), 2)

	item := features.FindByID(doc, "history-"+a.ID)
	require.NotNil(t, item)
	assert.Equal(t, "true", features.Attr(item, "aria-current"))

	f.Workspace().Do(func(ws *workspace.Workspace) {
		assert.Equal(t, a.ID, ws.Pane.AnalysisID)
		assert.True(t, ws.Tables.Elements.IsOpen())
	})
}

func TestLoad_RawKindHidesTables(t *testing.T) {
	f := setupTestHandlers(t)
	first := seed(t, f, core.AnalysisKindAnalyze, testutil.SamplePayload)
	debug := seed(t, f, core.AnalysisKindDebug, `{"message":"Filter debug","kept":["ISA*00"]}`)

	f.Post("/api/history/" + first.ID + "/load")
	rec := f.Post("/api/history/" + debug.ID + "/load")
	doc := features.ParseHTML(t, features.SSEElements(rec.Body.String()))

	pane := features.FindByID(doc, "results-pane")
	require.NotNil(t, pane)
	assert.Contains(t, features.Text(pane), "Filter Debug Results")

	segments := features.FindByID(doc, "segments-table")
	require.NotNil(t, segments)
	assert.True(t, features.HasAttr(segments, "hidden"))
}

func TestLoad_NotFound(t *testing.T) {
	f := setupTestHandlers(t)

	rec := f.Post("/api/history/missing/load")
	body := rec.Body.String()
	assert.Contains(t, body, `alert("Analysis missing no longer exists")`)
	assert.NotNil(t, features.FindByID(features.ParseHTML(t, features.SSEElements(body)), "history-panel"))
}

func TestDelete(t *testing.T) {
	f := setupTestHandlers(t)
	a := seed(t, f, core.AnalysisKindAnalyze, testutil.SamplePayload)
	f.Post("/api/history/" + a.ID + "/load")

	events := f.Notifier.Subscribe()
	defer f.Notifier.Unsubscribe(events)

	rec := f.Post("/api/history/" + a.ID + "/delete")
	doc := features.ParseHTML(t, features.SSEElements(rec.Body.String()))

	assert.Nil(t, features.FindByID(doc, "history-"+a.ID))
	pane := features.FindByID(doc, "results-pane")
	require.NotNil(t, pane)
	assert.NotContains(t, features.Text(pane), "Saved to history")

	_, err := f.Store.GetAnalysis(context.Background(), a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	select {
	case e := <-events:
		assert.Equal(t, notifier.EventHistory, e)
	default:
		t.Error("delete did not broadcast a history event")
	}

	f.Workspace().Do(func(ws *workspace.Workspace) {
		assert.Empty(t, ws.Pane.AnalysisID)
		assert.True(t, ws.Pane.Visible, "the shown results stay on screen")
	})
}

func TestDelete_Missing(t *testing.T) {
	f := setupTestHandlers(t)

	rec := f.Post("/api/history/missing/delete")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "console.error")
}

func TestDisabled(t *testing.T) {
	f := setupTestHandlers(t, features.WithoutStore())

	for _, path := range []string{"/api/history/x/load", "/api/history/x/delete"} {
		rec := f.Post(path)
		assert.Contains(t, rec.Body.String(), `alert("History is disabled")`, path)
	}

	rec := f.Get("/api/history/")
	assert.Contains(t, rec.Body.String(), "History is disabled.")
}
