// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/state"
	"github.com/leapstack-labs/edilens/internal/testutil"
	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Service    *testutil.FakeAnalyzer
	Analyzer   *analyzer.Client
	Store      core.Store
	Notifier   *notifier.Notifier
	Sessions   *sessions.CookieStore
	Workspaces *workspace.Registry

	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

// FixtureOption adjusts a fixture before it is built.
type FixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	responses map[string]testutil.Response
	noStore   bool
}

// WithResponses sets the fake analysis service replies by path.
func WithResponses(responses map[string]testutil.Response) FixtureOption {
	return func(c *fixtureConfig) { c.responses = responses }
}

// WithoutStore disables the analysis archive.
func WithoutStore() FixtureOption {
	return func(c *fixtureConfig) { c.noStore = true }
}

// SetupTestFixture creates a fake analysis service, an in-memory archive,
// a notifier and a session store.
func SetupTestFixture(t *testing.T, opts ...FixtureOption) *TestFixture {
	t.Helper()

	cfg := fixtureConfig{responses: map[string]testutil.Response{
		analyzer.PathAnalyzeSpec: {Body: testutil.SamplePayload},
		analyzer.PathTestSpec:    {Body: `{"message":"Test sample processed","total_lines":3}`},
		analyzer.PathDebugFilter: {Body: `{"message":"Filter debug","kept":["ISA*00"]}`},
	}}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := testutil.NewTestLogger(t)
	service := testutil.NewFakeAnalyzer(t, cfg.responses)
	client, err := analyzer.New(analyzer.Config{BaseURL: service.URL, Timeout: 5 * time.Second, Logger: logger})
	require.NoError(t, err)

	f := &TestFixture{
		Service:    service,
		Analyzer:   client,
		Notifier:   notifier.New(),
		Sessions:   sessions.NewCookieStore([]byte("test-session-secret")),
		Workspaces: workspace.NewRegistry(time.Minute, logger),
		t:          t,
	}

	if !cfg.noStore {
		store, err := state.Open(context.Background(), state.Config{
			Driver: state.DriverSQLite,
			DSN:    ":memory:",
			Logger: logger,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		f.Store = store
	}

	return f
}

// Mount builds the handler under test: setup registers feature routes
// behind the workspace middleware.
func (f *TestFixture) Mount(setup func(r chi.Router) error) {
	f.t.Helper()
	r := chi.NewMux()
	logger := testutil.NewTestLogger(f.t)
	r.Use(middleware.RequestID)
	r.Use(common.LoggerMiddleware(logger))
	r.Use(workspace.Middleware(f.Sessions, f.Workspaces, logger))
	require.NoError(f.t, setup(r))
	f.handler = r
}

// Do sends a request with the fixture's session cookie and records the
// response. The first response's session cookie is kept for later calls.
func (f *TestFixture) Do(req *http.Request) *httptest.ResponseRecorder {
	f.t.Helper()
	require.NotNil(f.t, f.handler, "call Mount first")

	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}
	return rec
}

// Get is Do with a GET request.
func (f *TestFixture) Get(path string) *httptest.ResponseRecorder {
	return f.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostSignals posts Datastar signals as JSON.
func (f *TestFixture) PostSignals(path, signals string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return f.Do(req)
}

// Post posts an empty signal set.
func (f *TestFixture) Post(path string) *httptest.ResponseRecorder {
	return f.PostSignals(path, "{}")
}

// Upload is one multipart file.
type Upload struct {
	Field   string
	Name    string
	Content string
}

// PostForm posts a multipart form with the given files.
func (f *TestFixture) PostForm(path string, files ...Upload) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range files {
		part, err := mw.CreateFormFile(u.Field, u.Name)
		require.NoError(f.t, err)
		_, err = io.WriteString(part, u.Content)
		require.NoError(f.t, err)
	}
	require.NoError(f.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Datastar-Request", "true")
	return f.Do(req)
}

// Workspace returns the workspace of the fixture's session.
func (f *TestFixture) Workspace() *workspace.Workspace {
	f.t.Helper()
	for _, c := range f.cookies {
		if c.Name != workspace.SessionName {
			continue
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(c)
		session, err := f.Sessions.Get(req, workspace.SessionName)
		require.NoError(f.t, err)
		id, _ := session.Values[workspace.SessionKey].(string)
		ws, ok := f.Workspaces.Get(id)
		require.True(f.t, ok, "workspace %s not registered", id)
		return ws
	}
	f.t.Fatal("no session cookie yet")
	return nil
}

// SSEElements joins the element patches of an SSE response body into
// one HTML string.
func SSEElements(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if rest, ok := strings.CutPrefix(line, "data: elements "); ok {
			b.WriteString(rest)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ParseHTML parses an HTML document or fragment.
func ParseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

// FindByID returns the first element with the given id, or nil.
func FindByID(n *html.Node, id string) *html.Node {
	return Find(n, func(n *html.Node) bool { return Attr(n, "id") == id })
}

// Find returns the first element matching fn in document order, or nil.
func Find(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, fn); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element with the given tag under n.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Attr returns the value of an attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries the attribute.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// RowTexts returns the cell texts of each body row of the table under n.
func RowTexts(n *html.Node) [][]string {
	var rows [][]string
	for _, tbody := range FindAll(n, "tbody") {
		for _, tr := range FindAll(tbody, "tr") {
			var cells []string
			for _, td := range FindAll(tr, "td") {
				cells = append(cells, Text(td))
			}
			rows = append(rows, cells)
		}
	}
	return rows
}
