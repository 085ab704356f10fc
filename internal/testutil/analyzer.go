package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// SamplePayload is an analysis response with two segments and two elements.
const SamplePayload = `{
  "message": "Analysis complete",
  "total_lines": 12,
  "segments_in_edi": ["ISA", "NM1"],
  "total_elements": 2,
  "tabular_data": [
    {"segment_tag":"NM1","x12_requirement":"mandatory","company_usage":"must_use","min_usage":1,"max_usage":1,"present_in_edi":true,"status":"OK"},
    {"segment_tag":"REF","x12_requirement":"optional","company_usage":"not_used","min_usage":null,"max_usage":null,"present_in_edi":false,"status":"Missing"}
  ],
  "edi_elements": [
    {"line_number":2,"segment_tag":"NM1","element_position":"01","element_code":"98","element_value":"IL","element_description":"Entity Identifier Code"},
    {"line_number":1,"segment_tag":"ISA","element_position":"02","element_code":"I02","element_value":"","element_description":"Authorization Information"}
  ]
}`

// Response is a canned analysis service reply.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// FakeAnalyzer is an httptest server standing in for the analysis service.
type FakeAnalyzer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []*http.Request
	forms     []map[string]string
}

// NewFakeAnalyzer starts a fake service. Paths without a response get a
// 404 with a JSON error. The server is closed when the test ends.
func NewFakeAnalyzer(t *testing.T, responses map[string]Response) *FakeAnalyzer {
	t.Helper()
	f := &FakeAnalyzer{responses: responses}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeAnalyzer) serve(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for field, headers := range r.MultipartForm.File {
			form[field] = headers[0].Filename
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.forms = append(f.forms, form)
	resp, ok := f.responses[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		resp = Response{Status: http.StatusNotFound, Body: `{"error":"not found"}`}
	}
	if resp.ContentType == "" {
		resp.ContentType = "application/json"
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}

// Paths returns the request paths in order.
func (f *FakeAnalyzer) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, len(f.requests))
	for i, r := range f.requests {
		paths[i] = r.URL.Path
	}
	return paths
}

// Uploads returns the multipart file names of request i, keyed by field.
func (f *FakeAnalyzer) Uploads(i int) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[i]
}

// WriteFile writes content to name inside dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
