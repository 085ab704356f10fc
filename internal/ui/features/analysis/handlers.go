package analysis

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/analyzer"
	"github.com/leapstack-labs/edilens/internal/ui/features/common"
	"github.com/leapstack-labs/edilens/internal/ui/features/common/components"
	"github.com/leapstack-labs/edilens/internal/ui/notifier"
	"github.com/leapstack-labs/edilens/internal/ui/workspace"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// Handlers provides HTTP handlers for the analysis feature.
type Handlers struct {
	client    *analyzer.Client
	store     core.Store
	notifier  *notifier.Notifier
	maxUpload int64
}

// NewHandlers creates a new Handlers instance. store may be nil.
func NewHandlers(client *analyzer.Client, store core.Store, notify *notifier.Notifier, maxUpload int64) *Handlers {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Handlers{
		client:    client,
		store:     store,
		notifier:  notify,
		maxUpload: maxUpload,
	}
}

// Analyze uploads the PDF specification and optional EDI data, then
// patches the results pane and both tables.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}

	// The form must be parsed before NewSSE takes over the response.
	form, formErr := h.parseUploads(w, r)
	defer form.close()

	sse := datastar.NewSSE(w, r)
	if formErr != "" {
		_ = common.Alert(sse, formErr)
		return
	}
	pdf, edi := form.file(analyzer.FieldPDF), form.file(analyzer.FieldEDI)
	if pdf == nil {
		_ = common.Alert(sse, msgSelectPDF)
		return
	}

	p, callErr := h.client.AnalyzeSpec(r.Context(), pdf, edi)
	if callErr != nil {
		common.Logger(r).Warn("analysis failed", slog.String("error", callErr.Error()))
		p = analyzer.ErrorPayload(callErr, analyzer.MsgAnalyzeFailed)
	}

	id := ""
	if callErr == nil {
		id = h.save(r, core.NewAnalysis(core.AnalysisKindAnalyze, pdf.Name, fileName(edi), p))
	}

	var view common.WorkspaceView
	ws.Do(func(ws *workspace.Workspace) {
		ws.Show(core.AnalysisKindAnalyze, p, id, true)
		view = common.Capture(ws)
	})

	if err := common.PatchResults(sse, view); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	target := components.ResultsPaneID
	for _, s := range view.Tables {
		if s.Open {
			target = components.TablesID
			break
		}
	}
	_ = common.ScrollIntoView(sse, target)
}

// Sample runs the service's built-in test sample. Only the raw pane is
// shown.
func (h *Handlers) Sample(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	p, callErr := h.client.TestSpec(r.Context())
	if callErr != nil {
		common.Logger(r).Warn("test sample failed", slog.String("error", callErr.Error()))
		p = analyzer.ErrorPayload(callErr, analyzer.MsgSampleFailed)
	}
	h.showRaw(r, sse, ws, core.AnalysisKindSample, p, callErr == nil, "", "")
}

// DebugFilter asks the service which PDF lines pass its segment filter.
func (h *Handlers) DebugFilter(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}

	form, formErr := h.parseUploads(w, r)
	defer form.close()

	sse := datastar.NewSSE(w, r)
	if formErr != "" {
		_ = common.Alert(sse, formErr)
		return
	}
	pdf := form.file(analyzer.FieldPDF)
	if pdf == nil {
		_ = common.Alert(sse, msgSelectDebugPDF)
		return
	}

	p, callErr := h.client.DebugFilter(r.Context(), pdf)
	if callErr != nil {
		common.Logger(r).Warn("debug filter failed", slog.String("error", callErr.Error()))
		p = analyzer.ErrorPayload(callErr, analyzer.MsgDebugFailed)
	}
	h.showRaw(r, sse, ws, core.AnalysisKindDebug, p, callErr == nil, pdf.Name, "")
}

// HideResults closes the raw results pane.
func (h *Handlers) HideResults(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.Workspace(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	var pane workspace.Pane
	ws.Do(func(ws *workspace.Workspace) {
		ws.HidePane()
		pane = ws.Pane
	})
	if err := sse.PatchElementTempl(components.ResultsPane(pane)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) showRaw(
	r *http.Request,
	sse *datastar.ServerSentEventGenerator,
	ws *workspace.Workspace,
	kind core.AnalysisKind,
	p *core.Payload,
	succeeded bool,
	pdfName, ediName string,
) {
	id := ""
	if succeeded {
		id = h.save(r, core.NewAnalysis(kind, pdfName, ediName, p))
	}

	var view common.WorkspaceView
	ws.Do(func(ws *workspace.Workspace) {
		ws.Show(kind, p, id, false)
		view = common.Capture(ws)
	})

	if err := common.PatchResults(sse, view); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = common.ScrollIntoView(sse, components.ResultsPaneID)
}

// save archives a and announces it. Failures are logged and the analysis
// is shown unsaved.
func (h *Handlers) save(r *http.Request, a *core.Analysis) string {
	if h.store == nil {
		return ""
	}
	if err := h.store.SaveAnalysis(r.Context(), a); err != nil {
		common.Logger(r).Error("save analysis", slog.String("error", err.Error()))
		return ""
	}
	h.notifier.Broadcast(notifier.EventHistory)
	return a.ID
}

type uploads struct {
	form   *multipart.Form
	opened []multipart.File
}

// parseUploads reads the multipart form. The returned message is the
// alert to show when the form is unusable.
func (h *Handlers) parseUploads(w http.ResponseWriter, r *http.Request) (*uploads, string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	err := r.ParseMultipartForm(h.maxUpload)

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return &uploads{form: r.MultipartForm}, ""
	case errors.Is(err, http.ErrNotMultipart):
		return &uploads{}, ""
	case errors.As(err, &tooLarge):
		return &uploads{}, msgUploadTooLarge
	default:
		common.Logger(r).Warn("parse upload", slog.String("error", err.Error()))
		return &uploads{}, msgBadUpload
	}
}

// file returns the named upload, or nil when none was selected.
func (u *uploads) file(field string) *analyzer.File {
	if u.form == nil {
		return nil
	}
	headers := u.form.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil
	}
	u.opened = append(u.opened, f)
	return &analyzer.File{Name: headers[0].Filename, Body: f}
}

func (u *uploads) close() {
	for _, f := range u.opened {
		_ = f.Close()
	}
	if u.form != nil {
		_ = u.form.RemoveAll()
	}
}

func fileName(f *analyzer.File) string {
	if f == nil {
		return ""
	}
	return f.Name
}
