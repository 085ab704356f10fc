// Package analyzer is the HTTP client for the external EDI analysis service.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leapstack-labs/edilens/pkg/core"
)

// Service endpoints.
const (
	PathAnalyzeSpec = "/analyze-spec"
	PathTestSpec    = "/test-spec"
	PathDebugFilter = "/debug-filter"
)

// Multipart field names.
const (
	FieldPDF = "pdf"
	FieldEDI = "edi_data"
)

// Messages shown next to an error-shaped payload.
const (
	MsgAnalyzeFailed = "Failed to analyze files. Please check the files and try again."
	MsgSampleFailed  = "Failed to run test sample. Please try again."
	MsgDebugFailed   = "Failed to debug filter. Please check the file and try again."
)

const maxResponseBytes = 64 << 20

// ErrMissingPDF is returned when no PDF specification was provided.
var ErrMissingPDF = errors.New("please select a PDF specification file first")

// File is an upload.
type File struct {
	Name string
	Body io.Reader
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client calls the analysis service.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client. The base URL must be absolute http or https.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid analyzer base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid analyzer base url %q: must be http(s)://host", cfg.BaseURL)
	}

	c := &Client{
		base:    base,
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// AnalyzeSpec uploads a PDF specification and, optionally, EDI data.
func (c *Client) AnalyzeSpec(ctx context.Context, pdf, edi *File) (*core.Payload, error) {
	if pdf == nil || pdf.Body == nil {
		return nil, ErrMissingPDF
	}
	files := map[string]*File{FieldPDF: pdf}
	if edi != nil && edi.Body != nil {
		files[FieldEDI] = edi
	}
	body, contentType, err := encodeMultipart(files)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, PathAnalyzeSpec, contentType, body)
}

// TestSpec runs the service's built-in sample.
func (c *Client) TestSpec(ctx context.Context) (*core.Payload, error) {
	return c.post(ctx, PathTestSpec, "application/json", nil)
}

// DebugFilter asks the service which PDF lines pass its segment filter.
func (c *Client) DebugFilter(ctx context.Context, pdf *File) (*core.Payload, error) {
	if pdf == nil || pdf.Body == nil {
		return nil, ErrMissingPDF
	}
	body, contentType, err := encodeMultipart(map[string]*File{FieldPDF: pdf})
	if err != nil {
		return nil, err
	}
	return c.post(ctx, PathDebugFilter, contentType, body)
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*core.Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.base.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	c.logger.Debug("analysis service call",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)))

	payload, decodeErr := core.DecodePayload(data)
	if decodeErr != nil {
		return nil, &ServiceError{
			Status:  resp.StatusCode,
			Message: bodyText(resp.Header.Get("Content-Type"), data, resp.StatusCode),
		}
	}
	for _, w := range payload.Warnings {
		c.logger.Warn("analysis payload", slog.String("path", path), slog.String("warning", w))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return payload, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	return payload, nil
}

func encodeMultipart(files map[string]*File) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	// fixed order keeps requests reproducible
	for _, field := range []string{FieldPDF, FieldEDI} {
		f, ok := files[field]
		if !ok {
			continue
		}
		part, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create %s part: %w", field, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, "", fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
