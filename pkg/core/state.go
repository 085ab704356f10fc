package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store lookups for an unknown analysis id.
var ErrNotFound = errors.New("analysis not found")

// AnalysisKind identifies which service endpoint produced an analysis.
type AnalysisKind string

// Analysis kinds.
const (
	AnalysisKindAnalyze AnalysisKind = "analyze"
	AnalysisKindSample  AnalysisKind = "sample"
	AnalysisKindDebug   AnalysisKind = "debug"
)

// Analysis is an archived service response.
type Analysis struct {
	ID           string
	CreatedAt    time.Time
	Kind         AnalysisKind
	PDFName      string
	EDIName      string
	Message      string
	Error        string
	SegmentCount int
	ElementCount int
	Payload      []byte // raw JSON as returned by the service
}

// NewAnalysis builds an archive record from a decoded payload.
// ID and CreatedAt are assigned by the store.
func NewAnalysis(kind AnalysisKind, pdfName, ediName string, p *Payload) *Analysis {
	a := &Analysis{
		Kind:    kind,
		PDFName: pdfName,
		EDIName: ediName,
	}
	if p == nil {
		return a
	}
	a.Message = p.Message
	a.Error = p.Error
	a.SegmentCount = len(p.TabularData)
	a.ElementCount = len(p.EDIElements)
	a.Payload = p.Raw
	return a
}

// Store defines the interface for the analysis archive.
type Store interface {
	// SaveAnalysis persists a, assigning ID and CreatedAt when unset.
	SaveAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysis(ctx context.Context, id string) (*Analysis, error)
	// ListAnalyses returns the most recent analyses first.
	ListAnalyses(ctx context.Context, limit int) ([]*Analysis, error)
	DeleteAnalysis(ctx context.Context, id string) error
	Close() error
}
