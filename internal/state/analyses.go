package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/edilens/pkg/core"
)

const analysisColumns = `id, created_at, kind, pdf_name, edi_name, message, error, segment_count, element_count, payload`

// SaveAnalysis inserts a, assigning ID and CreatedAt when unset.
func (s *SQLStore) SaveAnalysis(ctx context.Context, a *core.Analysis) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if a.ID == "" {
		a.ID = generateID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO analyses (`+analysisColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.CreatedAt.UTC(), string(a.Kind), a.PDFName, a.EDIName, a.Message, a.Error,
		a.SegmentCount, a.ElementCount, string(a.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	s.logger.Debug("analysis saved", slog.String("id", a.ID), slog.String("kind", string(a.Kind)))
	return nil
}

// GetAnalysis retrieves an analysis by ID.
func (s *SQLStore) GetAnalysis(ctx context.Context, id string) (*core.Analysis, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+analysisColumns+` FROM analyses WHERE id = ?`), id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses returns the most recent analyses first. A limit of zero
// or less returns all of them.
func (s *SQLStore) ListAnalyses(ctx context.Context, limit int) ([]*core.Analysis, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT ` + analysisColumns + ` FROM analyses ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return out, nil
}

// DeleteAnalysis removes an analysis.
func (s *SQLStore) DeleteAnalysis(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM analyses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*core.Analysis, error) {
	var (
		a       core.Analysis
		kind    string
		payload string
	)
	err := row.Scan(&a.ID, &a.CreatedAt, &kind, &a.PDFName, &a.EDIName, &a.Message, &a.Error,
		&a.SegmentCount, &a.ElementCount, &payload)
	if err != nil {
		return nil, err
	}
	a.Kind = core.AnalysisKind(kind)
	a.Payload = []byte(payload)
	return &a, nil
}
