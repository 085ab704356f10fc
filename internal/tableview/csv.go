package tableview

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// WriteCSV writes a header and records as CSV with LF line endings.
// Fields holding a comma, quote, line break or leading space are quoted.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// EncodeCSV is WriteCSV into a byte slice.
func EncodeCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, header, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename returns "{prefix}-{YYYY-MM-DD}.csv" for the local date of now.
func ExportFilename(prefix string, now time.Time) string {
	return prefix + "-" + now.Local().Format(time.DateOnly) + ".csv"
}

// SaveExport writes e into dir and returns the file path. The file is
// written to a temporary name and renamed into place.
func SaveExport(dir string, e Export) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, e.Filename)
	tmp, err := os.CreateTemp(dir, "."+e.Filename+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(e.Data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}
	return path, nil
}
