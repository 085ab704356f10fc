package tableview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCSV(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    string
	}{
		{name: "plain", records: [][]string{{"a", "b"}}, want: "H1,H2\na,b\n"},
		{name: "comma is quoted", records: [][]string{{"a,b", "c"}}, want: "H1,H2\n\"a,b\",c\n"},
		{name: "quote is doubled", records: [][]string{{`say "hi"`, "c"}}, want: "H1,H2\n\"say \"\"hi\"\"\",c\n"},
		{name: "newline is quoted", records: [][]string{{"a\nb", "c"}}, want: "H1,H2\n\"a\nb\",c\n"},
		{name: "leading space is quoted", records: [][]string{{" a", "c"}}, want: "H1,H2\n\" a\",c\n"},
		{name: "no records", records: nil, want: "H1,H2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeCSV([]string{"H1", "H2"}, tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.Local)
	assert.Equal(t, "edi-segment-analysis-2025-12-31.csv", ExportFilename("edi-segment-analysis", now))
}

func TestSaveExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	exp := Export{Filename: "edi-segment-analysis-2024-03-05.csv", Data: []byte("H1,H2\na,b\n")}

	path, err := SaveExport(dir, exp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, exp.Filename), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, exp.Data, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not remain")

	// overwrite in place
	exp.Data = []byte("H1,H2\nc,d\n")
	_, err = SaveExport(dir, exp)
	require.NoError(t, err)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "H1,H2\nc,d\n", string(got))
}
