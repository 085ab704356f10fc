package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	body := `{
		"message": "Analysis complete",
		"total_lines": 12,
		"chunks_processed": 3,
		"segments_in_edi": ["ISA", "NM1"],
		"total_elements": 2,
		"tabular_data": [
			{"segment_tag":"NM1","x12_requirement":"mandatory","company_usage":"must_use","min_usage":1,"max_usage":"N/A","present_in_edi":true,"status":"✓ Present"}
		],
		"edi_elements": [
			{"line_number":1,"segment_tag":"ISA","element_position":"01","element_code":"I01","element_value":"00","element_description":"Auth"}
		]
	}`

	p, err := DecodePayload([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "Analysis complete", p.Message)
	assert.Equal(t, 12, p.TotalLines)
	assert.Equal(t, 3, p.ChunksProcessed)
	assert.Equal(t, []string{"ISA", "NM1"}, p.SegmentsInEDI)
	assert.True(t, p.HasSegments)
	assert.True(t, p.HasElements)
	assert.Empty(t, p.Warnings)
	assert.False(t, p.Failed())

	require.Len(t, p.TabularData, 1)
	seg := p.TabularData[0]
	assert.Equal(t, RequirementMandatory, seg.X12Requirement)
	assert.Equal(t, UsageMustUse, seg.CompanyUsage)
	assert.Equal(t, UsageOf(1), seg.MinUsage)
	assert.False(t, seg.MaxUsage.Valid)

	require.Len(t, p.EDIElements, 1)
	assert.Equal(t, "I01", p.EDIElements[0].ElementCode)
	assert.JSONEq(t, body, string(p.Raw))
}

func TestDecodePayload_Tolerant(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		hasSegments  bool
		hasElements  bool
		segments     int
		elements     int
		warnings     int
		errorMessage string
	}{
		{name: "empty object", body: `{}`},
		{name: "error shape", body: `{"error":"No PDF file provided"}`, errorMessage: "No PDF file provided"},
		{name: "empty sections", body: `{"tabular_data":[],"edi_elements":[]}`, hasSegments: true, hasElements: true},
		{name: "section of wrong type", body: `{"tabular_data":{"a":1},"edi_elements":"x"}`, warnings: 2},
		{name: "null section", body: `{"tabular_data":null}`, warnings: 1},
		{name: "bad row skipped", body: `{"edi_elements":[{"line_number":"one"},{"line_number":4}]}`, hasElements: true, elements: 1, warnings: 1},
		{name: "bad scalar ignored", body: `{"total_lines":"many","tabular_data":[{}]}`, hasSegments: true, segments: 1, warnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.hasSegments, p.HasSegments)
			assert.Equal(t, tt.hasElements, p.HasElements)
			assert.Len(t, p.TabularData, tt.segments)
			assert.Len(t, p.EDIElements, tt.elements)
			assert.Len(t, p.Warnings, tt.warnings)
			assert.Equal(t, tt.errorMessage, p.Error)
		})
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	for _, body := range []string{``, `[]`, `"text"`, `null`, `<html>`} {
		_, err := DecodePayload([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedPayload, body)
	}
}

func TestNewErrorPayload(t *testing.T) {
	p := NewErrorPayload("connection refused", "Failed to analyze files.")
	assert.True(t, p.Failed())
	assert.False(t, p.HasSegments)
	assert.JSONEq(t, `{"error":"connection refused","message":"Failed to analyze files."}`, string(p.Raw))
	assert.Contains(t, p.Pretty(), "\n  \"error\"")
}

func TestPayload_Pretty(t *testing.T) {
	p, err := DecodePayload([]byte(`{"message":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"message\": \"hi\"\n}", p.Pretty())

	var nilPayload *Payload
	assert.Empty(t, nilPayload.Pretty())
}

func TestDecodePayload_HugeUsageIsMissing(t *testing.T) {
	p, err := DecodePayload([]byte(`{"tabular_data":[{"segment_tag":"NM1","min_usage":1e300,"max_usage":4}]}`))
	require.NoError(t, err)
	require.Len(t, p.TabularData, 1)
	assert.False(t, p.TabularData[0].MinUsage.Valid)
	assert.Equal(t, NotAvailable, p.TabularData[0].MinUsage.String())
	assert.Equal(t, UsageOf(4), p.TabularData[0].MaxUsage)
}

func TestUsage_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want Usage
	}{
		{in: `3`, want: UsageOf(3)},
		{in: `0`, want: UsageOf(0)},
		{in: `null`, want: Usage{}},
		{in: `"N/A"`, want: Usage{}},
		{in: `""`, want: Usage{}},
		{in: `"7"`, want: UsageOf(7)},
		{in: `2.0`, want: UsageOf(2)},
		{in: `1e3`, want: UsageOf(1000)},
		{in: `2.5`, want: Usage{}},
		{in: `1e300`, want: Usage{}},
		{in: `-1e300`, want: Usage{}},
		{in: `99999999999999999999`, want: Usage{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var u Usage
			require.NoError(t, json.Unmarshal([]byte(tt.in), &u))
			assert.Equal(t, tt.want, u)
		})
	}

	var u Usage
	assert.Error(t, json.Unmarshal([]byte(`true`), &u))

	out, err := json.Marshal(SegmentRow{MinUsage: UsageOf(0)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"min_usage":0`)
	assert.Contains(t, string(out), `"max_usage":null`)
}

func TestUsage_String(t *testing.T) {
	assert.Equal(t, "N/A", Usage{}.String())
	assert.Equal(t, "0", UsageOf(0).String())
	assert.Equal(t, "42", UsageOf(42).String())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "unknown", Requirement("").Label())
	assert.Equal(t, "optional", RequirementOptional.Label())
	assert.Equal(t, "unknown", CompanyUsage("").Label())
	assert.Equal(t, "not_used", UsageNotUsed.Label())
}

func TestElementRow_IsEmpty(t *testing.T) {
	assert.True(t, ElementRow{ElementValue: "(empty)"}.IsEmpty())
	assert.True(t, ElementRow{}.IsEmpty())
	assert.False(t, ElementRow{ElementValue: "ZZ"}.IsEmpty())
}

func TestNewAnalysis(t *testing.T) {
	p, err := DecodePayload([]byte(`{"message":"done","tabular_data":[{},{}],"edi_elements":[{}]}`))
	require.NoError(t, err)

	a := NewAnalysis(AnalysisKindAnalyze, "spec.pdf", "claim.edi", p)
	assert.Equal(t, AnalysisKindAnalyze, a.Kind)
	assert.Equal(t, "spec.pdf", a.PDFName)
	assert.Equal(t, "done", a.Message)
	assert.Equal(t, 2, a.SegmentCount)
	assert.Equal(t, 1, a.ElementCount)
	assert.JSONEq(t, string(p.Raw), string(a.Payload))
}
