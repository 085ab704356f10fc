package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a service response is not a JSON object.
var ErrMalformedPayload = errors.New("malformed analysis payload")

// Payload is a decoded analysis service response.
//
// Only the shape is validated. Sections that are missing or of the wrong
// type are treated as "nothing to show" and noted in Warnings.
type Payload struct {
	Message         string       `json:"message,omitempty"`
	Error           string       `json:"error,omitempty"`
	TotalLines      int          `json:"total_lines,omitempty"`
	ChunksProcessed int          `json:"chunks_processed,omitempty"`
	SegmentsInEDI   []string     `json:"segments_in_edi,omitempty"`
	TotalElements   int          `json:"total_elements,omitempty"`
	TabularData     []SegmentRow `json:"tabular_data,omitempty"`
	EDIElements     []ElementRow `json:"edi_elements,omitempty"`

	HasSegments bool            `json:"-"`
	HasElements bool            `json:"-"`
	Warnings    []string        `json:"-"`
	Raw         json.RawMessage `json:"-"`
}

// DecodePayload decodes a service response body.
func DecodePayload(data []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, ErrMalformedPayload
	}

	p := &Payload{Raw: append(json.RawMessage(nil), data...)}
	decodeField(p, fields, "message", &p.Message)
	decodeField(p, fields, "error", &p.Error)
	decodeField(p, fields, "total_lines", &p.TotalLines)
	decodeField(p, fields, "chunks_processed", &p.ChunksProcessed)
	decodeField(p, fields, "segments_in_edi", &p.SegmentsInEDI)
	decodeField(p, fields, "total_elements", &p.TotalElements)

	p.TabularData, p.HasSegments = decodeRows[SegmentRow](p, fields, "tabular_data")
	p.EDIElements, p.HasElements = decodeRows[ElementRow](p, fields, "edi_elements")

	return p, nil
}

// NewErrorPayload builds the error-shaped payload shown when a call fails.
func NewErrorPayload(errMsg, message string) *Payload {
	p := &Payload{Error: errMsg, Message: message}
	raw, _ := json.Marshal(struct {
		Error   string `json:"error"`
		Message string `json:"message,omitempty"`
	}{errMsg, message})
	p.Raw = raw
	return p
}

// Failed reports whether the payload carries an error.
func (p *Payload) Failed() bool {
	return p != nil && p.Error != ""
}

// Pretty returns the raw payload as indented JSON.
func (p *Payload) Pretty() string {
	if p == nil {
		return ""
	}
	raw := p.Raw
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(p); err != nil {
			return ""
		}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func decodeField[T any](p *Payload, fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%s: ignored: %v", key, err))
	}
}

// decodeRows decodes an array section row by row. The second result
// reports whether the section was present as an array.
func decodeRows[T any](p *Payload, fields map[string]json.RawMessage, key string) ([]T, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%s: not an array, section ignored", key))
		return nil, false
	}

	rows := make([]T, 0, len(items))
	for i, item := range items {
		var row T
		if err := json.Unmarshal(item, &row); err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s[%d]: row skipped: %v", key, i, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, true
}
