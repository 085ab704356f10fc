package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Requirement is the X12 standard's requirement for a segment.
type Requirement string

// X12 requirement values.
const (
	RequirementMandatory Requirement = "mandatory"
	RequirementOptional  Requirement = "optional"
)

// Label returns the display form, "unknown" when the service left it blank.
func (r Requirement) Label() string {
	if r == "" {
		return "unknown"
	}
	return string(r)
}

// CompanyUsage is the business usage policy for a segment.
type CompanyUsage string

// Company usage values.
const (
	UsageMustUse     CompanyUsage = "must_use"
	UsageUsed        CompanyUsage = "used"
	UsageConditional CompanyUsage = "conditional"
	UsageNotUsed     CompanyUsage = "not_used"
)

// Label returns the display form, "unknown" when the service left it blank.
func (u CompanyUsage) Label() string {
	if u == "" {
		return "unknown"
	}
	return string(u)
}

// NotAvailable is the display form of a missing usage count.
const NotAvailable = "N/A"

// Usage is an optional min/max usage count.
//
// The service reports a missing count as null or as the string "N/A";
// both decode to an invalid Usage.
type Usage struct {
	Value int
	Valid bool
}

// UsageOf returns a valid Usage holding n.
func UsageOf(n int) Usage {
	return Usage{Value: n, Valid: true}
}

// String returns the count, or "N/A" when missing.
func (u Usage) String() string {
	if !u.Valid {
		return NotAvailable
	}
	return strconv.Itoa(u.Value)
}

// MarshalJSON encodes a missing count as null.
func (u Usage) MarshalJSON() ([]byte, error) {
	if !u.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(u.Value)), nil
}

// MarshalYAML encodes a missing count as null.
func (u Usage) MarshalYAML() (any, error) {
	if !u.Valid {
		return nil, nil
	}
	return u.Value, nil
}

// UnmarshalJSON accepts a number, null, or a string. Strings that do not
// hold an integer ("N/A", "") and numbers that are not integers or are
// too large to be a count decode as missing.
func (u *Usage) UnmarshalJSON(data []byte) error {
	*u = Usage{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*u = UsageOf(n)
		}
		return nil
	}

	if n, err := strconv.Atoi(string(data)); err == nil {
		*u = UsageOf(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactCount {
		*u = UsageOf(int(f))
	}
	return nil
}

// maxExactCount bounds counts written in float notation ("3.0", "1e3") to
// integers a float64 holds exactly.
const maxExactCount = 1 << 53

// SegmentRow is one row of the segment analysis table.
type SegmentRow struct {
	SegmentTag     string       `json:"segment_tag" yaml:"segment_tag"`
	X12Requirement Requirement  `json:"x12_requirement" yaml:"x12_requirement"`
	CompanyUsage   CompanyUsage `json:"company_usage" yaml:"company_usage"`
	MinUsage       Usage        `json:"min_usage" yaml:"min_usage"`
	MaxUsage       Usage        `json:"max_usage" yaml:"max_usage"`
	PresentInEDI   bool         `json:"present_in_edi" yaml:"present_in_edi"`
	Status         string       `json:"status" yaml:"status"`
}

// EmptyElementValue is the service's sentinel for a blank element.
const EmptyElementValue = "(empty)"

// ElementRow is one row of the EDI element breakdown table.
type ElementRow struct {
	LineNumber         int    `json:"line_number" yaml:"line_number"`
	SegmentTag         string `json:"segment_tag" yaml:"segment_tag"`
	ElementPosition    string `json:"element_position" yaml:"element_position"`
	ElementCode        string `json:"element_code" yaml:"element_code"`
	ElementValue       string `json:"element_value" yaml:"element_value"`
	ElementDescription string `json:"element_description" yaml:"element_description"`
}

// IsEmpty reports whether the element carried no value.
func (e ElementRow) IsEmpty() bool {
	return e.ElementValue == EmptyElementValue || e.ElementValue == ""
}
