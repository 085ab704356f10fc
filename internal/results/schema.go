// Package results defines the segment analysis and element breakdown
// tables built from an analysis payload.
package results

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/edilens/internal/tableview"
	"github.com/leapstack-labs/edilens/pkg/core"
)

// Table names.
const (
	SegmentsName = "segments"
	ElementsName = "elements"
)

// CSV filename prefixes.
const (
	SegmentsPrefix = "edi-segment-analysis"
	ElementsPrefix = "edi-elements-breakdown"
)

// Presence filter values.
const (
	PresencePresent = "present"
	PresenceMissing = "missing"
)

// SegmentSchema is the segment analysis table.
func SegmentSchema() tableview.Schema[core.SegmentRow] {
	return tableview.Schema[core.SegmentRow]{
		Name: SegmentsName,
		Noun: "segments",
		Columns: []tableview.Column[core.SegmentRow]{
			{
				Key: "segment_tag", Header: "Segment Tag", Searchable: true,
				Text: func(r core.SegmentRow) string { return r.SegmentTag },
			},
			{
				Key: "x12_requirement", Header: "X12 Requirement", Searchable: true,
				Text:  func(r core.SegmentRow) string { return r.X12Requirement.Label() },
				Class: func(r core.SegmentRow) string { return "requirement-" + className(r.X12Requirement.Label()) },
			},
			{
				Key: "company_usage", Header: "Company Usage", Searchable: true,
				Text:  func(r core.SegmentRow) string { return r.CompanyUsage.Label() },
				Class: func(r core.SegmentRow) string { return "usage-" + className(r.CompanyUsage.Label()) },
			},
			{
				Key: "min_usage", Header: "Min Usage", Kind: tableview.KindNumber,
				Text:   func(r core.SegmentRow) string { return r.MinUsage.String() },
				Number: func(r core.SegmentRow) (float64, bool) { return usageNumber(r.MinUsage) },
			},
			{
				Key: "max_usage", Header: "Max Usage", Kind: tableview.KindNumber,
				Text:   func(r core.SegmentRow) string { return r.MaxUsage.String() },
				Number: func(r core.SegmentRow) (float64, bool) { return usageNumber(r.MaxUsage) },
			},
			{
				Key: "present_in_edi", Header: "Present in EDI", Kind: tableview.KindBool,
				Text: func(r core.SegmentRow) string { return yesNo(r.PresentInEDI) },
				Bool: func(r core.SegmentRow) bool { return r.PresentInEDI },
			},
			{
				Key: "status", Header: "Status", Searchable: true,
				Text:  func(r core.SegmentRow) string { return r.Status },
				Class: func(r core.SegmentRow) string { return presenceClass(r.PresentInEDI) },
			},
		},
		Filters: []tableview.Filter[core.SegmentRow]{
			{
				Key:   "requirement",
				Label: "All Requirements",
				Static: []tableview.Option{
					{Value: string(core.RequirementMandatory), Label: "Mandatory"},
					{Value: string(core.RequirementOptional), Label: "Optional"},
				},
				Match: func(r core.SegmentRow, v string) bool { return string(r.X12Requirement) == v },
			},
			{
				Key:   "usage",
				Label: "All Usage",
				Static: []tableview.Option{
					{Value: string(core.UsageMustUse), Label: "Must Use"},
					{Value: string(core.UsageUsed), Label: "Used"},
					{Value: string(core.UsageConditional), Label: "Conditional"},
					{Value: string(core.UsageNotUsed), Label: "Not Used"},
				},
				Match: func(r core.SegmentRow, v string) bool { return string(r.CompanyUsage) == v },
			},
			{
				Key:   "presence",
				Label: "All Segments",
				Static: []tableview.Option{
					{Value: PresencePresent, Label: "Present in EDI"},
					{Value: PresenceMissing, Label: "Missing from EDI"},
				},
				Match: func(r core.SegmentRow, v string) bool {
					return (v == PresencePresent && r.PresentInEDI) || (v == PresenceMissing && !r.PresentInEDI)
				},
			},
		},
	}
}

// ElementSchema is the EDI element breakdown table.
func ElementSchema() tableview.Schema[core.ElementRow] {
	return tableview.Schema[core.ElementRow]{
		Name: ElementsName,
		Noun: "elements",
		Columns: []tableview.Column[core.ElementRow]{
			{
				Key: "line_number", Header: "Line #", Kind: tableview.KindNumber,
				Text:   func(r core.ElementRow) string { return strconv.Itoa(r.LineNumber) },
				Number: func(r core.ElementRow) (float64, bool) { return float64(r.LineNumber), true },
			},
			{
				Key: "segment_tag", Header: "Segment", Searchable: true,
				Text: func(r core.ElementRow) string { return r.SegmentTag },
			},
			{
				Key: "element_position", Header: "Position", Searchable: true,
				Text: func(r core.ElementRow) string { return r.ElementPosition },
			},
			{
				Key: "element_code", Header: "Element Code", Searchable: true,
				Text: func(r core.ElementRow) string { return r.ElementCode },
			},
			{
				Key: "element_value", Header: "Value", Searchable: true,
				Text: func(r core.ElementRow) string {
					if r.ElementValue == "" {
						return core.EmptyElementValue
					}
					return r.ElementValue
				},
				Class: func(r core.ElementRow) string {
					if r.IsEmpty() {
						return "empty-value"
					}
					return ""
				},
			},
			{
				Key: "element_description", Header: "Description", Searchable: true,
				Text: func(r core.ElementRow) string { return r.ElementDescription },
			},
		},
		Filters: []tableview.Filter[core.ElementRow]{
			{
				Key:   "segment",
				Label: "All Segments",
				Options: func(rows []core.ElementRow) []tableview.Option {
					return tableview.DistinctStrings(rows, func(r core.ElementRow) string { return r.SegmentTag })
				},
				Match: func(r core.ElementRow, v string) bool { return r.SegmentTag == v },
			},
			{
				Key:   "line",
				Label: "All Lines",
				Options: func(rows []core.ElementRow) []tableview.Option {
					return tableview.DistinctInts(rows,
						func(r core.ElementRow) int { return r.LineNumber },
						func(n int) string { return "Line " + strconv.Itoa(n) })
				},
				Match: func(r core.ElementRow, v string) bool { return strconv.Itoa(r.LineNumber) == v },
			},
		},
	}
}

func usageNumber(u core.Usage) (float64, bool) {
	return float64(u.Value), u.Valid
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func presenceClass(present bool) string {
	if present {
		return "status-present"
	}
	return "status-missing"
}

// className turns "must_use" into "must-use".
func className(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}
