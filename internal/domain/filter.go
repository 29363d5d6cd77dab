package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FilterKind tags the variant of a FilterDescriptor.
type FilterKind string

const (
	FilterKindText    FilterKind = "text"
	FilterKindNumber  FilterKind = "number"
	FilterKindDate    FilterKind = "date"
	FilterKindSet     FilterKind = "set"
	FilterKindUnknown FilterKind = ""
)

// Filter operators shared by the text and number variants. Not every
// operator applies to every kind; the predicate builder ignores combinations
// that make no sense, mirroring the grid widget's behavior.
const (
	OpEquals             = "equals"
	OpNotEqual           = "notEqual"
	OpContains           = "contains"
	OpStartsWith         = "startsWith"
	OpEndsWith           = "endsWith"
	OpLessThan           = "lessThan"
	OpLessThanOrEqual    = "lessThanOrEqual"
	OpGreaterThan        = "greaterThan"
	OpGreaterThanOrEqual = "greaterThanOrEqual"
	OpInRange            = "inRange"
)

// FilterDescriptor is the closed union over the per-column filter shapes the
// grid client sends. The raw wire format is an untyped object keyed by
// "filterType"; it is parsed into this tagged form once, at the JSON
// boundary, so the query layer never handles loose maps. A descriptor with
// an unrecognized filterType keeps Kind == FilterKindUnknown and contributes
// nothing to the query.
type FilterDescriptor struct {
	Kind FilterKind
	Op   string

	// text variant
	Text string

	// number variant; nil means the bound was not supplied
	Number   *float64
	NumberTo *float64

	// date variant; raw strings, parsed by the predicate builder's cascade
	DateFrom string
	DateTo   string

	// set variant
	Values []string
}

type filterDescriptorWire struct {
	FilterType string          `json:"filterType"`
	Type       string          `json:"type"`
	Filter     json.RawMessage `json:"filter"`
	FilterTo   json.RawMessage `json:"filterTo"`
	DateFrom   string          `json:"dateFrom"`
	DateTo     string          `json:"dateTo"`
	Values     []string        `json:"values"`
}

// UnmarshalJSON parses the grid widget's untyped filter object into the
// tagged union. Malformed operands degrade to the zero value for their slot
// rather than failing the whole request; a missing operand simply yields no
// predicate later.
func (d *FilterDescriptor) UnmarshalJSON(data []byte) error {
	var w filterDescriptorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*d = FilterDescriptor{Op: w.Type}

	switch w.FilterType {
	case "text":
		d.Kind = FilterKindText
		d.Text = decodeFilterString(w.Filter)
	case "number":
		d.Kind = FilterKindNumber
		d.Number = decodeFilterNumber(w.Filter)
		d.NumberTo = decodeFilterNumber(w.FilterTo)
	case "date":
		d.Kind = FilterKindDate
		d.DateFrom = w.DateFrom
		d.DateTo = w.DateTo
	case "set":
		d.Kind = FilterKindSet
		d.Values = w.Values
	default:
		d.Kind = FilterKindUnknown
	}
	return nil
}

// decodeFilterString accepts a JSON string or scalar and renders it as text.
func decodeFilterString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// decodeFilterNumber accepts a JSON number or a numeric string.
func decodeFilterNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			return &parsed
		}
	}
	return nil
}
