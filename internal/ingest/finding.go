package ingest

// FindingKind classifies a deviation from the schema or business rules.
type FindingKind string

const (
	// FindingReadError marks a source that could not be loaded at all.
	FindingReadError FindingKind = "read_error"
	// FindingMissingColumn marks a schema column absent from a source.
	FindingMissingColumn FindingKind = "missing_column"

	FindingBadDate  FindingKind = "bad_date"
	FindingBadFloat FindingKind = "bad_float"
	FindingBadInt   FindingKind = "bad_int"

	FindingMissingValue  FindingKind = "missing_value"
	FindingInvalidValue  FindingKind = "invalid_value"
	FindingMissingReason FindingKind = "missing_reason"
)

// Finding is one immutable diagnostic record. Row is nil for source-level
// findings (read_error, missing_column). Plant carries the row's plant as a
// provenance hint when the row is known.
type Finding struct {
	Source string      `json:"source"`
	Plant  string      `json:"plant,omitempty"`
	Row    *int        `json:"row,omitempty"`
	Column string      `json:"column,omitempty"`
	Kind   FindingKind `json:"kind"`
	Value  string      `json:"value,omitempty"`
}
