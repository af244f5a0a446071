package ingest

import (
	"strconv"
	"time"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellInteger
	CellDecimal
	CellDate
)

const dateLayout = "2006-01-02"

// Cell is a coerced table value: either the absent marker or one of the
// schema's semantic types. The absent marker is distinct from empty text.
type Cell struct {
	kind CellKind
	text string
	i    int64
	f    float64
	t    time.Time
}

// Absent returns the canonical "no value" cell.
func Absent() Cell { return Cell{kind: CellAbsent} }

// Text wraps a text or categorical value.
func Text(value string) Cell { return Cell{kind: CellText, text: value} }

// Integer wraps an integer value.
func Integer(value int64) Cell { return Cell{kind: CellInteger, i: value} }

// Decimal wraps a decimal value.
func Decimal(value float64) Cell { return Cell{kind: CellDecimal, f: value} }

// Date wraps a calendar date. The time component is discarded.
func Date(value time.Time) Cell {
	return Cell{kind: CellDate, t: time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)}
}

// Kind returns the variant tag.
func (c Cell) Kind() CellKind { return c.kind }

// IsAbsent reports whether the cell carries no value.
func (c Cell) IsAbsent() bool { return c.kind == CellAbsent }

// Int returns the integer value when the cell holds one.
func (c Cell) Int() (int64, bool) {
	return c.i, c.kind == CellInteger
}

// Float returns the decimal value when the cell holds one.
func (c Cell) Float() (float64, bool) {
	return c.f, c.kind == CellDecimal
}

// Time returns the date value when the cell holds one.
func (c Cell) Time() (time.Time, bool) {
	return c.t, c.kind == CellDate
}

// String renders the canonical form used in output artifacts. Absent cells
// render as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellInteger:
		return strconv.FormatInt(c.i, 10)
	case CellDecimal:
		return strconv.FormatFloat(c.f, 'f', -1, 64)
	case CellDate:
		return c.t.Format(dateLayout)
	default:
		return ""
	}
}

// Value returns the underlying value as an any, nil for absent cells.
// Used when binding cells to database parameters or worksheet rows.
func (c Cell) Value() any {
	switch c.kind {
	case CellText:
		return c.text
	case CellInteger:
		return c.i
	case CellDecimal:
		return c.f
	case CellDate:
		return c.t.Format(dateLayout)
	default:
		return nil
	}
}

// Row is one coerced record tagged with its provenance.
type Row struct {
	Source string
	Number int // 1-based sheet row; the header is row 1, first data row 2
	Cells  map[string]Cell
}

// Table is an ordered sequence of coerced rows from one source, or the
// merged master dataset when Source is empty.
type Table struct {
	Source  string
	Columns []string
	Rows    []Row
}
