package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/halcyon-foods/returns-ingest/internal/reader"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

// dateLayouts covers the formats branch offices actually put in the date
// columns. Tried in order; first match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Coerce converts a raw table to the registry's column set and types.
// Coercion is per cell and independent: a cell that fails to parse becomes
// the absent marker and yields one finding, the row is never dropped.
// Columns missing from the source yield one source-level missing_column
// finding each and are filled with the absent marker; raw columns not in
// the registry are dropped.
func Coerce(raw reader.RawTable, reg *schema.Registry, source string) (Table, []Finding) {
	var findings []Finding

	columnIndex := make(map[string]int, len(raw.Headers))
	for idx, header := range raw.Headers {
		columnIndex[header] = idx
	}

	columns := reg.Columns()
	for _, col := range columns {
		if _, ok := columnIndex[col.Name]; !ok {
			findings = append(findings, Finding{
				Source: source,
				Column: col.Name,
				Kind:   FindingMissingColumn,
			})
		}
	}

	table := Table{
		Source:  source,
		Columns: reg.ColumnNames(),
		Rows:    make([]Row, 0, len(raw.Rows)),
	}

	for rowIdx, rawRow := range raw.Rows {
		rowNumber := rowIdx + 2 // header is row 1
		cells := make(map[string]Cell, len(columns))
		var rowFindings []Finding

		for _, col := range columns {
			idx, ok := columnIndex[col.Name]
			if !ok || idx >= len(rawRow) {
				cells[col.Name] = Absent()
				continue
			}

			value := rawRow[idx]
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				cells[col.Name] = Absent()
				continue
			}

			cell, kind := coerceCell(col.Type, value, trimmed)
			cells[col.Name] = cell
			if kind != "" {
				number := rowNumber
				rowFindings = append(rowFindings, Finding{
					Source: source,
					Row:    &number,
					Column: col.Name,
					Kind:   kind,
					Value:  trimmed,
				})
			}
		}

		plant := cells[schema.ColumnPlant].String()
		for i := range rowFindings {
			rowFindings[i].Plant = plant
		}
		findings = append(findings, rowFindings...)

		table.Rows = append(table.Rows, Row{Source: source, Number: rowNumber, Cells: cells})
	}

	return table, findings
}

// coerceCell converts one non-blank raw value. It returns the coerced cell
// and, on failure, the finding kind; the cell is then the absent marker.
func coerceCell(colType schema.ColumnType, value, trimmed string) (Cell, FindingKind) {
	switch colType {
	case schema.TypeDate:
		if ts, ok := parseDate(trimmed); ok {
			return Date(ts), ""
		}
		return Absent(), FindingBadDate
	case schema.TypeDecimal:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Decimal(f), ""
		}
		return Absent(), FindingBadFloat
	case schema.TypeInteger:
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Integer(i), ""
		}
		// Accept float representations that convert losslessly to int.
		// The upper bound is exclusive: float64(MaxInt64) rounds up to
		// 2^63, which overflows the conversion.
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && math.Mod(f, 1) == 0 &&
			f >= math.MinInt64 && f < math.MaxInt64 {
			return Integer(int64(f)), ""
		}
		return Absent(), FindingBadInt
	default:
		// Text and categorical values pass through unchanged; categorical
		// membership is a row validation concern, not a coercion one.
		return Text(value), ""
	}
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
