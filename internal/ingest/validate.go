package ingest

import (
	"strings"

	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

// Validate applies the row-level business rules to a coerced table. It is a
// pure observer: it never mutates or drops rows, it only reports findings.
//
// Rules, in emission order per row:
//   - every non-optional column holding the absent marker -> missing_value
//   - a present Validation value outside its allowed set -> invalid_value
//   - an absent or blank Reason of Return -> missing_reason
//
// A blank reason therefore emits both missing_value and missing_reason.
// The two checks were specified independently and the duplication keeps the
// error categories specific; candidate for consolidation.
func Validate(table Table, reg *schema.Registry) []Finding {
	var findings []Finding

	validationCol, hasValidation := reg.Lookup(schema.ColumnValidation)

	for _, row := range table.Rows {
		number := row.Number
		plant := row.Cells[schema.ColumnPlant].String()

		for _, col := range reg.Columns() {
			if col.Optional {
				continue
			}
			if row.Cells[col.Name].IsAbsent() {
				findings = append(findings, Finding{
					Source: table.Source,
					Plant:  plant,
					Row:    &number,
					Column: col.Name,
					Kind:   FindingMissingValue,
				})
			}
		}

		if hasValidation {
			if cell := row.Cells[schema.ColumnValidation]; !cell.IsAbsent() {
				if !validationCol.AllowsValue(cell.String()) {
					findings = append(findings, Finding{
						Source: table.Source,
						Plant:  plant,
						Row:    &number,
						Column: schema.ColumnValidation,
						Kind:   FindingInvalidValue,
						Value:  cell.String(),
					})
				}
			}
		}

		reason := row.Cells[schema.ColumnReason]
		if reason.IsAbsent() || strings.TrimSpace(reason.String()) == "" {
			findings = append(findings, Finding{
				Source: table.Source,
				Plant:  plant,
				Row:    &number,
				Column: schema.ColumnReason,
				Kind:   FindingMissingReason,
				Value:  reason.String(),
			})
		}
	}

	return findings
}
