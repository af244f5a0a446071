package ingest

import (
	"github.com/halcyon-foods/returns-ingest/internal/reader"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

// rawTable builds a RawTable with the registry's full header set from
// name->value row maps; unnamed columns stay blank.
func rawTable(reg *schema.Registry, rows ...map[string]string) reader.RawTable {
	headers := reg.ColumnNames()
	index := make(map[string]int, len(headers))
	for i, name := range headers {
		index[name] = i
	}

	table := reader.RawTable{Headers: headers}
	for _, values := range rows {
		row := make([]string, len(headers))
		for name, value := range values {
			if i, ok := index[name]; ok {
				row[i] = value
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// validRow covers every schema column with a value that coerces and
// validates cleanly.
func validRow() map[string]string {
	return map[string]string{
		"Plant":                 "Plant1",
		"Plant Code":            "12",
		"Date Delivered":        "2024-03-05",
		"Date Returned":         "2024-03-08",
		"Customer":              "Seaside Hotel",
		"Customer Category":     "Hotels",
		"Product":               "Chicken Breast",
		"Product Code":          "CB-100",
		"Total Delivered (kgs)": "120.5",
		"Total Returned (kgs)":  "4.25",
		"Reason of Return":      "Damaged packaging",
		"Return Category":       "Damaged",
		"Accountability":        "Logistics",
		"Validation":            "Valid",
		"Remarks":               "double-checked at gate",
	}
}

func findingsOfKind(findings []Finding, kind FindingKind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
