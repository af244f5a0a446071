package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

const (
	masterFileName  = "master_database.xlsx"
	ledgerFileName  = "error_report.csv"
	summaryFileName = "returns_summary.xlsx"

	masterSheet = "Master"
	dataSheet   = "Data"

	// provenance column appended after the schema columns
	sourceHeader = "Source File"
)

// Writer renders the run artifacts into the output directory. Artifacts are
// written to a temp path and renamed into place so a partial file is never
// left behind; each run fully overwrites the previous artifacts.
type Writer struct {
	dir string
}

// NewWriter ensures the output directory exists.
func NewWriter(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	return &Writer{dir: filepath.Clean(dir)}, nil
}

// WriteMaster writes the consolidated dataset workbook and returns its path.
func (w *Writer) WriteMaster(master ingest.Table) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", masterSheet); err != nil {
		return "", fmt.Errorf("rename master sheet: %w", err)
	}

	header := make([]any, 0, len(master.Columns)+1)
	for _, name := range master.Columns {
		header = append(header, name)
	}
	header = append(header, sourceHeader)
	if err := f.SetSheetRow(masterSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("write master header: %w", err)
	}

	for i, row := range master.Rows {
		values := make([]any, 0, len(master.Columns)+1)
		for _, name := range master.Columns {
			values = append(values, row.Cells[name].Value())
		}
		values = append(values, row.Source)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(masterSheet, cell, &values); err != nil {
			return "", fmt.Errorf("write master row %d: %w", i+2, err)
		}
	}

	return w.promote(f, masterFileName)
}

// WriteLedger writes the error report CSV and returns its path. Column
// layout matches what operators already work with: plant, row, column,
// issue, value, file.
func (w *Writer) WriteLedger(findings []ingest.Finding) (string, error) {
	path := filepath.Join(w.dir, ledgerFileName)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create ledger file: %w", err)
	}
	cleanup := true
	defer func() {
		if cleanup {
			_ = file.Close()
			_ = os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriter(file)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write([]string{"plant", "row", "column", "issue", "value", "file"}); err != nil {
		return "", fmt.Errorf("write ledger header: %w", err)
	}

	for _, finding := range findings {
		rowNumber := ""
		if finding.Row != nil {
			rowNumber = strconv.Itoa(*finding.Row)
		}
		record := []string{finding.Plant, rowNumber, finding.Column, string(finding.Kind), finding.Value, finding.Source}
		if err := csvWriter.Write(record); err != nil {
			return "", fmt.Errorf("write ledger row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return "", fmt.Errorf("flush ledger: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return "", fmt.Errorf("flush buffered ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return "", fmt.Errorf("promote ledger file: %w", err)
	}
	cleanup = false
	return path, nil
}

// WriteSummaryCharts writes the aggregate workbook: top 3 return reasons
// and the top 10 products by delivered kilograms, each with a bar chart.
func (w *Writer) WriteSummaryCharts(master ingest.Table) (string, error) {
	reasons := TopReasons(master, 3)
	products := ProductBreakdown(master, 10)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return "", fmt.Errorf("rename data sheet: %w", err)
	}

	reasonHeader := []any{"Reason", "Returns"}
	if err := f.SetSheetRow(dataSheet, "A1", &reasonHeader); err != nil {
		return "", fmt.Errorf("write reason header: %w", err)
	}
	for i, entry := range reasons {
		row := []any{entry.Reason, entry.Count}
		if err := f.SetSheetRow(dataSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return "", fmt.Errorf("write reason row: %w", err)
		}
	}

	productHeader := []any{"Product", "Delivered (kgs)", "Returned (kgs)"}
	if err := f.SetSheetRow(dataSheet, "D1", &productHeader); err != nil {
		return "", fmt.Errorf("write product header: %w", err)
	}
	for i, entry := range products {
		row := []any{entry.Product, entry.Delivered, entry.Returned}
		if err := f.SetSheetRow(dataSheet, fmt.Sprintf("D%d", i+2), &row); err != nil {
			return "", fmt.Errorf("write product row: %w", err)
		}
	}

	if len(reasons) > 0 {
		last := len(reasons) + 1
		err := f.AddChart(dataSheet, "H2", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, last),
			}},
			Title: []excelize.RichTextRun{{Text: "Top 3 Reasons for Returns"}},
		})
		if err != nil {
			return "", fmt.Errorf("add reasons chart: %w", err)
		}
	}

	if len(products) > 0 {
		last := len(products) + 1
		err := f.AddChart(dataSheet, "H20", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{
					Name:       fmt.Sprintf("%s!$E$1", dataSheet),
					Categories: fmt.Sprintf("%s!$D$2:$D$%d", dataSheet, last),
					Values:     fmt.Sprintf("%s!$E$2:$E$%d", dataSheet, last),
				},
				{
					Name:       fmt.Sprintf("%s!$F$1", dataSheet),
					Categories: fmt.Sprintf("%s!$D$2:$D$%d", dataSheet, last),
					Values:     fmt.Sprintf("%s!$F$2:$F$%d", dataSheet, last),
				},
			},
			Title: []excelize.RichTextRun{{Text: "Delivered vs Returned by Product"}},
		})
		if err != nil {
			return "", fmt.Errorf("add products chart: %w", err)
		}
	}

	return w.promote(f, summaryFileName)
}

func (w *Writer) promote(f *excelize.File, fileName string) (string, error) {
	path := filepath.Join(w.dir, fileName)
	tempPath := path + ".tmp"
	// SaveAs validates the destination extension and rejects ".tmp", so
	// stream the workbook into the temp file directly.
	temp, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", fileName, err)
	}
	if err := f.Write(temp); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("save %s: %w", fileName, err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("save %s: %w", fileName, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("promote %s: %w", fileName, err)
	}
	return path, nil
}

// ReasonCount is one entry of the return-reason leaderboard.
type ReasonCount struct {
	Reason string
	Count  int
}

// TopReasons counts trimmed, non-blank return reasons across the master
// dataset and returns the n most frequent. Ties break alphabetically so
// identical inputs always produce identical output.
func TopReasons(master ingest.Table, n int) []ReasonCount {
	counts := make(map[string]int)
	for _, row := range master.Rows {
		reason := strings.TrimSpace(row.Cells[schema.ColumnReason].String())
		if reason == "" {
			continue
		}
		counts[reason]++
	}

	entries := make([]ReasonCount, 0, len(counts))
	for reason, count := range counts {
		entries = append(entries, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Reason < entries[j].Reason
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// ProductTotals aggregates kilograms per product.
type ProductTotals struct {
	Product   string
	Delivered float64
	Returned  float64
}

// ProductBreakdown sums delivered and returned kilograms per product and
// returns the n products with the most deliveries. Rows without a product
// are excluded; absent quantities count as zero.
func ProductBreakdown(master ingest.Table, n int) []ProductTotals {
	totals := make(map[string]*ProductTotals)
	for _, row := range master.Rows {
		product := strings.TrimSpace(row.Cells[schema.ColumnProduct].String())
		if product == "" {
			continue
		}
		entry, ok := totals[product]
		if !ok {
			entry = &ProductTotals{Product: product}
			totals[product] = entry
		}
		if delivered, ok := row.Cells[schema.ColumnDelivered].Float(); ok {
			entry.Delivered += delivered
		}
		if returned, ok := row.Cells[schema.ColumnReturned].Float(); ok {
			entry.Returned += returned
		}
	}

	entries := make([]ProductTotals, 0, len(totals))
	for _, entry := range totals {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Delivered != entries[j].Delivered {
			return entries[i].Delivered > entries[j].Delivered
		}
		return entries[i].Product < entries[j].Product
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
