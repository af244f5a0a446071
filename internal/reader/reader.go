package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when a source file is not CSV or Excel.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Source identifies one branch extract. Name is the base filename and
// doubles as the provenance tag on every merged row.
type Source struct {
	Name string
	Path string
}

// RawTable is an all-string table as read from disk: trimmed headers and
// data rows padded to the header width. It is never mutated after creation.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Discover lists the CSV and Excel files in dir, sorted by name so batch
// order is stable across runs.
func Discover(dir string) ([]Source, error) {
	var sources []Source
	for _, pattern := range []string{"*.csv", "*.xlsx", "*.xls"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan input directory: %w", err)
		}
		for _, path := range matches {
			sources = append(sources, Source{Name: filepath.Base(path), Path: path})
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

// Load reads and parses one source file.
func Load(path string) (RawTable, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return RawTable{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Parse(filepath.Base(path), payload)
}

// Parse decodes a source payload by file extension.
func Parse(fileName string, payload []byte) (RawTable, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx", ".xls":
		return parseExcel(payload)
	default:
		return RawTable{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (RawTable, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return normalizeTable(records)
}

func parseExcel(payload []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read rows from workbook: %w", err)
	}
	return normalizeTable(rows)
}

// normalizeTable picks the first non-empty row as the header, trims the
// header cells, pads every data row to the header width, and drops rows
// that are entirely blank.
func normalizeTable(records [][]string) (RawTable, error) {
	var headers []string
	var dataRows [][]string

	for _, row := range records {
		if isEmptyRow(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, value := range row {
				headers[i] = strings.TrimSpace(value)
			}
			continue
		}
		dataRows = append(dataRows, padRow(row, len(headers)))
	}

	if headers == nil {
		return RawTable{}, errors.New("no header row detected")
	}

	return RawTable{Headers: headers, Rows: dataRows}, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}
