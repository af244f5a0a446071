package reader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseCSVStripsBOMAndTrimsHeaders(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte(" Plant , Customer\nPlant1,Seaside Hotel\n")...)

	table, err := Parse("branch.csv", payload)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if !reflect.DeepEqual(table.Headers, []string{"Plant", "Customer"}) {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "Plant1" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseCSVPadsShortRowsAndSkipsEmptyOnes(t *testing.T) {
	payload := []byte("Plant,Customer,Product\nPlant1,Seaside Hotel\n,,\nPlant2,Cash&Carry,Chicken\n")

	table, err := Parse("branch.csv", payload)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected the all-blank row to be dropped, got %d rows", len(table.Rows))
	}
	if len(table.Rows[0]) != 3 || table.Rows[0][2] != "" {
		t.Fatalf("short row must be padded to header width: %v", table.Rows[0])
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("notes.txt", []byte("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseCSVWithoutHeaderRow(t *testing.T) {
	if _, err := Parse("empty.csv", []byte("\n, ,\n")); err == nil {
		t.Fatalf("expected an error for a file with no header row")
	}
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_branch.csv", "a_branch.xlsx", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	sources, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover returned error: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "a_branch.xlsx" || sources[1].Name != "b_branch.csv" {
		t.Fatalf("sources must be sorted by name: %+v", sources)
	}
	for _, source := range sources {
		if source.Path != filepath.Join(dir, source.Name) {
			t.Fatalf("source path mismatch: %+v", source)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
