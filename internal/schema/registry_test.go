package schema

import "testing"

func TestReturnsRegistryShape(t *testing.T) {
	reg := Returns()

	if reg.Len() != 15 {
		t.Fatalf("expected 15 columns, got %d", reg.Len())
	}

	names := reg.ColumnNames()
	if names[0] != ColumnPlant {
		t.Fatalf("expected first column %q, got %q", ColumnPlant, names[0])
	}
	if names[len(names)-1] != ColumnRemarks {
		t.Fatalf("expected last column %q, got %q", ColumnRemarks, names[len(names)-1])
	}

	validation, ok := reg.Lookup(ColumnValidation)
	if !ok {
		t.Fatalf("expected Validation column to exist")
	}
	if validation.Type != TypeCategorical {
		t.Fatalf("expected Validation to be categorical, got %s", validation.Type)
	}
	if len(validation.Allowed) != 2 {
		t.Fatalf("expected 2 allowed Validation values, got %d", len(validation.Allowed))
	}

	remarks, ok := reg.Lookup(ColumnRemarks)
	if !ok || !remarks.Optional {
		t.Fatalf("expected Remarks to be the optional column")
	}

	for _, name := range names {
		col, ok := reg.Lookup(name)
		if !ok {
			t.Fatalf("lookup failed for %q", name)
		}
		if name != ColumnRemarks && col.Optional {
			t.Fatalf("expected %q to be required", name)
		}
	}
}

func TestAllowsValueTrimsInput(t *testing.T) {
	reg := Returns()
	validation, _ := reg.Lookup(ColumnValidation)

	if !validation.AllowsValue(" Valid ") {
		t.Fatalf("expected trimmed value to be allowed")
	}
	if validation.AllowsValue("maybe") {
		t.Fatalf("expected unknown value to be rejected")
	}
	if validation.AllowsValue("valid") {
		t.Fatalf("membership should be case sensitive")
	}

	plant, _ := reg.Lookup(ColumnPlant)
	if !plant.AllowsValue("anything") {
		t.Fatalf("columns without an allowed set accept every value")
	}
}

func TestNewRegistryCopiesInput(t *testing.T) {
	columns := []Column{
		{Name: "Status", Type: TypeCategorical, Allowed: []string{"Open"}},
	}
	reg := NewRegistry(columns)

	columns[0].Allowed[0] = "Mutated"
	columns[0].Name = "Renamed"

	col, ok := reg.Lookup("Status")
	if !ok {
		t.Fatalf("expected Status column to survive caller mutation")
	}
	if col.Allowed[0] != "Open" {
		t.Fatalf("allowed set leaked caller mutation: %q", col.Allowed[0])
	}

	out := reg.Columns()
	out[0].Name = "Clobbered"
	if _, ok := reg.Lookup("Status"); !ok {
		t.Fatalf("Columns() must return a defensive copy")
	}
}
