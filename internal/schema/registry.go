package schema

import "strings"

// ColumnType represents the semantic type a column is coerced to.
type ColumnType string

const (
	TypeText        ColumnType = "text"
	TypeInteger     ColumnType = "integer"
	TypeDecimal     ColumnType = "decimal"
	TypeDate        ColumnType = "date"
	TypeCategorical ColumnType = "categorical"
)

// Column names referenced by validation rules and reporting.
const (
	ColumnPlant      = "Plant"
	ColumnProduct    = "Product"
	ColumnDelivered  = "Total Delivered (kgs)"
	ColumnReturned   = "Total Returned (kgs)"
	ColumnReason     = "Reason of Return"
	ColumnValidation = "Validation"
	ColumnRemarks    = "Remarks"
)

// Column describes one schema entry: the header name branches must use,
// the target type, and, for categorical columns, the allowed value set.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Allowed  []string   `json:"allowed,omitempty"`
	Optional bool       `json:"optional,omitempty"`
}

// AllowsValue reports whether the trimmed value belongs to the allowed set.
// Columns without an allowed set accept every value.
func (c Column) AllowsValue(value string) bool {
	if len(c.Allowed) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, allowed := range c.Allowed {
		if value == allowed {
			return true
		}
	}
	return false
}

// Registry is the authoritative, ordered column list for a run. It is
// constructed once and passed by reference; it has no mutating operations.
type Registry struct {
	columns []Column
	byName  map[string]int
}

// NewRegistry builds a registry from the given column definitions. The
// input slice is deep copied so later mutation by the caller cannot leak in.
func NewRegistry(columns []Column) *Registry {
	copied := make([]Column, len(columns))
	byName := make(map[string]int, len(columns))
	for i, col := range columns {
		copied[i] = col
		copied[i].Allowed = append([]string(nil), col.Allowed...)
		byName[col.Name] = i
	}
	return &Registry{columns: copied, byName: byName}
}

// Columns returns a defensive copy of the column definitions in order.
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// ColumnNames returns the ordered column names.
func (r *Registry) ColumnNames() []string {
	names := make([]string, len(r.columns))
	for i, col := range r.columns {
		names[i] = col.Name
	}
	return names
}

// Lookup returns the definition for a column name.
func (r *Registry) Lookup(name string) (Column, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Column{}, false
	}
	return r.columns[idx], true
}

// Len returns the number of columns.
func (r *Registry) Len() int {
	return len(r.columns)
}

// Returns builds the registry for branch returns extracts. Every column is
// required except Remarks; only the Validation set is enforced row by row,
// the other allowed sets document the expected vocabulary.
func Returns() *Registry {
	return NewRegistry([]Column{
		{Name: ColumnPlant, Type: TypeText},
		{Name: "Plant Code", Type: TypeInteger},
		{Name: "Date Delivered", Type: TypeDate},
		{Name: "Date Returned", Type: TypeDate},
		{Name: "Customer", Type: TypeText},
		{Name: "Customer Category", Type: TypeCategorical, Allowed: []string{"Hotels", "Supermarkets", "Distributor", "Direct", "Others"}},
		{Name: ColumnProduct, Type: TypeText},
		{Name: "Product Code", Type: TypeText},
		{Name: ColumnDelivered, Type: TypeDecimal},
		{Name: ColumnReturned, Type: TypeDecimal},
		{Name: ColumnReason, Type: TypeText},
		{Name: "Return Category", Type: TypeCategorical, Allowed: []string{"Damaged", "Expired", "Wrong Item", "Other"}},
		{Name: "Accountability", Type: TypeCategorical, Allowed: []string{"Sales", "Processing", "Logistics", "Other"}},
		{Name: ColumnValidation, Type: TypeCategorical, Allowed: []string{"Valid", "Invalid"}},
		{Name: ColumnRemarks, Type: TypeText, Optional: true},
	})
}
