package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

type masterRepository struct {
	q Querier
}

// NewMasterRepository wires a repository over a pool or an open transaction.
func NewMasterRepository(q Querier) MasterRepository {
	return &masterRepository{q: q}
}

// insert column order mirrors the registry column order.
var masterColumns = []string{
	schema.ColumnPlant,
	"Plant Code",
	"Date Delivered",
	"Date Returned",
	"Customer",
	"Customer Category",
	schema.ColumnProduct,
	"Product Code",
	schema.ColumnDelivered,
	schema.ColumnReturned,
	schema.ColumnReason,
	"Return Category",
	"Accountability",
	schema.ColumnValidation,
	schema.ColumnRemarks,
}

const insertMasterRow = `INSERT INTO returns_master (
	run_id, source_file, row_number,
	plant, plant_code, date_delivered, date_returned,
	customer, customer_category, product, product_code,
	total_delivered_kgs, total_returned_kgs,
	reason_of_return, return_category, accountability, validation, remarks
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

func (r *masterRepository) InsertRows(ctx context.Context, runID uuid.UUID, master ingest.Table) error {
	if r.q == nil {
		return fmt.Errorf("master repository not initialized")
	}

	for _, row := range master.Rows {
		args := make([]any, 0, len(masterColumns)+3)
		args = append(args, runID, row.Source, row.Number)
		for _, name := range masterColumns {
			args = append(args, cellParam(row.Cells[name]))
		}

		if _, err := r.q.Exec(ctx, insertMasterRow, args...); err != nil {
			return fmt.Errorf("failed to insert master row %d from %s: %w", row.Number, row.Source, err)
		}
	}

	return nil
}

// cellParam binds a cell as a nullable query parameter. Dates bind as
// time.Time so Postgres stores a real date, not a rendered string.
func cellParam(cell ingest.Cell) any {
	switch cell.Kind() {
	case ingest.CellAbsent:
		return nil
	case ingest.CellInteger:
		i, _ := cell.Int()
		return i
	case ingest.CellDecimal:
		f, _ := cell.Float()
		return f
	case ingest.CellDate:
		t, _ := cell.Time()
		return t
	default:
		return cell.String()
	}
}
