package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository can run standalone or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LedgerRepository persists findings for operator follow-up queries.
type LedgerRepository interface {
	Record(ctx context.Context, runID uuid.UUID, finding ingest.Finding) error
	List(ctx context.Context, runID uuid.UUID, limit, offset int) ([]ingest.Finding, error)
}

// MasterRepository persists the consolidated dataset.
type MasterRepository interface {
	InsertRows(ctx context.Context, runID uuid.UUID, master ingest.Table) error
}
