package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
)

type ledgerRepository struct {
	q Querier
}

// NewLedgerRepository wires a repository over a pool or an open transaction.
func NewLedgerRepository(q Querier) LedgerRepository {
	return &ledgerRepository{q: q}
}

func (r *ledgerRepository) Record(ctx context.Context, runID uuid.UUID, finding ingest.Finding) error {
	if r.q == nil {
		return fmt.Errorf("ledger repository not initialized")
	}

	var rowNumber any
	if finding.Row != nil {
		rowNumber = *finding.Row
	}

	_, err := r.q.Exec(
		ctx,
		`INSERT INTO returns_findings (run_id, source_file, plant, row_number, column_name, issue, offending_value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID,
		finding.Source,
		finding.Plant,
		rowNumber,
		finding.Column,
		string(finding.Kind),
		finding.Value,
	)
	if err != nil {
		return fmt.Errorf("failed to record finding: %w", err)
	}

	return nil
}

func (r *ledgerRepository) List(ctx context.Context, runID uuid.UUID, limit, offset int) ([]ingest.Finding, error) {
	if r.q == nil {
		return nil, fmt.Errorf("ledger repository not initialized")
	}

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(
		ctx,
		`SELECT source_file, plant, row_number, column_name, issue, offending_value
		 FROM returns_findings
		 WHERE run_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		runID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	findings := []ingest.Finding{}
	for rows.Next() {
		var (
			finding   ingest.Finding
			plant     pgtype.Text
			rowNumber pgtype.Int4
			column    pgtype.Text
			kind      string
			value     pgtype.Text
		)
		if scanErr := rows.Scan(
			&finding.Source,
			&plant,
			&rowNumber,
			&column,
			&kind,
			&value,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", scanErr)
		}

		if plant.Valid {
			finding.Plant = plant.String
		}
		if rowNumber.Valid {
			number := int(rowNumber.Int32)
			finding.Row = &number
		}
		if column.Valid {
			finding.Column = column.String
		}
		if value.Valid {
			finding.Value = value.String
		}
		finding.Kind = ingest.FindingKind(kind)

		findings = append(findings, finding)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate findings: %w", rowsErr)
	}

	return findings, nil
}
