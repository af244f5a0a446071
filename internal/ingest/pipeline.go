package ingest

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/halcyon-foods/returns-ingest/internal/reader"
	"github.com/halcyon-foods/returns-ingest/internal/schema"
)

// LoadFunc resolves a source into a raw table. Replaced in tests.
type LoadFunc func(reader.Source) (reader.RawTable, error)

// Pipeline runs Reader -> Coerce -> Validate per source and merges the
// results into the master dataset and the error ledger.
type Pipeline struct {
	registry *schema.Registry
	load     LoadFunc
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLoader overrides how sources are read from disk.
func WithLoader(load LoadFunc) Option {
	return func(p *Pipeline) {
		if load != nil {
			p.load = load
		}
	}
}

// NewPipeline creates a pipeline over the given registry.
func NewPipeline(reg *schema.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: reg,
		load: func(source reader.Source) (reader.RawTable, error) {
			return reader.Load(source.Path)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one ingestion run.
type Result struct {
	RunID  uuid.UUID
	Master Table
	Ledger []Finding
}

// Ingest processes the batch strictly in the supplied order. A source that
// fails to load contributes one read_error finding and zero rows; every
// other failure has already been degraded to a finding further down the
// pipeline, so the run always completes. An empty batch yields an empty
// master dataset with the full column set and an empty ledger.
func (p *Pipeline) Ingest(ctx context.Context, sources []reader.Source) Result {
	result := Result{
		RunID:  uuid.New(),
		Master: Table{Columns: p.registry.ColumnNames()},
	}

	for _, source := range sources {
		raw, err := p.load(source)
		if err != nil {
			log.Printf("[ingest] %s: read failed: %v", source.Name, err)
			result.Ledger = append(result.Ledger, Finding{
				Source: source.Name,
				Kind:   FindingReadError,
				Value:  err.Error(),
			})
			continue
		}

		table, findings := p.IngestOne(source.Name, raw)
		result.Master.Rows = append(result.Master.Rows, table.Rows...)
		result.Ledger = append(result.Ledger, findings...)
		log.Printf("[ingest] %s: %d rows, %d findings", source.Name, len(table.Rows), len(findings))
	}

	return result
}

// IngestOne coerces and validates a single already-loaded source.
func (p *Pipeline) IngestOne(source string, raw reader.RawTable) (Table, []Finding) {
	table, findings := Coerce(raw, p.registry, source)
	findings = append(findings, Validate(table, p.registry)...)
	return table, findings
}

// IngestPayload runs one uploaded payload through the pipeline, degrading a
// parse failure to a read_error finding the same way Ingest does for files.
func (p *Pipeline) IngestPayload(fileName string, payload []byte) (Table, []Finding) {
	raw, err := reader.Parse(fileName, payload)
	if err != nil {
		return Table{Source: fileName, Columns: p.registry.ColumnNames()}, []Finding{{
			Source: fileName,
			Kind:   FindingReadError,
			Value:  err.Error(),
		}}
	}
	return p.IngestOne(fileName, raw)
}
