package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
)

type stubLedgerRepository struct {
	findings []ingest.Finding
	runID    uuid.UUID
	limit    int
	offset   int
}

func (s *stubLedgerRepository) Record(ctx context.Context, runID uuid.UUID, finding ingest.Finding) error {
	return nil
}

func (s *stubLedgerRepository) List(ctx context.Context, runID uuid.UUID, limit, offset int) ([]ingest.Finding, error) {
	s.runID = runID
	s.limit = limit
	s.offset = offset
	return s.findings, nil
}

func TestFindingsHandlerListsRunFindings(t *testing.T) {
	row := 2
	repo := &stubLedgerRepository{findings: []ingest.Finding{
		{Source: "branch_a.csv", Plant: "Plant1", Row: &row, Column: "Plant Code", Kind: ingest.FindingBadInt, Value: "twelve"},
	}}
	handler := NewFindingsHandler(repo)

	runID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/findings?run_id="+runID.String()+"&limit=50&offset=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.runID != runID || repo.limit != 50 || repo.offset != 10 {
		t.Fatalf("query params not passed through: %+v", repo)
	}

	var page FindingsPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if page.RunID != runID || page.Count != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Findings[0].Column != "Plant Code" || page.Findings[0].Kind != ingest.FindingBadInt {
		t.Fatalf("unexpected finding: %+v", page.Findings[0])
	}
}

func TestFindingsHandlerRequiresRunID(t *testing.T) {
	handler := NewFindingsHandler(&stubLedgerRepository{})

	req := httptest.NewRequest(http.MethodGet, "/findings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without run_id, got %d", rec.Code)
	}
}

func TestFindingsHandlerRejectsNonGet(t *testing.T) {
	handler := NewFindingsHandler(&stubLedgerRepository{})

	req := httptest.NewRequest(http.MethodPost, "/findings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
