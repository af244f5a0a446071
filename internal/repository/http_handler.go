package repository

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/halcyon-foods/returns-ingest/internal/ingest"
)

// FindingsHandler exposes the persisted error ledger so operators can query
// a run's findings without opening the CSV artifact.
type FindingsHandler struct {
	ledger LedgerRepository
}

// NewFindingsHandler wraps a ledger repository with a GET endpoint.
func NewFindingsHandler(ledger LedgerRepository) http.Handler {
	return &FindingsHandler{ledger: ledger}
}

// FindingsPage is the JSON response for one page of a run's findings.
type FindingsPage struct {
	RunID    uuid.UUID        `json:"run_id"`
	Count    int              `json:"count"`
	Findings []ingest.Finding `json:"findings"`
}

func (h *FindingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID, err := uuid.Parse(r.URL.Query().Get("run_id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("run_id required: %v", err), http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	findings, err := h.ledger.List(r.Context(), runID, limit, offset)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list findings: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(FindingsPage{RunID: runID, Count: len(findings), Findings: findings})
}
