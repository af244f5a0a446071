package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Handler exposes single-source ingestion as an HTTP endpoint for branches
// that push extracts instead of dropping files.
type Handler struct {
	pipeline *Pipeline
}

// NewHTTPHandler wraps the pipeline with a POST endpoint.
func NewHTTPHandler(pipeline *Pipeline) http.Handler {
	return &Handler{pipeline: pipeline}
}

// UploadSummary is the JSON response for one uploaded source.
type UploadSummary struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Findings []Finding `json:"findings"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	table, findings := h.pipeline.IngestPayload(header.Filename, payload)
	if findings == nil {
		findings = []Finding{}
	}

	writeJSON(w, http.StatusOK, UploadSummary{
		Source:   header.Filename,
		Rows:     len(table.Rows),
		Findings: findings,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
