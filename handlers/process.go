package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ebridges/metaproc/model"
	"github.com/ebridges/metaproc/processor"
)

// ProcessHandler exposes the processing pipeline over HTTP: one route per
// image key, and a batch route for storage-event payloads.
type ProcessHandler struct {
	Processor *processor.Processor
}

// MessageResponse is the JSON body for single-key outcomes.
type MessageResponse struct {
	Message string `json:"message"`
}

// BatchRequest mirrors the storage-event shape: a list of records naming
// object keys.
type BatchRequest struct {
	Records []BatchRecord `json:"records"`
}

type BatchRecord struct {
	Key string `json:"key"`
}

// BatchResponse summarizes a batch run.
type BatchResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

// ProcessImage handles one key: 200 processed, 204 skipped because already
// present and no force update requested, 404 malformed or absent upstream.
// The `update` query parameter forces re-processing.
func (h *ProcessHandler) ProcessImage(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "file")

	key, err := model.ParseImageKey(path)
	if err != nil {
		log.Printf("rejecting malformed key %s: %v", path, err)
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: path + " is not a valid image key."})
		return
	}

	proc := *h.Processor
	if r.URL.Query().Has("update") {
		proc.ForceUpdate = true
	}

	status, err := proc.ProcessKey(r.Context(), key)
	if err != nil {
		log.Printf("failed to process %s: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: key.FilePath() + " failed."})
		return
	}

	switch status {
	case processor.StatusProcessed:
		writeJSON(w, http.StatusOK, MessageResponse{Message: key.FilePath() + " processed."})
	case processor.StatusSkipped:
		w.WriteHeader(http.StatusNoContent)
	case processor.StatusNotFound:
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: key.FilePath() + " not found."})
	}
}

// ProcessBatch handles a storage-event payload. Failures are isolated per
// record; the response reports the aggregate outcome.
func (h *ProcessHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "malformed event payload."})
		return
	}

	paths := make([]string, 0, len(req.Records))
	for _, rec := range req.Records {
		if rec.Key != "" {
			paths = append(paths, rec.Key)
		}
	}

	proc := *h.Processor
	if r.URL.Query().Has("update") {
		proc.ForceUpdate = true
	}

	summary := proc.ProcessBatch(r.Context(), paths)
	writeJSON(w, http.StatusOK, BatchResponse{
		Processed: summary.Processed,
		Skipped:   summary.Skipped,
		NotFound:  summary.NotFound,
		Failed:    summary.Failed,
	})
}

func writeJSON(w http.ResponseWriter, httpStatus int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(body)
}
