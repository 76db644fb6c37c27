package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/models"
	"github.com/markdave123-py/vectorsync/internal/services"
)

// StatusTrailer carries the outcome of a streamed ingestion:
// "complete", "canceled" or "failed: <reason>".
const StatusTrailer = "X-Ingest-Status"

// Ingester is what the handlers need from the ingestion service.
type Ingester interface {
	ListFiles(ctx context.Context) ([]string, error)
	Start(ctx context.Context, target models.Target) (*ingestion_engine.ProgressStream, error)
}

type IngestHandler struct {
	ingest Ingester
	logger *slog.Logger
}

func NewIngestHandler(ingest Ingester) *IngestHandler {
	return &IngestHandler{ingest: ingest, logger: slog.Default().With("component", "ingest-handler")}
}

type updateRequest struct {
	IndexName string `json:"indexname"`
	Namespace string `json:"namespace"`
}

// UpdateDatabase ingests the configured documents and streams one JSON
// progress object per line. The body ends after the isComplete=true event on
// success; on failure it ends without one and the status trailer says why.
func (h *IngestHandler) UpdateDatabase(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Cancelled when the client disconnects or we fail to write to it.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, err := h.ingest.Start(ctx, models.Target{IndexName: req.IndexName, Namespace: req.Namespace})
	switch {
	case errors.Is(err, services.ErrInvalidTarget):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, core.ErrIndexNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("could not start ingestion", "err", err)
		http.Error(w, "could not start ingestion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Trailer", StatusTrailer)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	for ev := range stream.Events() {
		if err := enc.Encode(ev); err != nil {
			h.logger.Info("client stream closed", "err", err)
			cancel()
			break
		}
		_ = rc.Flush()
	}
	// Drain so the run can observe the cancellation and finish.
	for range stream.Events() {
	}

	w.Header().Set(StatusTrailer, streamStatus(stream.Err()))
}

func streamStatus(err error) string {
	switch {
	case err == nil:
		return "complete"
	case ingestion_engine.IsFailure(err):
		return "failed: " + err.Error()
	default:
		return "canceled"
	}
}

// GetFileList returns the JSON array of files the next ingestion would read.
func (h *IngestHandler) GetFileList(w http.ResponseWriter, r *http.Request) {
	files, err := h.ingest.ListFiles(r.Context())
	if err != nil {
		h.logger.Error("list files failed", "err", err)
		http.Error(w, "could not list files", http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(files)
}
