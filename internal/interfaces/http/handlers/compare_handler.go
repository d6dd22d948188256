package handlers

import (
	"context"
	"net/http"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
)

// Comparer is the application surface the compare endpoints need.
type Comparer interface {
	Recompute(ctx context.Context, req compare.Request) (*compare.Report, error)
	Explain(ctx context.Context, req compare.Request) (*compare.Explanation, error)
}

// CompareHandler serves comparison runs over HTTP.
type CompareHandler struct {
	svc         Comparer
	logger      logging.Logger
	maxBodySize int64
}

// NewCompareHandler creates a CompareHandler. A non-positive maxBodySize
// selects DefaultMaxBodySize.
func NewCompareHandler(svc Comparer, logger logging.Logger, maxBodySize int64) *CompareHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CompareHandler{svc: svc, logger: logger, maxBodySize: maxBodySize}
}

// Compare handles POST /api/v1/compare.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithContext(r.Context())

	var req compare.Request
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeError(w, log, err)
		return
	}
	rep, err := h.svc.Recompute(r.Context(), req)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Explain handles POST /api/v1/compare/explain.
func (h *CompareHandler) Explain(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithContext(r.Context())

	var req compare.Request
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeError(w, log, err)
		return
	}
	exp, err := h.svc.Explain(r.Context(), req)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
