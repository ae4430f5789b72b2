package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/kosherbill/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Summarize(ctx context.Context, input usecase.SummarizeInput) (*usecase.Metrics, error)
}

// ReportHandler handles financial report requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Summary serves the aggregated metrics over a window. Defaults to the
// last 30 days with scope=all.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	metrics, err := h.reportUC.Summarize(r.Context(), usecase.SummarizeInput{
		From:  parseTimeQuery(r, "from", now.AddDate(0, 0, -30)),
		To:    parseTimeQuery(r, "to", now),
		Scope: usecase.Scope(r.URL.Query().Get("scope")),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}
