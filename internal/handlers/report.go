package handlers

import (
	"net/http"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/service"
)

// ReportHandler handles HTTP requests for report generation.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportRequest is the payload of POST /api/generate-report.
type ReportRequest struct {
	Topic string `json:"topic" validate:"notblank"`
	Model string `json:"model"`
	Mode  string `json:"mode" validate:"omitempty,oneof=agents direct"`
}

// ReportResponse carries the generated document.
type ReportResponse struct {
	Success bool   `json:"success"`
	Report  string `json:"report"`
}

// ServeHTTP handles HTTP requests for report generation.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ReportRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		logger.WarnContext(ctx, "invalid report request", "reason", msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.reportService.GenerateReport(ctx, service.ReportRequest{
		Topic: req.Topic,
		Model: req.Model,
		Mode:  req.Mode,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate report")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ReportResponse{
		Success: true,
		Report:  resp.Report,
	})
}
