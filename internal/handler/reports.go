package handler

import (
	"fmt"
	"net/http"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/service"
	"wiremon/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReportsHandler struct {
	svc        service.ReportService
	dispatcher *worker.Dispatcher
}

func NewReportsHandler(svc service.ReportService, dispatcher *worker.Dispatcher) *ReportsHandler {
	return &ReportsHandler{svc: svc, dispatcher: dispatcher}
}

// ProductionSummary godoc
// @Summary      Production summary report
// @Description  Throughput metrics, per-stage statistics, inventory picture and alert counters for the window (default last 30 days).
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.ProductionSummaryReport
// @Router       /v1/reports/production-summary [get]
func (h *ReportsHandler) ProductionSummary(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ProductionSummary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportXLSX godoc
// @Summary      Export production records as Excel
// @Description  Streams the window's records as an .xlsx workbook.
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {file} binary
// @Router       /v1/reports/production/export [get]
func (h *ReportsHandler) ExportXLSX(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQuery(c, &filter) {
		return
	}
	filename := fmt.Sprintf("production_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.svc.WriteXLSX(c.Request.Context(), filter, c.Writer); err != nil {
		// Headers may already be out, so log instead of writing a JSON body.
		log.Error().Err(err).Msg("reports: xlsx export failed")
	}
}

// ExportPDF godoc
// @Summary      Export production records as PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {file} binary
// @Router       /v1/reports/production/export/pdf [get]
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQuery(c, &filter) {
		return
	}
	path, err := h.svc.RenderPDF(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("production_%s.pdf", time.Now().Format("20060102")))
}

// Generate godoc
// @Summary      Queue an async report job
// @Description  Renders the Excel and PDF exports in the background. With email_to set the files are mailed out when ready.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GenerateReportRequest true "Report window and optional recipient"
// @Success      202 {object} dto.GenerateReportResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reports/generate [post]
func (h *ReportsHandler) Generate(c *gin.Context) {
	var req dto.GenerateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	jobID := uuid.NewString()
	payload := worker.ReportJobPayload{
		JobID:     jobID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		EmailTo:   req.EmailTo,
	}
	if err := h.dispatcher.EnqueueReport(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.GenerateReportResponse{
		JobID:   jobID,
		Status:  "queued",
		Message: "Report generation queued",
	})
}
