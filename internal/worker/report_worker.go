package worker

// report_worker.go
// Processes report jobs from QueueReports: renders the xlsx and PDF exports
// into the report storage dir. When the summary carries critical alerts, or
// the requester asked for a copy by mail, a follow-up alert digest job is
// enqueued.

import (
	"context"
	"encoding/json"
	"fmt"

	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReports.
type ReportJobPayload struct {
	JobID     string  `json:"job_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	EmailTo   *string `json:"email_to,omitempty"`
}

type ReportWorker struct {
	reports    service.ReportService
	dispatcher *Dispatcher
}

func NewReportWorker(reports service.ReportService, dispatcher *Dispatcher) *ReportWorker {
	return &ReportWorker{reports: reports, dispatcher: dispatcher}
}

// Process renders both export files for the requested window.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return err
	}

	filter := dto.ReportFilter{StartDate: payload.StartDate, EndDate: payload.EndDate}
	xlsxPath, pdfPath, summary, err := w.reports.RenderFiles(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("job_id", payload.JobID).Msg("report_worker: render failed")
		return err
	}

	log.Info().
		Str("job_id", payload.JobID).
		Str("xlsx", xlsxPath).
		Str("pdf", pdfPath).
		Int("critical_alerts", summary.CriticalAlerts).
		Msg("report_worker: report rendered")

	if payload.EmailTo == nil && summary.CriticalAlerts == 0 {
		return nil
	}

	digest := AlertDigestPayload{
		EmailTo:        payload.EmailTo,
		Subject:        fmt.Sprintf("Production report %s", summary.DateRange.End),
		CriticalAlerts: summary.CriticalAlerts,
		AlertsCount:    summary.AlertsCount,
		DateRange:      fmt.Sprintf("%s to %s", summary.DateRange.Start, summary.DateRange.End),
		Attachments:    []string{xlsxPath, pdfPath},
	}
	if err := w.dispatcher.EnqueueAlertDigest(ctx, digest); err != nil {
		// The report itself succeeded; the digest is best-effort.
		log.Error().Err(err).Str("job_id", payload.JobID).Msg("report_worker: enqueue digest failed")
	}
	return nil
}
