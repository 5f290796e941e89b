package worker

// alert_worker.go
// Processes alert digest jobs from QueueAlerts: mails a short digest of the
// window's alert situation, attaching freshly rendered report files when the
// report worker provided them.

import (
	"context"
	"encoding/json"
	"fmt"

	"wiremon/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertDigestPayload is the job envelope sent to QueueAlerts.
type AlertDigestPayload struct {
	EmailTo        *string  `json:"email_to,omitempty"`
	Subject        string   `json:"subject"`
	CriticalAlerts int      `json:"critical_alerts"`
	AlertsCount    int      `json:"alerts_count"`
	DateRange      string   `json:"date_range"`
	Attachments    []string `json:"attachments,omitempty"`
}

type AlertWorker struct {
	mailer    *infra.Mailer
	defaultTo string
}

// NewAlertWorker creates an AlertWorker. defaultTo is the fallback recipient
// for digests triggered by critical alerts rather than an explicit request.
func NewAlertWorker(mailer *infra.Mailer, defaultTo string) *AlertWorker {
	return &AlertWorker{mailer: mailer, defaultTo: defaultTo}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertDigestPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return err
	}

	to := w.defaultTo
	if payload.EmailTo != nil && *payload.EmailTo != "" {
		to = *payload.EmailTo
	}
	if to == "" {
		log.Warn().Msg("alert_worker: no recipient configured — skipping digest")
		return nil
	}

	body := fmt.Sprintf(
		"Production window %s\n\nAlerts: %d (%d critical)\n\nThe full report is attached.\n",
		payload.DateRange, payload.AlertsCount, payload.CriticalAlerts,
	)

	if err := w.mailer.Send([]string{to}, payload.Subject, body, payload.Attachments...); err != nil {
		log.Error().Err(err).Str("to", to).Msg("alert_worker: failed to send digest")
		return err
	}
	log.Info().Str("to", to).Msg("alert_worker: digest sent")
	return nil
}
