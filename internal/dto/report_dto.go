package dto

// ─── Filter ──────────────────────────────────────────────────────────────────

type ReportFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GenerateReportRequest queues an async rendering job. When EmailTo is set
// the finished files are mailed out as attachments.
type GenerateReportRequest struct {
	StartDate string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string  `json:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	EmailTo   *string `json:"email_to"   validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// ProductionSummaryReport is the JSON report combining throughput metrics,
// per-stage statistics, the inventory picture and the alert counters.
type ProductionSummaryReport struct {
	ReportGeneratedAt string           `json:"report_generated_at"`
	DateRange         DateRange        `json:"date_range"`
	OverallMetrics    OverallMetrics   `json:"overall_metrics"`
	StageStatistics   []StageStats     `json:"stage_statistics"`
	InventorySummary  InventorySummary `json:"inventory_summary"`
	AlertsCount       int              `json:"alerts_count"`
	CriticalAlerts    int              `json:"critical_alerts"`
}

type GenerateReportResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
