package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// AnalyticsFilter is bound from query string of the /v1/analytics endpoints.
// Empty dates mean "all history".
type AnalyticsFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
}

// TimelineFilter adds the grouping window for GET /v1/timeline.
type TimelineFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Stage     string `form:"stage"      validate:"omitempty"`
	Days      int    `form:"days,default=30" validate:"min=1,max=365"`
}

// StageDetailFilter is bound for GET /v1/stages/:stage.
type StageDetailFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Shift     string `form:"shift"      validate:"omitempty,oneof=Morning Afternoon Night"`
}

// WIPFilter selects the cutoff day for GET /v1/wip.
type WIPFilter struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StageStats struct {
	Stage             string          `json:"stage"`
	TotalInput        decimal.Decimal `json:"total_input"`
	TotalOutput       decimal.Decimal `json:"total_output"`
	TotalScrap        decimal.Decimal `json:"total_scrap"`
	AvgEfficiency     float64         `json:"avg_efficiency"`
	AvgLossPercentage float64         `json:"avg_loss_percentage"`
	RecordCount       int64           `json:"record_count"`
}

// ProcessFlowNode is one stage in the end-to-end flow view including the
// work-in-progress buffered ahead of the next stage.
type ProcessFlowNode struct {
	Stage                string          `json:"stage"`
	SequenceOrder        int             `json:"sequence_order"`
	TotalInput           decimal.Decimal `json:"total_input"`
	TotalOutput          decimal.Decimal `json:"total_output"`
	AvgEfficiency        float64         `json:"avg_efficiency"`
	Status               string          `json:"status"` // good | warning | critical
	ExpectedInputSizeMM  *float64        `json:"expected_input_size_mm"`
	ExpectedOutputSizeMM *float64        `json:"expected_output_size_mm"`
	WIPToNext            decimal.Decimal `json:"wip_to_next"`
}

type ProcessFlowResponse struct {
	Stages     []ProcessFlowNode `json:"stages"`
	Bottleneck *string           `json:"bottleneck"`
}

type Alert struct {
	Severity    string  `json:"severity"` // critical | warning | info
	Stage       string  `json:"stage"`
	Date        string  `json:"date"`
	Shift       string  `json:"shift"`
	Message     string  `json:"message"`
	MetricValue float64 `json:"metric_value"`
}

type TimelineDataPoint struct {
	Date          string          `json:"date"`
	Stage         string          `json:"stage"`
	TotalOutput   decimal.Decimal `json:"total_output"`
	AvgEfficiency float64         `json:"avg_efficiency"`
}

// OverallMetrics summarises end-to-end throughput: total production is the
// final-stage output and overall efficiency relates it back to the raw input
// fed into the first stage.
type OverallMetrics struct {
	TotalProduction   decimal.Decimal `json:"total_production"`
	TotalInput        decimal.Decimal `json:"total_input"`
	TotalScrap        decimal.Decimal `json:"total_scrap"`
	OverallEfficiency float64         `json:"overall_efficiency"`
	TotalRecords      int64           `json:"total_records"`
}

type DashboardSummary struct {
	TotalProduction   decimal.Decimal `json:"total_production"`
	TotalScrap        decimal.Decimal `json:"total_scrap"`
	OverallEfficiency float64         `json:"overall_efficiency"`
	BottleneckStage   *string         `json:"bottleneck_stage"`
	ActiveAlerts      int             `json:"active_alerts"`
	ActiveOrders      int64           `json:"active_orders"`
	ActiveBatches     int64           `json:"active_batches"`
	DateRange         string          `json:"date_range"`
}

type DailyEfficiencyPoint struct {
	Date          string          `json:"date"`
	AvgEfficiency float64         `json:"avg_efficiency"`
	TotalOutput   decimal.Decimal `json:"total_output"`
	RecordCount   int64           `json:"record_count"`
}

type EfficiencyStats struct {
	Period string                 `json:"period"`
	Daily  []DailyEfficiencyPoint `json:"daily_stats"`
}

type ScrapPoint struct {
	Stage           string          `json:"stage"`
	TotalScrap      decimal.Decimal `json:"total_scrap"`
	TotalInput      decimal.Decimal `json:"total_input"`
	ScrapPercentage float64         `json:"scrap_percentage"`
	RecordCount     int64           `json:"record_count"`
}

type ScrapAnalysis struct {
	Period     string          `json:"period"`
	TotalScrap decimal.Decimal `json:"total_scrap"`
	ByStage    []ScrapPoint    `json:"by_stage"`
}

type WIPEntry struct {
	FromStage   string          `json:"from_stage"`
	ToStage     string          `json:"to_stage"`
	Label       string          `json:"label"`
	WIPQuantity decimal.Decimal `json:"wip_quantity"`
}

type WIPAnalysis struct {
	Date    string     `json:"date"`
	Entries []WIPEntry `json:"wip_analysis"`
}

// StageDetail bundles everything the per-stage dashboard view needs.
type StageDetail struct {
	Stage         string                     `json:"stage"`
	Stats         StageStats                 `json:"stats"`
	RecentRecords []ProductionRecordResponse `json:"recent_records"`
	DailyTrend    []TimelineDataPoint        `json:"daily_trend"`
}
