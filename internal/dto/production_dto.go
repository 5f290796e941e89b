package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductionFilter is bound from query string of GET /v1/production/records.
type ProductionFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Stage     string `form:"stage"`
	Shift     string `form:"shift"      validate:"omitempty,oneof=Morning Afternoon Night"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductionListResponse struct {
	Data  []ProductionRecordResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductionRecordRequest struct {
	Date         string          `json:"date"          validate:"required,datetime=2006-01-02"`
	Shift        string          `json:"shift"         validate:"required,oneof=Morning Afternoon Night"`
	Stage        string          `json:"stage"         validate:"required"`
	InputQty     decimal.Decimal `json:"input_qty"     validate:"required"`
	OutputQty    decimal.Decimal `json:"output_qty"    validate:"required"`
	ScrapQty     decimal.Decimal `json:"scrap_qty"`
	InputSizeMM  *float64        `json:"input_size_mm"  validate:"omitempty,gt=0"`
	OutputSizeMM *float64        `json:"output_size_mm" validate:"omitempty,gt=0"`
	InputSWG     *int            `json:"input_swg"      validate:"omitempty,gt=0"`
	OutputSWG    *int            `json:"output_swg"     validate:"omitempty,gt=0"`
	OperatorName *string         `json:"operator_name"`
	Notes        *string         `json:"notes"`
}

// UpdateProductionRecordRequest carries the only fields a stored record may
// change after creation. Dates, stages and quantities are immutable — a wrong
// entry is corrected by a compensating record, never by editing history.
type UpdateProductionRecordRequest struct {
	OperatorName *string `json:"operator_name"`
	Notes        *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductionRecordResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Shift          string          `json:"shift"`
	Stage          string          `json:"stage"`
	InputQty       decimal.Decimal `json:"input_qty"`
	OutputQty      decimal.Decimal `json:"output_qty"`
	ScrapQty       decimal.Decimal `json:"scrap_qty"`
	InputSizeMM    *float64        `json:"input_size_mm"`
	OutputSizeMM   *float64        `json:"output_size_mm"`
	InputSWG       *int            `json:"input_swg"`
	OutputSWG      *int            `json:"output_swg"`
	Efficiency     float64         `json:"efficiency"`
	LossPercentage float64         `json:"loss_percentage"`
	OperatorName   *string         `json:"operator_name"`
	Notes          *string         `json:"notes"`
	CreatedAt      string          `json:"created_at"`
}

// ─── Entry flow DTOs ─────────────────────────────────────────────────────────

// CreateProductionEntryRequest is the shop-floor entry flow: the record plus
// an inventory credit and optional order progress, atomically.
type CreateProductionEntryRequest struct {
	CreateProductionRecordRequest
	OrderID *string `json:"order_id" validate:"omitempty,uuid"`
}

type ProductionEntryResult struct {
	Record        ProductionRecordResponse `json:"record"`
	NewStockLevel decimal.Decimal          `json:"new_stock_level"`
	OrderUpdate   *OrderProgressUpdate     `json:"order_update,omitempty"`
}

type QuickStats struct {
	TodayEntries   int             `json:"today_entries"`
	ActiveOrders   int64           `json:"active_orders"`
	TotalInventory decimal.Decimal `json:"total_inventory"`
	LowStockAlerts int             `json:"low_stock_alerts"`
	LastEntryTime  *string         `json:"last_entry_time"`
}

// ─── Stage config DTOs ───────────────────────────────────────────────────────

type UpdateStageConfigRequest struct {
	ExpectedInputSizeMM  *float64 `json:"expected_input_size_mm"  validate:"omitempty,gt=0"`
	ExpectedOutputSizeMM *float64 `json:"expected_output_size_mm" validate:"omitempty,gt=0"`
	MinEfficiency        *float64 `json:"min_efficiency"          validate:"omitempty,gte=0,lte=100"`
	MaxLossPercentage    *float64 `json:"max_loss_percentage"     validate:"omitempty,gte=0,lte=100"`
	HasAnnealing         *bool    `json:"has_annealing"`
}

type StageConfigResponse struct {
	ID                   string   `json:"id"`
	Stage                string   `json:"stage"`
	SequenceOrder        int      `json:"sequence_order"`
	ExpectedInputSizeMM  *float64 `json:"expected_input_size_mm"`
	ExpectedOutputSizeMM *float64 `json:"expected_output_size_mm"`
	MinEfficiency        float64  `json:"min_efficiency"`
	MaxLossPercentage    float64  `json:"max_loss_percentage"`
	HasAnnealing         bool     `json:"has_annealing"`
}
