package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InventoryUpdateRequest struct {
	Stage     string          `json:"stage"     validate:"required"`
	Direction string          `json:"direction" validate:"required,oneof=IN OUT"`
	Quantity  decimal.Decimal `json:"quantity"  validate:"required"`
	// OrderID links the entry to an order for progress tracking.
	OrderID *string `json:"order_id" validate:"omitempty,uuid"`
	Notes   *string `json:"notes"`
}

type MaterialMovementRequest struct {
	// FromStage may be a stage name or "Inbound" for material entering the plant.
	FromStage   string          `json:"from_stage" validate:"required"`
	ToStage     string          `json:"to_stage"   validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"   validate:"required"`
	WireSizeMM  *float64        `json:"wire_size_mm" validate:"omitempty,gt=0"`
	WireSizeSWG *int            `json:"wire_size_swg" validate:"omitempty,gt=0"`
	Notes       *string         `json:"notes"`
}

type UpdateStockLevelsRequest struct {
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	WireSizeMM    *float64         `json:"wire_size_mm" validate:"omitempty,gt=0"`
	WireSizeSWG   *int             `json:"wire_size_swg" validate:"omitempty,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StageInventoryResponse struct {
	ID            string          `json:"id"`
	Stage         string          `json:"stage"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level"`
	WireSizeMM    *float64        `json:"wire_size_mm"`
	WireSizeSWG   *int            `json:"wire_size_swg"`
	StockStatus   string          `json:"stock_status"` // low | normal | high
	UpdatedAt     string          `json:"updated_at"`
}

type InventoryTransactionResponse struct {
	ID          string          `json:"id"`
	Stage       string          `json:"stage"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Notes       *string         `json:"notes"`
	CreatedAt   string          `json:"created_at"`
}

type MaterialMovementResponse struct {
	ID          string          `json:"id"`
	FromStage   string          `json:"from_stage"`
	ToStage     string          `json:"to_stage"`
	Quantity    decimal.Decimal `json:"quantity"`
	WireSizeMM  *float64        `json:"wire_size_mm"`
	WireSizeSWG *int            `json:"wire_size_swg"`
	BatchNumber *string         `json:"batch_number"`
	Notes       *string         `json:"notes"`
	CreatedAt   string          `json:"created_at"`
}

type InventoryUpdateResult struct {
	Stage         string               `json:"stage"`
	Direction     string               `json:"direction"`
	Quantity      decimal.Decimal      `json:"quantity"`
	NewStockLevel decimal.Decimal      `json:"new_stock_level"`
	Message       string               `json:"message"`
	OrderUpdate   *OrderProgressUpdate `json:"order_update,omitempty"`
}

type StageUtilization struct {
	Stage        string          `json:"stage"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinLevel     decimal.Decimal `json:"min_level"`
	MaxLevel     decimal.Decimal `json:"max_level"`
	Utilization  float64         `json:"utilization"`
	Status       string          `json:"status"` // low | normal | high
}

type StockAlert struct {
	Stage        string          `json:"stage"`
	Type         string          `json:"type"` // LOW_STOCK | OVERSTOCK
	Severity     string          `json:"severity"`
	Message      string          `json:"message"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Threshold    decimal.Decimal `json:"threshold"`
}

type InventorySummary struct {
	TotalStockAllStages decimal.Decimal    `json:"total_stock_all_stages"`
	Stages              []StageUtilization `json:"stages"`
	Alerts              []StockAlert       `json:"alerts"`
}

// SyncFilter is bound from the query string of POST /v1/inventory/sync.
type SyncFilter struct {
	SinceDate string `form:"since_date" validate:"omitempty,datetime=2006-01-02"`
}

type SyncResult struct {
	RecordsReplayed int64                    `json:"records_replayed"`
	Stocks          []StageInventoryResponse `json:"stocks"`
}
