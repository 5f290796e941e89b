package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

type OrderFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED ON_HOLD CANCELLED DISPATCHED DELIVERED"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	OrderNumber     string          `json:"order_number"     validate:"required,min=3"`
	CustomerName    string          `json:"customer_name"    validate:"required,min=2"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity" validate:"required"`
	WireSizeMM      *float64        `json:"wire_size_mm"  validate:"omitempty,gt=0"`
	WireSizeSWG     *int            `json:"wire_size_swg" validate:"omitempty,gt=0"`
	// Priority: 1=Normal, 2=High, 3=Urgent
	Priority *int `json:"priority" validate:"omitempty,min=1,max=3"`
	DueDate         *string         `json:"due_date"      validate:"omitempty,datetime=2006-01-02"`
	Notes           *string         `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED ON_HOLD CANCELLED DISPATCHED DELIVERED"`
	Notes  *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderStageProgressResponse struct {
	Stage             string          `json:"stage"`
	Status            string          `json:"status"`
	ProcessedQuantity decimal.Decimal `json:"processed_quantity"`
	StartedAt         *string         `json:"started_at"`
	CompletedAt       *string         `json:"completed_at"`
}

type OrderResponse struct {
	ID                string                       `json:"id"`
	OrderNumber       string                       `json:"order_number"`
	CustomerName      string                       `json:"customer_name"`
	OrderedQuantity   decimal.Decimal              `json:"ordered_quantity"`
	CompletedQuantity decimal.Decimal              `json:"completed_quantity"`
	WireSizeMM        *float64                     `json:"wire_size_mm"`
	WireSizeSWG       *int                         `json:"wire_size_swg"`
	Status            string                       `json:"status"`
	CurrentStage      *string                      `json:"current_stage"`
	Priority          int                          `json:"priority"`
	DueDate           *string                      `json:"due_date"`
	Notes             *string                      `json:"notes"`
	Progress          []OrderStageProgressResponse `json:"progress"`
	CreatedAt         string                       `json:"created_at"`
}

// OrderProgressUpdate summarizes the effect of recording material against an
// order at one stage.
type OrderProgressUpdate struct {
	OrderID           string          `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	Status            string          `json:"status"`
	CurrentStage      *string         `json:"current_stage"`
	CompletedQuantity decimal.Decimal `json:"completed_quantity"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	StageStatus       string          `json:"stage_status"`
	StageOutput       decimal.Decimal `json:"stage_output"`
}

// ─── Order status report ─────────────────────────────────────────────────────

type OrderReportLine struct {
	OrderNumber          string          `json:"order_number"`
	CustomerName         string          `json:"customer_name"`
	Status               string          `json:"status"`
	OrderedQuantity      decimal.Decimal `json:"ordered_quantity"`
	CompletedQuantity    decimal.Decimal `json:"completed_quantity"`
	CompletionPercentage float64         `json:"completion_percentage"`
	OrderDate            string          `json:"order_date"`
	DueDate              *string         `json:"due_date"`
	Priority             int             `json:"priority"`
}

type OrderStatusReport struct {
	ReportGeneratedAt           string            `json:"report_generated_at"`
	TotalOrders                 int               `json:"total_orders"`
	TotalOrderedQuantity        decimal.Decimal   `json:"total_ordered_quantity"`
	TotalCompletedQuantity      decimal.Decimal   `json:"total_completed_quantity"`
	OverallCompletionPercentage float64           `json:"overall_completion_percentage"`
	StatusBreakdown             map[string]int    `json:"status_breakdown"`
	UrgentOrders                int               `json:"urgent_orders"`
	HighPriorityOrders          int               `json:"high_priority_orders"`
	Orders                      []OrderReportLine `json:"orders"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
