package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

type BatchFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=ACTIVE ON_HOLD CONSUMED REJECTED"`
	Stage  string `form:"stage"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBatchRequest struct {
	BatchNumber     string          `json:"batch_number"     validate:"required,min=3"`
	InitialQuantity decimal.Decimal `json:"initial_quantity" validate:"required"`
	// InitialStage places the coil directly at a stage; empty means the
	// first move must enter the start of the sequence.
	InitialStage *string `json:"initial_stage"`
	OrderID      *string `json:"order_id"     validate:"omitempty,uuid"`
	WireSizeMM      *float64        `json:"wire_size_mm"  validate:"omitempty,gt=0"`
	WireSizeSWG     *int            `json:"wire_size_swg" validate:"omitempty,gt=0"`
	Notes           *string         `json:"notes"`
}

type MoveBatchRequest struct {
	ToStage       string          `json:"to_stage"       validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"       validate:"required"`
	ScrapQuantity decimal.Decimal `json:"scrap_quantity"`
	OperatorName  *string         `json:"operator_name"`
	Notes         *string         `json:"notes"`
}

type HoldBatchRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type ResumeBatchRequest struct {
	Reason *string `json:"reason"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BatchJourneyEventResponse struct {
	FromStage     *string         `json:"from_stage"`
	ToStage       string          `json:"to_stage"`
	Quantity      decimal.Decimal `json:"quantity"`
	ScrapQuantity decimal.Decimal `json:"scrap_quantity"`
	OperatorName  *string         `json:"operator_name"`
	Notes         *string         `json:"notes"`
	CreatedAt     string          `json:"created_at"`
}

type BatchHoldEventResponse struct {
	Action    string  `json:"action"`
	Reason    *string `json:"reason"`
	CreatedAt string  `json:"created_at"`
}

// JourneyProgress positions a batch within the full stage sequence.
type JourneyProgress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type BatchResponse struct {
	ID                string                  `json:"id"`
	BatchNumber       string                  `json:"batch_number"`
	OrderID           *string                 `json:"order_id"`
	InitialQuantity   decimal.Decimal         `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal         `json:"remaining_quantity"`
	WireSizeMM        *float64                `json:"wire_size_mm"`
	WireSizeSWG       *int                    `json:"wire_size_swg"`
	CurrentStage      *string                 `json:"current_stage"`
	Status            string                  `json:"status"`
	JourneyProgress   JourneyProgress         `json:"journey_progress"`
	NextStage         *string                 `json:"next_stage"`
	LatestHold        *BatchHoldEventResponse `json:"latest_hold"`
	Notes             *string                 `json:"notes"`
	CreatedAt         string                  `json:"created_at"`
}

type BatchDetailResponse struct {
	BatchResponse
	Journey    []BatchJourneyEventResponse `json:"journey"`
	HoldEvents []BatchHoldEventResponse    `json:"hold_events"`
}

// BatchMoveResult is returned by the guided move endpoint.
type BatchMoveResult struct {
	Message     string               `json:"message"`
	Batch       BatchResponse        `json:"batch"`
	OrderUpdate *OrderProgressUpdate `json:"order_update,omitempty"`
	NextStage   *string              `json:"next_stage"`
}

type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
