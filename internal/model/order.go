package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderOnHold     OrderStatus = "ON_HOLD"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderDispatched OrderStatus = "DISPATCHED"
	OrderDelivered  OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderOnHold, OrderCancelled,
		OrderDispatched, OrderDelivered:
		return true
	}
	return false
}

// ProductionOrder is a customer order moving through the stage sequence.
// Per-stage progress rows are created eagerly when the order is created.
type ProductionOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`

	CustomerName    string          `gorm:"not null"`
	WireSizeMM      *float64
	WireSizeSWG     *int
	OrderedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	// Completed only counts output recorded at the terminal stage.
	CompletedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`

	Status       OrderStatus `gorm:"not null;default:'PENDING';index"`
	CurrentStage *Stage      `gorm:"index"`
	// Priority: 1=Normal, 2=High, 3=Urgent
	Priority  int        `gorm:"not null;default:1"`
	DueDate   *time.Time `gorm:"type:date"`
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Progress []OrderStageProgress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (ProductionOrder) TableName() string { return "production_orders" }

// OrderStageProgress tracks one order's advance through one stage.
type OrderStageProgress struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Stage   Stage     `gorm:"not null"`

	Status            OrderStatus     `gorm:"not null;default:'PENDING'"`
	ProcessedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`

	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

func (OrderStageProgress) TableName() string { return "order_stage_progress" }
