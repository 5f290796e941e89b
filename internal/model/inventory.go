package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction directions. OUT is validated against current stock before it
// mutates anything; IN always succeeds.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// InboundSource marks material entering the plant from outside the stage flow.
const InboundSource = "Inbound"

// StageInventory is the current stock held at one stage. Mutated only through
// signed transactions so every change leaves an InventoryTransaction behind.
type StageInventory struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Stage Stage     `gorm:"uniqueIndex;not null"`

	CurrentStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`

	WireSizeMM  *float64
	WireSizeSWG *int

	MinStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:500"`
	MaxStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:5000"`

	UpdatedAt time.Time
}

func (StageInventory) TableName() string { return "stage_inventory" }

// InventoryTransaction is the immutable audit record for one stock mutation.
// Never updated or deleted.
type InventoryTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Stage     Stage     `gorm:"not null;index"`
	Direction string    `gorm:"not null"` // IN | OUT

	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockBefore decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	ProductionRecordID *uuid.UUID `gorm:"type:uuid"`
	Notes              *string
	CreatedAt          time.Time `gorm:"index"`
}

// MaterialMovement records material crossing from one stage (or Inbound) to
// another. Always paired with the IN/OUT transactions that moved the stock.
type MaterialMovement struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	FromStage string `gorm:"not null;index"` // stage name or "Inbound"
	ToStage   Stage  `gorm:"not null;index"`

	Quantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	WireSizeMM  *float64
	WireSizeSWG *int

	// Batch traceability
	BatchID     *uuid.UUID `gorm:"type:uuid;index"`
	BatchNumber *string

	Notes     *string
	CreatedAt time.Time `gorm:"index"`
}
