package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionRecord is one production event: quantities processed at a stage
// during a shift. Immutable once created except for the free-text notes.
// Efficiency and loss are derived at creation time via PercentOf.
type ProductionRecord struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date  time.Time `gorm:"type:date;not null;index"`
	Shift Shift     `gorm:"not null;index"`
	Stage Stage     `gorm:"not null;index"`

	// Quantities in kg
	InputQty  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	OutputQty decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ScrapQty  decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	// Wire specifications
	InputSizeMM   *float64
	OutputSizeMM  *float64
	InputSizeSWG  *int
	OutputSizeSWG *int

	// Derived at creation: output/input×100 and scrap/input×100 (0 if input=0)
	Efficiency     float64 `gorm:"not null"`
	LossPercentage float64 `gorm:"not null"`

	OperatorName *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StageConfig holds the per-stage thresholds and expected wire sizes.
// Read-only after the idempotent seed; only core stages carry a config row.
type StageConfig struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Stage Stage     `gorm:"uniqueIndex;not null"`

	ExpectedInputSizeMM  *float64
	ExpectedOutputSizeMM *float64

	MinEfficiency     float64 `gorm:"not null;default:85"`
	MaxLossPercentage float64 `gorm:"not null;default:5"`

	HasAnnealing  bool `gorm:"not null;default:false"`
	SequenceOrder int  `gorm:"not null"`
}

// TableName overrides GORM's pluralization (stage_configs, not stage_configurations).
func (StageConfig) TableName() string { return "stage_configs" }
