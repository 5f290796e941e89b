package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BatchStatus string

const (
	BatchActive   BatchStatus = "ACTIVE"
	BatchOnHold   BatchStatus = "ON_HOLD"
	BatchConsumed BatchStatus = "CONSUMED"
	BatchRejected BatchStatus = "REJECTED"
)

func (s BatchStatus) Valid() bool {
	switch s {
	case BatchActive, BatchOnHold, BatchConsumed, BatchRejected:
		return true
	}
	return false
}

// Hold event actions.
const (
	HoldActionHold   = "HOLD"
	HoldActionResume = "RESUME"
)

// BatchTracking follows one physical coil of material through the stage
// sequence. RemainingQuantity only ever shrinks; once the batch reaches the
// terminal stage it is CONSUMED and stays so.
type BatchTracking struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchNumber string    `gorm:"uniqueIndex;not null"`

	OrderID *uuid.UUID `gorm:"type:uuid;index"`

	InitialQuantity   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	WireSizeMM  *float64
	WireSizeSWG *int

	CurrentStage *Stage      `gorm:"index"`
	Status       BatchStatus `gorm:"not null;default:'ACTIVE';index"`

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	JourneyEvents []BatchJourneyEvent `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	HoldEvents    []BatchHoldEvent    `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

func (BatchTracking) TableName() string { return "batch_tracking" }

// HoldMarker appears as the from/to stage of journey events logged for
// hold and resume actions.
const HoldMarker = "HOLD"

// BatchJourneyEvent is one stage transition in a batch's history. Immutable.
// Stage fields are plain strings so hold/resume events can carry the HOLD
// marker alongside real stage names.
type BatchJourneyEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID uuid.UUID `gorm:"type:uuid;not null;index"`

	FromStage *string
	ToStage   string `gorm:"not null"`

	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ScrapQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`

	OperatorName *string
	Notes        *string
	CreatedAt    time.Time `gorm:"index"`
}

func (BatchJourneyEvent) TableName() string { return "batch_journey_events" }

// BatchHoldEvent records a hold or resume with its reason. Immutable.
type BatchHoldEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID uuid.UUID `gorm:"type:uuid;not null;index"`

	Action    string `gorm:"not null"` // HOLD | RESUME
	Reason    *string
	CreatedAt time.Time
}

func (BatchHoldEvent) TableName() string { return "batch_hold_events" }
