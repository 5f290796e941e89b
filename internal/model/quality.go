package model

import (
	"time"

	"github.com/google/uuid"
)

// Quality inspection outcomes.
const (
	QualityPassed  = "PASSED"
	QualityFailed  = "FAILED"
	QualityPending = "PENDING"
)

// Delivery states for dispatched orders.
const (
	DeliveryPending   = "PENDING"
	DeliveryInTransit = "IN_TRANSIT"
	DeliveryDelivered = "DELIVERED"
)

// QualityInspection is a post-production check on a finished batch.
// A PASSED inspection advances the batch to the Quality Check stage.
type QualityInspection struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID *uuid.UUID `gorm:"type:uuid;index"`

	InspectorName  string    `gorm:"not null"`
	InspectionDate time.Time `gorm:"type:date;not null"`
	QualityStatus  string    `gorm:"type:varchar(20);not null;index"` // PASSED | FAILED | PENDING

	DefectType  *string
	DefectCount int `gorm:"not null;default:0"`
	SampleSize  *float64

	Notes     *string
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (QualityInspection) TableName() string { return "quality_inspections" }

// DispatchRecord is an outbound shipment of a finished order.
type DispatchRecord struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`

	DispatchDate   time.Time `gorm:"type:date;not null"`
	TransportMode  string    `gorm:"not null"` // Truck, Rail, Air, ...
	VehicleNumber  *string
	TrackingNumber *string

	Destination     string `gorm:"not null"`
	CustomerContact *string

	DeliveryStatus string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DeliveredDate  *time.Time `gorm:"type:date"`

	DriverName *string
	Notes      *string
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (DispatchRecord) TableName() string { return "dispatch_records" }
