package dto

// ─── Filter ──────────────────────────────────────────────────────────────────

type InspectionFilter struct {
	BatchID string `form:"batch_id" validate:"omitempty,uuid"`
	OrderID string `form:"order_id" validate:"omitempty,uuid"`
	Status  string `form:"status"   validate:"omitempty,oneof=PASSED FAILED PENDING"`
}

type DispatchFilter struct {
	OrderID string `form:"order_id" validate:"omitempty,uuid"`
	Status  string `form:"status"   validate:"omitempty,oneof=PENDING IN_TRANSIT DELIVERED"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type QualityCheckRequest struct {
	InspectorName string   `json:"inspector_name" validate:"required,min=2"`
	QualityStatus string   `json:"quality_status" validate:"required,oneof=PASSED FAILED PENDING"`
	DefectType    *string  `json:"defect_type"`
	DefectCount   int      `json:"defect_count" validate:"min=0"`
	SampleSize    *float64 `json:"sample_size"  validate:"omitempty,gt=0"`
	Notes         *string  `json:"notes"`
}

type DispatchRequest struct {
	TransportMode   string  `json:"transport_mode" validate:"required,min=2"`
	Destination     string  `json:"destination"    validate:"required,min=2"`
	VehicleNumber   *string `json:"vehicle_number"`
	TrackingNumber  *string `json:"tracking_number"`
	CustomerContact *string `json:"customer_contact"`
	DriverName      *string `json:"driver_name"`
	Notes           *string `json:"notes"`
}

type DeliveryStatusUpdateRequest struct {
	DeliveryStatus string  `json:"delivery_status" validate:"required,oneof=PENDING IN_TRANSIT DELIVERED"`
	DeliveredDate  *string `json:"delivered_date"  validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InspectionResponse struct {
	ID             string   `json:"id"`
	BatchID        string   `json:"batch_id"`
	OrderID        *string  `json:"order_id"`
	InspectorName  string   `json:"inspector_name"`
	InspectionDate string   `json:"inspection_date"`
	QualityStatus  string   `json:"quality_status"`
	DefectType     *string  `json:"defect_type"`
	DefectCount    int      `json:"defect_count"`
	SampleSize     *float64 `json:"sample_size"`
	Notes          *string  `json:"notes"`
}

type DispatchResponse struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"order_id"`
	DispatchDate    string  `json:"dispatch_date"`
	TransportMode   string  `json:"transport_mode"`
	VehicleNumber   *string `json:"vehicle_number"`
	TrackingNumber  *string `json:"tracking_number"`
	Destination     string  `json:"destination"`
	CustomerContact *string `json:"customer_contact"`
	DeliveryStatus  string  `json:"delivery_status"`
	DeliveredDate   *string `json:"delivered_date"`
	DriverName      *string `json:"driver_name"`
	Notes           *string `json:"notes"`
}
