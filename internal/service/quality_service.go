package service

import (
	"context"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityService covers the post-production handling of finished batches:
// quality inspections and outbound dispatch of completed orders.
type QualityService interface {
	RecordInspection(ctx context.Context, batchID uuid.UUID, req dto.QualityCheckRequest) (*dto.InspectionResponse, error)
	ListInspections(ctx context.Context, filter dto.InspectionFilter) ([]dto.InspectionResponse, error)

	RecordDispatch(ctx context.Context, orderID uuid.UUID, req dto.DispatchRequest) (*dto.DispatchResponse, error)
	ListDispatches(ctx context.Context, filter dto.DispatchFilter) ([]dto.DispatchResponse, error)
	UpdateDeliveryStatus(ctx context.Context, dispatchID uuid.UUID, req dto.DeliveryStatusUpdateRequest) (*dto.DispatchResponse, error)
}

type qualityService struct {
	repo      repository.QualityRepository
	batchRepo repository.BatchRepository
	orderRepo repository.OrderRepository
}

func NewQualityService(
	repo repository.QualityRepository,
	batchRepo repository.BatchRepository,
	orderRepo repository.OrderRepository,
) QualityService {
	return &qualityService{repo: repo, batchRepo: batchRepo, orderRepo: orderRepo}
}

func (s *qualityService) RecordInspection(ctx context.Context, batchID uuid.UUID, req dto.QualityCheckRequest) (*dto.InspectionResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, NewNotFoundError("batch %s not found", batchID)
	}

	inspection := &model.QualityInspection{
		BatchID:        batch.ID,
		OrderID:        batch.OrderID,
		InspectorName:  req.InspectorName,
		InspectionDate: time.Now().Truncate(24 * time.Hour),
		QualityStatus:  req.QualityStatus,
		DefectType:     req.DefectType,
		DefectCount:    req.DefectCount,
		SampleSize:     req.SampleSize,
		Notes:          req.Notes,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateInspectionTx(tx, inspection); err != nil {
			return err
		}
		// Passing inspection moves the batch into post-production handling.
		if req.QualityStatus == model.QualityPassed {
			qc := model.StageQualityCheck
			batch.CurrentStage = &qc
			return s.batchRepo.UpdateTx(tx, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := inspectionToResponse(inspection)
	return &resp, nil
}

func (s *qualityService) ListInspections(ctx context.Context, filter dto.InspectionFilter) ([]dto.InspectionResponse, error) {
	inspections, err := s.repo.ListInspections(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InspectionResponse, len(inspections))
	for i := range inspections {
		resp[i] = inspectionToResponse(&inspections[i])
	}
	return resp, nil
}

func (s *qualityService) RecordDispatch(ctx context.Context, orderID uuid.UUID, req dto.DispatchRequest) (*dto.DispatchResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, NewNotFoundError("order %s not found", orderID)
	}

	dispatch := &model.DispatchRecord{
		OrderID:         order.ID,
		DispatchDate:    time.Now().Truncate(24 * time.Hour),
		TransportMode:   req.TransportMode,
		VehicleNumber:   req.VehicleNumber,
		TrackingNumber:  req.TrackingNumber,
		Destination:     req.Destination,
		CustomerContact: req.CustomerContact,
		DeliveryStatus:  model.DeliveryInTransit,
		DriverName:      req.DriverName,
		Notes:           req.Notes,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateDispatchTx(tx, dispatch); err != nil {
			return err
		}
		disp := model.StageDispatch
		order.Status = model.OrderDispatched
		order.CurrentStage = &disp
		return s.orderRepo.UpdateTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	resp := dispatchToResponse(dispatch)
	return &resp, nil
}

func (s *qualityService) ListDispatches(ctx context.Context, filter dto.DispatchFilter) ([]dto.DispatchResponse, error) {
	dispatches, err := s.repo.ListDispatches(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DispatchResponse, len(dispatches))
	for i := range dispatches {
		resp[i] = dispatchToResponse(&dispatches[i])
	}
	return resp, nil
}

func (s *qualityService) UpdateDeliveryStatus(ctx context.Context, dispatchID uuid.UUID, req dto.DeliveryStatusUpdateRequest) (*dto.DispatchResponse, error) {
	dispatch, err := s.repo.FindDispatchByID(ctx, dispatchID)
	if err != nil {
		return nil, NewNotFoundError("dispatch %s not found", dispatchID)
	}

	dispatch.DeliveryStatus = req.DeliveryStatus
	if req.DeliveredDate != nil {
		d, err := time.Parse("2006-01-02", *req.DeliveredDate)
		if err != nil {
			return nil, NewValidationError("invalid delivered_date %q", *req.DeliveredDate)
		}
		dispatch.DeliveredDate = &d
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveDispatchTx(tx, dispatch); err != nil {
			return err
		}
		if req.DeliveryStatus != model.DeliveryDelivered {
			return nil
		}
		order, err := s.orderRepo.FindByIDTx(tx, dispatch.OrderID)
		if err != nil {
			return nil // dispatch keeps its status even without the order
		}
		order.Status = model.OrderDelivered
		return s.orderRepo.UpdateTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	resp := dispatchToResponse(dispatch)
	return &resp, nil
}

func inspectionToResponse(q *model.QualityInspection) dto.InspectionResponse {
	var orderID *string
	if q.OrderID != nil {
		id := q.OrderID.String()
		orderID = &id
	}
	return dto.InspectionResponse{
		ID:             q.ID.String(),
		BatchID:        q.BatchID.String(),
		OrderID:        orderID,
		InspectorName:  q.InspectorName,
		InspectionDate: q.InspectionDate.Format("2006-01-02"),
		QualityStatus:  q.QualityStatus,
		DefectType:     q.DefectType,
		DefectCount:    q.DefectCount,
		SampleSize:     q.SampleSize,
		Notes:          q.Notes,
	}
}

func dispatchToResponse(d *model.DispatchRecord) dto.DispatchResponse {
	var delivered *string
	if d.DeliveredDate != nil {
		s := d.DeliveredDate.Format("2006-01-02")
		delivered = &s
	}
	return dto.DispatchResponse{
		ID:              d.ID.String(),
		OrderID:         d.OrderID.String(),
		DispatchDate:    d.DispatchDate.Format("2006-01-02"),
		TransportMode:   d.TransportMode,
		VehicleNumber:   d.VehicleNumber,
		TrackingNumber:  d.TrackingNumber,
		Destination:     d.Destination,
		CustomerContact: d.CustomerContact,
		DeliveryStatus:  d.DeliveryStatus,
		DeliveredDate:   delivered,
		DriverName:      d.DriverName,
		Notes:           d.Notes,
	}
}
