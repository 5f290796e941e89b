package service

import (
	"context"
	"errors"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService tracks customer orders through the stage sequence.
type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error)
	StatusReport(ctx context.Context, status string) (*dto.OrderStatusReport, error)

	// AdvanceProgressTx records material processed at one stage against an
	// order, inside the caller's transaction. Output at the terminal stage
	// counts toward the order's completed quantity.
	AdvanceProgressTx(tx *gorm.DB, orderID uuid.UUID, stage model.Stage, qty decimal.Decimal) (*dto.OrderProgressUpdate, error)
}

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if req.OrderedQuantity.Sign() <= 0 {
		return nil, NewValidationError("ordered_quantity must be positive")
	}
	if existing, err := s.repo.FindByNumber(ctx, req.OrderNumber); err == nil && existing != nil {
		return nil, NewValidationError("order number %s already exists", req.OrderNumber)
	}

	order := &model.ProductionOrder{
		OrderNumber:     req.OrderNumber,
		CustomerName:    req.CustomerName,
		OrderedQuantity: req.OrderedQuantity,
		WireSizeMM:      req.WireSizeMM,
		WireSizeSWG:     req.WireSizeSWG,
		Status:          model.OrderPending,
		Priority:        1,
		Notes:           req.Notes,
	}
	if req.Priority != nil {
		order.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, NewValidationError("invalid due_date: %s", *req.DueDate)
		}
		order.DueDate = &due
	}

	// One PENDING progress row per stage of the full sequence, up front.
	for _, st := range model.AllStages() {
		order.Progress = append(order.Progress, model.OrderStageProgress{
			Stage:  st,
			Status: model.OrderPending,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	resp := orderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order %s not found", id)
		}
		return nil, err
	}
	resp := orderToResponse(order)
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order %s not found", id)
		}
		return nil, err
	}

	status := model.OrderStatus(req.Status)
	if !status.Valid() {
		return nil, NewValidationError("unknown order status: %s", req.Status)
	}
	order.Status = status
	if req.Notes != nil {
		order.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	resp := orderToResponse(order)
	return &resp, nil
}

func (s *orderService) StatusReport(ctx context.Context, status string) (*dto.OrderStatusReport, error) {
	orders, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	totalOrdered := decimal.Zero
	totalCompleted := decimal.Zero
	breakdown := map[string]int{
		string(model.OrderPending):    0,
		string(model.OrderInProgress): 0,
		string(model.OrderCompleted):  0,
		string(model.OrderOnHold):     0,
		string(model.OrderCancelled):  0,
	}
	urgent, high := 0, 0
	lines := make([]dto.OrderReportLine, 0, len(orders))

	for i := range orders {
		o := &orders[i]
		totalOrdered = totalOrdered.Add(o.OrderedQuantity)
		totalCompleted = totalCompleted.Add(o.CompletedQuantity)
		breakdown[string(o.Status)]++
		if o.Status != model.OrderCompleted {
			switch o.Priority {
			case 3:
				urgent++
			case 2:
				high++
			}
		}

		var due *string
		if o.DueDate != nil {
			d := o.DueDate.Format("2006-01-02")
			due = &d
		}
		lines = append(lines, dto.OrderReportLine{
			OrderNumber:          o.OrderNumber,
			CustomerName:         o.CustomerName,
			Status:               string(o.Status),
			OrderedQuantity:      o.OrderedQuantity,
			CompletedQuantity:    o.CompletedQuantity,
			CompletionPercentage: model.PercentOf(o.CompletedQuantity, o.OrderedQuantity),
			OrderDate:            o.CreatedAt.Format("2006-01-02"),
			DueDate:              due,
			Priority:             o.Priority,
		})
	}

	return &dto.OrderStatusReport{
		ReportGeneratedAt:           time.Now().Format("2006-01-02"),
		TotalOrders:                 len(orders),
		TotalOrderedQuantity:        totalOrdered,
		TotalCompletedQuantity:      totalCompleted,
		OverallCompletionPercentage: model.PercentOf(totalCompleted, totalOrdered),
		StatusBreakdown:             breakdown,
		UrgentOrders:                urgent,
		HighPriorityOrders:          high,
		Orders:                      lines,
	}, nil
}

func (s *orderService) AdvanceProgressTx(tx *gorm.DB, orderID uuid.UUID, stage model.Stage, qty decimal.Decimal) (*dto.OrderProgressUpdate, error) {
	order, err := s.repo.FindByIDTx(tx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order %s not found", orderID)
		}
		return nil, err
	}

	progress, err := s.repo.FindProgressTx(tx, orderID, stage)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.OrderStageProgress{OrderID: orderID, Stage: stage, Status: model.OrderPending}
	}

	now := time.Now()
	if progress.Status == model.OrderPending {
		progress.Status = model.OrderInProgress
		progress.StartedAt = &now
	}
	progress.ProcessedQuantity = progress.ProcessedQuantity.Add(qty)

	// Stage completion compares against the order's full quantity.
	if progress.ProcessedQuantity.GreaterThanOrEqual(order.OrderedQuantity) {
		progress.Status = model.OrderCompleted
		progress.CompletedAt = &now
	}
	if err := s.repo.UpdateProgressTx(tx, progress); err != nil {
		return nil, err
	}

	order.CurrentStage = &stage
	if stage == model.TerminalStage {
		order.CompletedQuantity = order.CompletedQuantity.Add(qty)
		if order.CompletedQuantity.GreaterThanOrEqual(order.OrderedQuantity) {
			order.Status = model.OrderCompleted
		} else {
			order.Status = model.OrderInProgress
		}
	} else if order.Status == model.OrderPending {
		order.Status = model.OrderInProgress
	}
	if err := s.repo.UpdateTx(tx, order); err != nil {
		return nil, err
	}

	var cur *string
	if order.CurrentStage != nil {
		c := string(*order.CurrentStage)
		cur = &c
	}
	return &dto.OrderProgressUpdate{
		OrderID:           order.ID.String(),
		OrderNumber:       order.OrderNumber,
		Status:            string(order.Status),
		CurrentStage:      cur,
		CompletedQuantity: order.CompletedQuantity,
		OrderedQuantity:   order.OrderedQuantity,
		StageStatus:       string(progress.Status),
		StageOutput:       progress.ProcessedQuantity,
	}, nil
}

func orderToResponse(o *model.ProductionOrder) dto.OrderResponse {
	var due *string
	if o.DueDate != nil {
		d := o.DueDate.Format("2006-01-02")
		due = &d
	}
	var cur *string
	if o.CurrentStage != nil {
		c := string(*o.CurrentStage)
		cur = &c
	}

	progress := make([]dto.OrderStageProgressResponse, 0, len(o.Progress))
	for i := range o.Progress {
		p := &o.Progress[i]
		var started, completed *string
		if p.StartedAt != nil {
			s := p.StartedAt.Format(time.RFC3339)
			started = &s
		}
		if p.CompletedAt != nil {
			c := p.CompletedAt.Format(time.RFC3339)
			completed = &c
		}
		progress = append(progress, dto.OrderStageProgressResponse{
			Stage:             string(p.Stage),
			Status:            string(p.Status),
			ProcessedQuantity: p.ProcessedQuantity,
			StartedAt:         started,
			CompletedAt:       completed,
		})
	}

	return dto.OrderResponse{
		ID:                o.ID.String(),
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		OrderedQuantity:   o.OrderedQuantity,
		CompletedQuantity: o.CompletedQuantity,
		WireSizeMM:        o.WireSizeMM,
		WireSizeSWG:       o.WireSizeSWG,
		Status:            string(o.Status),
		CurrentStage:      cur,
		Priority:          o.Priority,
		DueDate:           due,
		Notes:             o.Notes,
		Progress:          progress,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
}
