package service

import (
	"context"
	"errors"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductionService is the append-mostly ledger of shift production events.
type ProductionService interface {
	CreateRecord(ctx context.Context, req dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	CreateEntry(ctx context.Context, req dto.CreateProductionEntryRequest) (*dto.ProductionEntryResult, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*dto.ProductionRecordResponse, error)
	ListRecords(ctx context.Context, filter dto.ProductionFilter) (*dto.ProductionListResponse, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, req dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	QuickStats(ctx context.Context) (*dto.QuickStats, error)
}

type productionService struct {
	repo      repository.ProductionRepository
	orderRepo repository.OrderRepository
	orders    OrderService
	inventory InventoryService
}

func NewProductionService(
	repo repository.ProductionRepository,
	orderRepo repository.OrderRepository,
	orders OrderService,
	inventory InventoryService,
) ProductionService {
	return &productionService{repo: repo, orderRepo: orderRepo, orders: orders, inventory: inventory}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// buildRecord validates the request and derives efficiency and loss.
func buildRecord(req dto.CreateProductionRecordRequest) (*model.ProductionRecord, error) {
	stage := model.Stage(req.Stage)
	if !stage.Valid() {
		return nil, NewValidationError("unknown stage: %s", req.Stage)
	}
	if !model.Shift(req.Shift).Valid() {
		return nil, NewValidationError("unknown shift: %s", req.Shift)
	}
	if req.InputQty.Sign() < 0 || req.OutputQty.Sign() < 0 || req.ScrapQty.Sign() < 0 {
		return nil, NewValidationError("quantities must not be negative")
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, NewValidationError("invalid date: %s", req.Date)
	}

	return &model.ProductionRecord{
		Date:           day,
		Shift:          model.Shift(req.Shift),
		Stage:          stage,
		InputQty:       req.InputQty,
		OutputQty:      req.OutputQty,
		ScrapQty:       req.ScrapQty,
		InputSizeMM:    req.InputSizeMM,
		OutputSizeMM:   req.OutputSizeMM,
		InputSizeSWG:   req.InputSWG,
		OutputSizeSWG:  req.OutputSWG,
		Efficiency:     model.PercentOf(req.OutputQty, req.InputQty),
		LossPercentage: model.PercentOf(req.ScrapQty, req.InputQty),
		OperatorName:   req.OperatorName,
		Notes:          req.Notes,
	}, nil
}

func (s *productionService) CreateRecord(ctx context.Context, req dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	rec, err := buildRecord(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	resp := recordToResponse(rec)
	return &resp, nil
}

// CreateEntry is the shop-floor flow: the record, an inventory IN of the
// output at the record's stage, and optional order progress, in one
// transaction.
func (s *productionService) CreateEntry(ctx context.Context, req dto.CreateProductionEntryRequest) (*dto.ProductionEntryResult, error) {
	rec, err := buildRecord(req.CreateProductionRecordRequest)
	if err != nil {
		return nil, err
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, NewValidationError("invalid order_id: %s", *req.OrderID)
		}
		orderID = &id
	}

	result := &dto.ProductionEntryResult{}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, rec); err != nil {
			return err
		}

		note := "Production entry: " + rec.Date.Format("2006-01-02") + " " + string(rec.Shift)
		after, err := s.inventory.ApplyTx(tx, rec.Stage, model.DirectionIn, rec.OutputQty, &rec.ID, note)
		if err != nil {
			return err
		}
		result.NewStockLevel = after

		if orderID != nil {
			upd, err := s.orders.AdvanceProgressTx(tx, *orderID, rec.Stage, rec.InputQty)
			if err != nil {
				return err
			}
			result.OrderUpdate = upd
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	result.Record = recordToResponse(rec)
	return result, nil
}

func (s *productionService) GetRecord(ctx context.Context, id uuid.UUID) (*dto.ProductionRecordResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("production record %s not found", id)
		}
		return nil, err
	}
	resp := recordToResponse(rec)
	return &resp, nil
}

func (s *productionService) ListRecords(ctx context.Context, filter dto.ProductionFilter) (*dto.ProductionListResponse, error) {
	if filter.Stage != "" && !model.Stage(filter.Stage).Valid() {
		return nil, NewValidationError("unknown stage: %s", filter.Stage)
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, recordToResponse(&records[i]))
	}
	return &dto.ProductionListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateRecord amends the free-text fields of a stored record. Quantities,
// date, shift and stage never change after creation, so the derived
// efficiency and loss stay untouched.
func (s *productionService) UpdateRecord(ctx context.Context, id uuid.UUID, req dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("production record %s not found", id)
		}
		return nil, err
	}

	if req.OperatorName != nil {
		rec.OperatorName = req.OperatorName
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	resp := recordToResponse(rec)
	return &resp, nil
}

func (s *productionService) QuickStats(ctx context.Context) (*dto.QuickStats, error) {
	today, err := s.repo.ListByDate(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	activeOrders, err := s.orderRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.inventory.Summary(ctx)
	if err != nil {
		return nil, err
	}
	lowStock := 0
	for _, st := range summary.Stages {
		if st.Status == "low" {
			lowStock++
		}
	}

	stats := &dto.QuickStats{
		TodayEntries:   len(today),
		ActiveOrders:   activeOrders,
		TotalInventory: summary.TotalStockAllStages,
		LowStockAlerts: lowStock,
	}
	if len(today) > 0 {
		last := today[len(today)-1].CreatedAt.Format(time.RFC3339)
		stats.LastEntryTime = &last
	}
	return stats, nil
}

func recordToResponse(rec *model.ProductionRecord) dto.ProductionRecordResponse {
	return dto.ProductionRecordResponse{
		ID:             rec.ID.String(),
		Date:           rec.Date.Format("2006-01-02"),
		Shift:          string(rec.Shift),
		Stage:          string(rec.Stage),
		InputQty:       rec.InputQty,
		OutputQty:      rec.OutputQty,
		ScrapQty:       rec.ScrapQty,
		InputSizeMM:    rec.InputSizeMM,
		OutputSizeMM:   rec.OutputSizeMM,
		InputSWG:       rec.InputSizeSWG,
		OutputSWG:      rec.OutputSizeSWG,
		Efficiency:     rec.Efficiency,
		LossPercentage: rec.LossPercentage,
		OperatorName:   rec.OperatorName,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
	}
}
