package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService is the stock ledger: every mutation goes through a signed
// transaction so the trail can always be audited or replayed.
type InventoryService interface {
	ListStocks(ctx context.Context) ([]dto.StageInventoryResponse, error)
	GetStock(ctx context.Context, stage string) (*dto.StageInventoryResponse, error)
	Summary(ctx context.Context) (*dto.InventorySummary, error)
	Alerts(ctx context.Context) ([]dto.StockAlert, error)
	UpdateInventory(ctx context.Context, req dto.InventoryUpdateRequest) (*dto.InventoryUpdateResult, error)
	RecordMovement(ctx context.Context, req dto.MaterialMovementRequest) (*dto.MaterialMovementResponse, error)
	UpdateStockLevels(ctx context.Context, stage string, req dto.UpdateStockLevelsRequest) (*dto.StageInventoryResponse, error)
	Transactions(ctx context.Context, stage string, limit int) ([]dto.InventoryTransactionResponse, error)
	Movements(ctx context.Context, limit int) ([]dto.MaterialMovementResponse, error)
	SyncFromProduction(ctx context.Context, since *time.Time) (*dto.SyncResult, error)

	// EnsureStocks seeds a zero-stock row per core stage at boot.
	EnsureStocks(ctx context.Context) error

	// ApplyTx and MoveTx are called within an enclosing transaction —
	// callers pass the live tx instance.
	ApplyTx(tx *gorm.DB, stage model.Stage, direction string, qty decimal.Decimal, recordID *uuid.UUID, notes string) (decimal.Decimal, error)
	MoveTx(tx *gorm.DB, fromStage *model.Stage, toStage model.Stage, qty decimal.Decimal, m *model.MaterialMovement) error
}

type inventoryService struct {
	repo     repository.InventoryRepository
	prodRepo repository.ProductionRepository
	orders   OrderService
}

func NewInventoryService(repo repository.InventoryRepository, prodRepo repository.ProductionRepository, orders OrderService) InventoryService {
	return &inventoryService{repo: repo, prodRepo: prodRepo, orders: orders}
}

var (
	defaultMinStock = decimal.NewFromInt(500)
	defaultMaxStock = decimal.NewFromInt(5000)
)

func (s *inventoryService) EnsureStocks(ctx context.Context) error {
	stages := model.CoreStages()
	seeds := make([]model.StageInventory, 0, len(stages))
	for _, st := range stages {
		seeds = append(seeds, model.StageInventory{
			Stage:         st,
			CurrentStock:  decimal.Zero,
			MinStockLevel: defaultMinStock,
			MaxStockLevel: defaultMaxStock,
		})
	}
	return s.repo.SeedStocks(ctx, seeds)
}

func (s *inventoryService) ListStocks(ctx context.Context) ([]dto.StageInventoryResponse, error) {
	stocks, err := s.repo.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StageInventoryResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, stockToResponse(&stocks[i]))
	}
	return out, nil
}

func (s *inventoryService) GetStock(ctx context.Context, stage string) (*dto.StageInventoryResponse, error) {
	st := model.Stage(stage)
	if !st.Valid() {
		return nil, NewValidationError("unknown stage: %s", stage)
	}
	inv, err := s.repo.FindStock(ctx, st)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("no inventory for stage %s", stage)
		}
		return nil, err
	}
	resp := stockToResponse(inv)
	return &resp, nil
}

func (s *inventoryService) Summary(ctx context.Context) (*dto.InventorySummary, error) {
	stocks, err := s.repo.ListStocks(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	stages := make([]dto.StageUtilization, 0, len(stocks))
	for i := range stocks {
		inv := &stocks[i]
		total = total.Add(inv.CurrentStock)
		stages = append(stages, dto.StageUtilization{
			Stage:        string(inv.Stage),
			CurrentStock: inv.CurrentStock,
			MinLevel:     inv.MinStockLevel,
			MaxLevel:     inv.MaxStockLevel,
			Utilization:  model.PercentOf(inv.CurrentStock, inv.MaxStockLevel),
			Status:       stockStatus(inv),
		})
	}

	return &dto.InventorySummary{
		TotalStockAllStages: total,
		Stages:              stages,
		Alerts:              stockAlerts(stocks),
	}, nil
}

func (s *inventoryService) Alerts(ctx context.Context) ([]dto.StockAlert, error) {
	stocks, err := s.repo.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	return stockAlerts(stocks), nil
}

// UpdateInventory applies one signed stock mutation with the sequential flow
// rule: an IN to a non-first core stage first debits the previous stage
// (RBD → Inter → Oven → DPC → Rewind). Optionally advances order progress.
func (s *inventoryService) UpdateInventory(ctx context.Context, req dto.InventoryUpdateRequest) (*dto.InventoryUpdateResult, error) {
	st := model.Stage(req.Stage)
	if !st.Valid() {
		return nil, NewValidationError("unknown stage: %s", req.Stage)
	}
	if req.Quantity.Sign() <= 0 {
		return nil, NewValidationError("quantity must be positive")
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, NewValidationError("invalid order_id: %s", *req.OrderID)
		}
		orderID = &id
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	var newStock decimal.Decimal
	var orderUpdate *dto.OrderProgressUpdate
	prev, hasPrev := model.PreviousCoreStage(st)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Direction == model.DirectionIn && hasPrev {
			if _, err := s.ApplyTx(tx, prev, model.DirectionOut, req.Quantity, nil, fmt.Sprintf("Moved to %s", st)); err != nil {
				return err
			}
		}

		after, err := s.ApplyTx(tx, st, req.Direction, req.Quantity, nil, notes)
		if err != nil {
			return err
		}
		newStock = after

		if orderID != nil && req.Direction == model.DirectionIn {
			upd, err := s.orders.AdvanceProgressTx(tx, *orderID, st, req.Quantity)
			if err != nil {
				return err
			}
			orderUpdate = upd
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	msg := fmt.Sprintf("Inventory updated for %s", st)
	if req.Direction == model.DirectionIn && hasPrev {
		msg += fmt.Sprintf(" (moved from %s)", prev)
	}

	return &dto.InventoryUpdateResult{
		Stage:         string(st),
		Direction:     req.Direction,
		Quantity:      req.Quantity,
		NewStockLevel: newStock,
		Message:       msg,
		OrderUpdate:   orderUpdate,
	}, nil
}

func (s *inventoryService) RecordMovement(ctx context.Context, req dto.MaterialMovementRequest) (*dto.MaterialMovementResponse, error) {
	to := model.Stage(req.ToStage)
	if !to.Valid() {
		return nil, NewValidationError("unknown destination stage: %s", req.ToStage)
	}
	if req.Quantity.Sign() <= 0 {
		return nil, NewValidationError("quantity must be positive")
	}

	var from *model.Stage
	if req.FromStage != "" && req.FromStage != model.InboundSource {
		f := model.Stage(req.FromStage)
		if !f.Valid() {
			return nil, NewValidationError("unknown source stage: %s", req.FromStage)
		}
		from = &f
	}

	movement := &model.MaterialMovement{
		ToStage:     to,
		Quantity:    req.Quantity,
		WireSizeMM:  req.WireSizeMM,
		WireSizeSWG: req.WireSizeSWG,
		Notes:       req.Notes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.MoveTx(tx, from, to, req.Quantity, movement)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := movementToResponse(movement)
	return &resp, nil
}

// MoveTx debits the source stage (unless material comes from outside the
// plant), credits the destination and records the movement row. Any failure
// aborts the enclosing transaction.
func (s *inventoryService) MoveTx(tx *gorm.DB, fromStage *model.Stage, toStage model.Stage, qty decimal.Decimal, m *model.MaterialMovement) error {
	fromName := model.InboundSource
	if fromStage != nil {
		fromName = string(*fromStage)
		if _, err := s.ApplyTx(tx, *fromStage, model.DirectionOut, qty, nil, fmt.Sprintf("Moved to %s", toStage)); err != nil {
			return err
		}
	}
	if _, err := s.ApplyTx(tx, toStage, model.DirectionIn, qty, nil, fmt.Sprintf("Received from %s", fromName)); err != nil {
		return err
	}

	m.FromStage = fromName
	m.ToStage = toStage
	m.Quantity = qty
	return s.repo.CreateMovementTx(tx, m)
}

// ApplyTx mutates one stage's stock and writes the audit transaction row.
// OUT beyond the available stock fails without touching anything. Stages
// without an inventory row yet (the post-production ones are not seeded at
// boot) get a zero-stock row created on first use.
func (s *inventoryService) ApplyTx(tx *gorm.DB, stage model.Stage, direction string, qty decimal.Decimal, recordID *uuid.UUID, notes string) (decimal.Decimal, error) {
	inv, err := s.repo.FindStockTx(tx, stage)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inv = &model.StageInventory{
			Stage:         stage,
			CurrentStock:  decimal.Zero,
			MinStockLevel: defaultMinStock,
			MaxStockLevel: defaultMaxStock,
		}
		err = s.repo.CreateStockTx(tx, inv)
	}
	if err != nil {
		return decimal.Zero, err
	}

	before := inv.CurrentStock
	var after decimal.Decimal
	switch direction {
	case model.DirectionIn:
		after = before.Add(qty)
	case model.DirectionOut:
		if before.LessThan(qty) {
			return decimal.Zero, &InsufficientStockError{Stage: stage, Available: before, Required: qty}
		}
		after = before.Sub(qty)
	default:
		return decimal.Zero, NewValidationError("direction must be IN or OUT")
	}

	if err := s.repo.SetStockTx(tx, stage, after); err != nil {
		return decimal.Zero, err
	}

	t := &model.InventoryTransaction{
		Stage:              stage,
		Direction:          direction,
		Quantity:           qty,
		StockBefore:        before,
		StockAfter:         after,
		ProductionRecordID: recordID,
	}
	if notes != "" {
		t.Notes = &notes
	}
	if err := s.repo.CreateTransactionTx(tx, t); err != nil {
		return decimal.Zero, err
	}
	return after, nil
}

func (s *inventoryService) UpdateStockLevels(ctx context.Context, stage string, req dto.UpdateStockLevelsRequest) (*dto.StageInventoryResponse, error) {
	st := model.Stage(stage)
	if !st.Valid() {
		return nil, NewValidationError("unknown stage: %s", stage)
	}
	inv, err := s.repo.FindStock(ctx, st)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("no inventory for stage %s", stage)
		}
		return nil, err
	}

	if req.MinStockLevel != nil {
		inv.MinStockLevel = *req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		inv.MaxStockLevel = *req.MaxStockLevel
	}
	if inv.MaxStockLevel.LessThan(inv.MinStockLevel) {
		return nil, NewValidationError("max stock level must not be below min stock level")
	}
	if req.WireSizeMM != nil {
		inv.WireSizeMM = req.WireSizeMM
	}
	if req.WireSizeSWG != nil {
		inv.WireSizeSWG = req.WireSizeSWG
	}

	if err := s.repo.UpdateStock(ctx, inv); err != nil {
		return nil, err
	}
	resp := stockToResponse(inv)
	return &resp, nil
}

func (s *inventoryService) Transactions(ctx context.Context, stage string, limit int) ([]dto.InventoryTransactionResponse, error) {
	var st model.Stage
	if stage != "" {
		st = model.Stage(stage)
		if !st.Valid() {
			return nil, NewValidationError("unknown stage: %s", stage)
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	txns, err := s.repo.ListTransactions(ctx, st, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryTransactionResponse, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		out = append(out, dto.InventoryTransactionResponse{
			ID:          t.ID.String(),
			Stage:       string(t.Stage),
			Direction:   t.Direction,
			Quantity:    t.Quantity,
			StockBefore: t.StockBefore,
			StockAfter:  t.StockAfter,
			Notes:       t.Notes,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *inventoryService) Movements(ctx context.Context, limit int) ([]dto.MaterialMovementResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	movements, err := s.repo.ListMovements(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialMovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, movementToResponse(&movements[i]))
	}
	return out, nil
}

// SyncFromProduction rebuilds every stage's stock from the production ledger:
// stocks reset to zero, then each record replays as IN of its input followed
// by OUT of its output at the record's own stage, in (date, id) order. A
// non-nil since restricts the replay to records dated on or after it. The
// whole rebuild, reads included, is one transaction.
func (s *inventoryService) SyncFromProduction(ctx context.Context, since *time.Time) (*dto.SyncResult, error) {
	var replayed int64

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ResetAllStocksTx(tx); err != nil {
			return err
		}

		records, err := s.prodRepo.ListOrderedTx(tx, since)
		if err != nil {
			return err
		}

		for i := range records {
			rec := &records[i]
			note := fmt.Sprintf("Production on %s", rec.Date.Format("2006-01-02"))
			if _, err := s.ApplyTx(tx, rec.Stage, model.DirectionIn, rec.InputQty, &rec.ID, note); err != nil {
				return err
			}
			if _, err := s.ApplyTx(tx, rec.Stage, model.DirectionOut, rec.OutputQty, &rec.ID, note); err != nil {
				return err
			}
			replayed++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	stocks, err := s.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SyncResult{RecordsReplayed: replayed, Stocks: stocks}, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func stockStatus(inv *model.StageInventory) string {
	switch {
	case inv.CurrentStock.LessThan(inv.MinStockLevel):
		return "low"
	case inv.CurrentStock.GreaterThan(inv.MaxStockLevel):
		return "high"
	default:
		return "normal"
	}
}

func stockAlerts(stocks []model.StageInventory) []dto.StockAlert {
	alerts := make([]dto.StockAlert, 0)
	for i := range stocks {
		inv := &stocks[i]
		if inv.CurrentStock.LessThan(inv.MinStockLevel) {
			alerts = append(alerts, dto.StockAlert{
				Stage:    string(inv.Stage),
				Type:     "LOW_STOCK",
				Severity: "warning",
				Message: fmt.Sprintf("%s: Low stock (%s kg, min: %s kg)",
					inv.Stage, inv.CurrentStock.StringFixed(1), inv.MinStockLevel.StringFixed(1)),
				CurrentStock: inv.CurrentStock,
				Threshold:    inv.MinStockLevel,
			})
		}
		if inv.CurrentStock.GreaterThan(inv.MaxStockLevel) {
			alerts = append(alerts, dto.StockAlert{
				Stage:    string(inv.Stage),
				Type:     "OVERSTOCK",
				Severity: "warning",
				Message: fmt.Sprintf("%s: Overstocked (%s kg, max: %s kg)",
					inv.Stage, inv.CurrentStock.StringFixed(1), inv.MaxStockLevel.StringFixed(1)),
				CurrentStock: inv.CurrentStock,
				Threshold:    inv.MaxStockLevel,
			})
		}
	}
	return alerts
}

func stockToResponse(inv *model.StageInventory) dto.StageInventoryResponse {
	return dto.StageInventoryResponse{
		ID:            inv.ID.String(),
		Stage:         string(inv.Stage),
		CurrentStock:  inv.CurrentStock,
		MinStockLevel: inv.MinStockLevel,
		MaxStockLevel: inv.MaxStockLevel,
		WireSizeMM:    inv.WireSizeMM,
		WireSizeSWG:   inv.WireSizeSWG,
		StockStatus:   stockStatus(inv),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
	}
}

func movementToResponse(m *model.MaterialMovement) dto.MaterialMovementResponse {
	return dto.MaterialMovementResponse{
		ID:          m.ID.String(),
		FromStage:   m.FromStage,
		ToStage:     string(m.ToStage),
		Quantity:    m.Quantity,
		WireSizeMM:  m.WireSizeMM,
		WireSizeSWG: m.WireSizeSWG,
		BatchNumber: m.BatchNumber,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
