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

// BatchService follows physical coils through the guided stage sequence.
type BatchService interface {
	CreateBatch(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*dto.BatchDetailResponse, error)
	ListBatches(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error)
	MoveBatch(ctx context.Context, id uuid.UUID, req dto.MoveBatchRequest) (*dto.BatchMoveResult, error)
	HoldBatch(ctx context.Context, id uuid.UUID, req dto.HoldBatchRequest) (*dto.BatchResponse, error)
	ResumeBatch(ctx context.Context, id uuid.UUID, req dto.ResumeBatchRequest) (*dto.BatchResponse, error)
}

type batchService struct {
	repo      repository.BatchRepository
	orderRepo repository.OrderRepository
	orders    OrderService
	inventory InventoryService
	prodRepo  repository.ProductionRepository
}

func NewBatchService(
	repo repository.BatchRepository,
	orderRepo repository.OrderRepository,
	orders OrderService,
	inventory InventoryService,
	prodRepo repository.ProductionRepository,
) BatchService {
	return &batchService{
		repo:      repo,
		orderRepo: orderRepo,
		orders:    orders,
		inventory: inventory,
		prodRepo:  prodRepo,
	}
}

func (s *batchService) CreateBatch(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if req.InitialQuantity.Sign() <= 0 {
		return nil, NewValidationError("initial_quantity must be positive")
	}
	if existing, err := s.repo.FindByNumber(ctx, req.BatchNumber); err == nil && existing != nil {
		return nil, NewValidationError("batch %s already exists", req.BatchNumber)
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, NewValidationError("invalid order_id: %s", *req.OrderID)
		}
		if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("order %s not found", id)
			}
			return nil, err
		}
		orderID = &id
	}

	var initialStage *model.Stage
	if req.InitialStage != nil && *req.InitialStage != "" {
		st := model.Stage(*req.InitialStage)
		if !st.Valid() {
			return nil, NewValidationError("unknown stage: %s", *req.InitialStage)
		}
		initialStage = &st
	}

	batch := &model.BatchTracking{
		BatchNumber:       req.BatchNumber,
		OrderID:           orderID,
		InitialQuantity:   req.InitialQuantity,
		RemainingQuantity: req.InitialQuantity,
		WireSizeMM:        req.WireSizeMM,
		WireSizeSWG:       req.WireSizeSWG,
		CurrentStage:      initialStage,
		Status:            model.BatchActive,
		Notes:             req.Notes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, batch); err != nil {
			return err
		}
		if initialStage != nil {
			note := fmt.Sprintf("Batch %s created", batch.BatchNumber)
			if _, err := s.inventory.ApplyTx(tx, *initialStage, model.DirectionIn, req.InitialQuantity, nil, note); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := batchToResponse(batch)
	return &resp, nil
}

func (s *batchService) GetBatch(ctx context.Context, id uuid.UUID) (*dto.BatchDetailResponse, error) {
	batch, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("batch %s not found", id)
		}
		return nil, err
	}

	detail := &dto.BatchDetailResponse{BatchResponse: batchToResponse(batch)}
	for i := range batch.JourneyEvents {
		detail.Journey = append(detail.Journey, journeyEventToResponse(&batch.JourneyEvents[i]))
	}
	for i := range batch.HoldEvents {
		detail.HoldEvents = append(detail.HoldEvents, holdEventToResponse(&batch.HoldEvents[i]))
	}
	return detail, nil
}

func (s *batchService) ListBatches(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error) {
	if filter.Stage != "" && !model.Stage(filter.Stage).Valid() {
		return nil, NewValidationError("unknown stage: %s", filter.Stage)
	}
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, batchToResponse(&batches[i]))
	}
	return &dto.BatchListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// MoveBatch advances a batch one step along the guided sequence. The journey
// event, the inventory movement, the stage update and any order progress all
// commit or roll back together.
func (s *batchService) MoveBatch(ctx context.Context, id uuid.UUID, req dto.MoveBatchRequest) (*dto.BatchMoveResult, error) {
	target := model.Stage(req.ToStage)
	if req.Quantity.Sign() <= 0 {
		return nil, NewValidationError("quantity must be positive")
	}
	if req.ScrapQuantity.Sign() < 0 {
		return nil, NewValidationError("scrap_quantity must not be negative")
	}

	var batch *model.BatchTracking
	var orderUpdate *dto.OrderProgressUpdate

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		batch, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("batch %s not found", id)
			}
			return err
		}

		if err := validateMove(batch, target, req.Quantity, req.ScrapQuantity); err != nil {
			return err
		}

		var fromStr *string
		fromStage := batch.CurrentStage
		if fromStage != nil {
			f := string(*fromStage)
			fromStr = &f
		}
		event := &model.BatchJourneyEvent{
			BatchID:       batch.ID,
			FromStage:     fromStr,
			ToStage:       string(target),
			Quantity:      req.Quantity,
			ScrapQuantity: req.ScrapQuantity,
			OperatorName:  req.OperatorName,
			Notes:         req.Notes,
		}
		if err := s.repo.CreateJourneyEventTx(tx, event); err != nil {
			return err
		}

		moveNote := "Guided move"
		if req.Notes != nil {
			moveNote = *req.Notes
		}
		batchNumber := batch.BatchNumber
		movement := &model.MaterialMovement{
			WireSizeMM:  batch.WireSizeMM,
			WireSizeSWG: batch.WireSizeSWG,
			BatchID:     &batch.ID,
			BatchNumber: &batchNumber,
		}
		note := fmt.Sprintf("Batch %s: %s", batch.BatchNumber, moveNote)
		movement.Notes = &note
		if err := s.inventory.MoveTx(tx, fromStage, target, req.Quantity, movement); err != nil {
			return err
		}

		batch.CurrentStage = &target
		if target == model.TerminalStage || batch.Status == model.BatchConsumed {
			batch.Status = model.BatchConsumed
		} else {
			batch.Status = model.BatchActive
		}
		remaining := batch.RemainingQuantity.Sub(req.ScrapQuantity)
		if remaining.Sign() < 0 {
			remaining = decimal.Zero
		}
		batch.RemainingQuantity = remaining
		if err := s.repo.UpdateTx(tx, batch); err != nil {
			return err
		}

		if target == model.TerminalStage {
			if batch.OrderID != nil {
				orderUpdate, err = s.orders.AdvanceProgressTx(tx, *batch.OrderID, target, req.Quantity)
				if err != nil {
					return err
				}
			}

			// Terminal arrival shows up in the production ledger too.
			input := req.Quantity.Add(req.ScrapQuantity)
			recNote := fmt.Sprintf("Batch %s completed", batch.BatchNumber)
			rec := &model.ProductionRecord{
				Date:           time.Now(),
				Shift:          model.ShiftMorning,
				Stage:          model.TerminalStage,
				InputQty:       input,
				OutputQty:      req.Quantity,
				ScrapQty:       req.ScrapQuantity,
				Efficiency:     model.PercentOf(req.Quantity, input),
				LossPercentage: model.PercentOf(req.ScrapQuantity, input),
				Notes:          &recNote,
			}
			if err := s.prodRepo.CreateTx(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	var next *string
	if nxt, ok := model.NextStage(target); ok {
		n := string(nxt)
		next = &n
	}
	return &dto.BatchMoveResult{
		Message:     fmt.Sprintf("Batch %s moved to %s", batch.BatchNumber, target),
		Batch:       batchToResponse(batch),
		OrderUpdate: orderUpdate,
		NextStage:   next,
	}, nil
}

// validateMove enforces the guided sequence rules in order: target must be in
// the catalog, a stageless batch must enter at the start, otherwise only
// same-stage or next-stage moves are allowed, and quantities must fit within
// what remains on the coil.
func validateMove(batch *model.BatchTracking, target model.Stage, qty, scrap decimal.Decimal) error {
	if !target.Valid() {
		return NewValidationError("stage %s is not part of the configured flow", target)
	}

	if batch.CurrentStage == nil {
		if target != model.FirstStage() {
			return NewSequenceViolationError("first move must enter %s", model.FirstStage())
		}
	} else {
		curIdx := model.StageIndex(*batch.CurrentStage)
		if curIdx < 0 {
			return NewValidationError("existing stage %s is invalid", *batch.CurrentStage)
		}
		targetIdx := model.StageIndex(target)
		if targetIdx < curIdx {
			return NewSequenceViolationError("cannot move backwards in the process")
		}
		if targetIdx-curIdx > 1 {
			return NewSequenceViolationError("moves must follow the guided stage order")
		}
	}

	if batch.RemainingQuantity.Sign() <= 0 {
		return NewValidationError("batch %s has no remaining quantity to move", batch.BatchNumber)
	}
	if scrap.GreaterThan(qty) {
		return NewValidationError("scrap quantity cannot exceed moved quantity")
	}
	if qty.GreaterThan(batch.RemainingQuantity) {
		return NewValidationError("cannot move %s kg; only %s kg remaining on batch %s",
			qty.String(), batch.RemainingQuantity.String(), batch.BatchNumber)
	}
	if scrap.GreaterThan(batch.RemainingQuantity) {
		return NewValidationError("cannot scrap %s kg; only %s kg remaining on batch %s",
			scrap.String(), batch.RemainingQuantity.String(), batch.BatchNumber)
	}
	return nil
}

func (s *batchService) HoldBatch(ctx context.Context, id uuid.UUID, req dto.HoldBatchRequest) (*dto.BatchResponse, error) {
	return s.toggleHold(ctx, id, true, &req.Reason)
}

func (s *batchService) ResumeBatch(ctx context.Context, id uuid.UUID, req dto.ResumeBatchRequest) (*dto.BatchResponse, error) {
	return s.toggleHold(ctx, id, false, req.Reason)
}

func (s *batchService) toggleHold(ctx context.Context, id uuid.UUID, hold bool, reason *string) (*dto.BatchResponse, error) {
	var batch *model.BatchTracking

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		batch, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("batch %s not found", id)
			}
			return err
		}

		if batch.Status == model.BatchConsumed && hold {
			return NewValidationError("completed batches cannot be placed on hold")
		}

		if batch.Status != model.BatchConsumed {
			if hold {
				batch.Status = model.BatchOnHold
			} else {
				batch.Status = model.BatchActive
			}
		}

		stageMarker := "UNASSIGNED"
		if batch.CurrentStage != nil {
			stageMarker = string(*batch.CurrentStage)
		}
		action := model.HoldActionResume
		defaultNote := "Batch resumed"
		from, to := model.HoldMarker, stageMarker
		if hold {
			action = model.HoldActionHold
			defaultNote = "Batch paused"
			from, to = stageMarker, model.HoldMarker
		}
		note := defaultNote
		if reason != nil && *reason != "" {
			note = *reason
		}

		eventNote := fmt.Sprintf("%s: %s", action, note)
		journey := &model.BatchJourneyEvent{
			BatchID:       batch.ID,
			FromStage:     &from,
			ToStage:       to,
			Quantity:      decimal.Zero,
			ScrapQuantity: decimal.Zero,
			Notes:         &eventNote,
		}
		if err := s.repo.CreateJourneyEventTx(tx, journey); err != nil {
			return err
		}

		holdEvent := &model.BatchHoldEvent{BatchID: batch.ID, Action: action, Reason: reason}
		if err := s.repo.CreateHoldEventTx(tx, holdEvent); err != nil {
			return err
		}
		batch.HoldEvents = append(batch.HoldEvents, *holdEvent)

		return s.repo.UpdateTx(tx, batch)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := batchToResponse(batch)
	return &resp, nil
}

// ─── serialization ───────────────────────────────────────────────────────────

func batchToResponse(b *model.BatchTracking) dto.BatchResponse {
	sequence := model.AllStages()
	completed := 0
	var cur *string
	if b.CurrentStage != nil {
		c := string(*b.CurrentStage)
		cur = &c
		if idx := model.StageIndex(*b.CurrentStage); idx >= 0 {
			completed = idx + 1
		}
	}
	pct := 0.0
	if len(sequence) > 0 {
		pct = model.PercentOf(decimal.NewFromInt(int64(completed)), decimal.NewFromInt(int64(len(sequence))))
	}

	var next *string
	if b.CurrentStage != nil {
		if nxt, ok := model.NextStage(*b.CurrentStage); ok {
			n := string(nxt)
			next = &n
		}
	} else {
		n := string(model.FirstStage())
		next = &n
	}

	var latestHold *dto.BatchHoldEventResponse
	if len(b.HoldEvents) > 0 {
		h := holdEventToResponse(&b.HoldEvents[len(b.HoldEvents)-1])
		latestHold = &h
	}

	var orderID *string
	if b.OrderID != nil {
		o := b.OrderID.String()
		orderID = &o
	}

	return dto.BatchResponse{
		ID:                b.ID.String(),
		BatchNumber:       b.BatchNumber,
		OrderID:           orderID,
		InitialQuantity:   b.InitialQuantity,
		RemainingQuantity: b.RemainingQuantity,
		WireSizeMM:        b.WireSizeMM,
		WireSizeSWG:       b.WireSizeSWG,
		CurrentStage:      cur,
		Status:            string(b.Status),
		JourneyProgress: dto.JourneyProgress{
			Completed:  completed,
			Total:      len(sequence),
			Percentage: pct,
		},
		NextStage:  next,
		LatestHold: latestHold,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func journeyEventToResponse(e *model.BatchJourneyEvent) dto.BatchJourneyEventResponse {
	return dto.BatchJourneyEventResponse{
		FromStage:     e.FromStage,
		ToStage:       e.ToStage,
		Quantity:      e.Quantity,
		ScrapQuantity: e.ScrapQuantity,
		OperatorName:  e.OperatorName,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func holdEventToResponse(e *model.BatchHoldEvent) dto.BatchHoldEventResponse {
	return dto.BatchHoldEventResponse{
		Action:    e.Action,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
