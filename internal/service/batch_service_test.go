package service

import (
	"context"
	"testing"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchFixture struct {
	svc       BatchService
	batchRepo *stubBatchRepo
	orderRepo *stubOrderRepo
	invRepo   *stubInventoryRepo
	prodRepo  *stubProductionRepo
}

func newBatchFixture() *batchFixture {
	batchRepo := newStubBatchRepo()
	orderRepo := newStubOrderRepo()
	invRepo := newStubInventoryRepo()
	prodRepo := newStubProductionRepo()
	orders := NewOrderService(orderRepo)
	inventory := NewInventoryService(invRepo, prodRepo, orders)
	for _, st := range model.CoreStages() {
		invRepo.seed(st, 10000, 0, 100000)
	}
	return &batchFixture{
		svc:       NewBatchService(batchRepo, orderRepo, orders, inventory, prodRepo),
		batchRepo: batchRepo,
		orderRepo: orderRepo,
		invRepo:   invRepo,
		prodRepo:  prodRepo,
	}
}

func (f *batchFixture) seedBatch(number string, stage *model.Stage, remaining int64) *model.BatchTracking {
	b := &model.BatchTracking{
		BatchNumber:       number,
		InitialQuantity:   dec(remaining),
		RemainingQuantity: dec(remaining),
		CurrentStage:      stage,
		Status:            model.BatchActive,
	}
	_ = f.batchRepo.Create(context.Background(), b)
	return b
}

func stagePtr(s model.Stage) *model.Stage { return &s }

func TestCreateBatchWithInitialStageCreditsStock(t *testing.T) {
	f := newBatchFixture()
	initial := string(model.StageOven)

	resp, err := f.svc.CreateBatch(context.Background(), dto.CreateBatchRequest{
		BatchNumber:     "B-1001",
		InitialQuantity: dec(500),
		InitialStage:    &initial,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CurrentStage)
	assert.Equal(t, initial, *resp.CurrentStage)

	oven, _ := f.invRepo.FindStock(context.Background(), model.StageOven)
	assert.True(t, oven.CurrentStock.Equal(dec(10500)))
}

func TestCreateBatchDuplicateNumberRejected(t *testing.T) {
	f := newBatchFixture()
	f.seedBatch("B-1001", nil, 100)

	_, err := f.svc.CreateBatch(context.Background(), dto.CreateBatchRequest{
		BatchNumber:     "B-1001",
		InitialQuantity: dec(50),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestMoveStagelessBatchMustEnterFirstStage(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-1", nil, 100)

	_, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageOven),
		Quantity: dec(50),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	result, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.FirstStage()),
		Quantity: dec(50),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Batch.CurrentStage)
	assert.Equal(t, string(model.FirstStage()), *result.Batch.CurrentStage)
}

func TestMoveBatchCannotSkipOrGoBack(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-2", stagePtr(model.StageInter), 100)

	// Skipping Oven is a sequence violation.
	_, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageDPC),
		Quantity: dec(50),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// So is moving back.
	_, err = f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageRBD),
		Quantity: dec(50),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// One step forward is fine.
	_, err = f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageOven),
		Quantity: dec(50),
	})
	require.NoError(t, err)
}

func TestMoveBatchQuantityBounds(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-3", stagePtr(model.StageRBD), 100)

	_, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageInter),
		Quantity: dec(150),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:       string(model.StageInter),
		Quantity:      dec(50),
		ScrapQuantity: dec(60),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err), "scrap above moved quantity")
}

func TestMoveBatchDeductsScrapFromRemaining(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-4", stagePtr(model.StageRBD), 100)

	result, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:       string(model.StageInter),
		Quantity:      dec(90),
		ScrapQuantity: dec(10),
	})
	require.NoError(t, err)
	assert.True(t, result.Batch.RemainingQuantity.Equal(dec(90)))
	require.Len(t, f.batchRepo.journey, 1)
	assert.Equal(t, string(model.StageInter), f.batchRepo.journey[0].ToStage)
}

func TestMoveBatchToTerminalStageConsumesAndRecordsProduction(t *testing.T) {
	f := newBatchFixture()

	order := &model.ProductionOrder{OrderNumber: "ORD-50", CustomerName: "X", OrderedQuantity: dec(80), Status: model.OrderInProgress}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))

	b := f.seedBatch("B-5", stagePtr(model.StageDPC), 100)
	b.OrderID = &order.ID

	result, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:       string(model.StageRewind),
		Quantity:      dec(80),
		ScrapQuantity: dec(5),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.BatchConsumed), result.Batch.Status)

	// Order closed by terminal output.
	require.NotNil(t, result.OrderUpdate)
	assert.Equal(t, string(model.OrderCompleted), result.OrderUpdate.Status)

	// Terminal arrival lands in the production ledger.
	require.Len(t, f.prodRepo.records, 1)
	rec := f.prodRepo.records[0]
	assert.Equal(t, model.TerminalStage, rec.Stage)
	assert.True(t, rec.InputQty.Equal(dec(85)), "input is quantity plus scrap")
	assert.True(t, rec.OutputQty.Equal(dec(80)))
}

func TestMoveBatchPastRewindIntoQualityCheck(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-7", stagePtr(model.StageRewind), 400)
	b.Status = model.BatchConsumed

	result, err := f.svc.MoveBatch(context.Background(), b.ID, dto.MoveBatchRequest{
		ToStage:  string(model.StageQualityCheck),
		Quantity: dec(400),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Batch.CurrentStage)
	assert.Equal(t, string(model.StageQualityCheck), *result.Batch.CurrentStage)
	assert.Equal(t, string(model.BatchConsumed), result.Batch.Status)

	// The post-production stage gets its stock row created on first use.
	qc, err := f.invRepo.FindStock(context.Background(), model.StageQualityCheck)
	require.NoError(t, err)
	assert.True(t, qc.CurrentStock.Equal(dec(400)))

	rewind, _ := f.invRepo.FindStock(context.Background(), model.StageRewind)
	assert.True(t, rewind.CurrentStock.Equal(dec(9600)))
}

func TestHoldAndResumeBatch(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-6", stagePtr(model.StageOven), 100)

	resp, err := f.svc.HoldBatch(context.Background(), b.ID, dto.HoldBatchRequest{Reason: "surface defects"})
	require.NoError(t, err)
	assert.Equal(t, string(model.BatchOnHold), resp.Status)
	require.NotNil(t, resp.LatestHold)
	assert.Equal(t, model.HoldActionHold, resp.LatestHold.Action)

	resp, err = f.svc.ResumeBatch(context.Background(), b.ID, dto.ResumeBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(model.BatchActive), resp.Status)
	assert.Len(t, f.batchRepo.holdEvents, 2)
}

func TestHoldConsumedBatchRejected(t *testing.T) {
	f := newBatchFixture()
	b := f.seedBatch("B-7", stagePtr(model.StageRewind), 0)
	b.Status = model.BatchConsumed

	_, err := f.svc.HoldBatch(context.Background(), b.ID, dto.HoldBatchRequest{Reason: "late hold"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
