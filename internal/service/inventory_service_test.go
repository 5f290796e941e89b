package service

import (
	"context"
	"testing"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (InventoryService, *stubInventoryRepo, *stubProductionRepo, *stubOrderRepo) {
	invRepo := newStubInventoryRepo()
	prodRepo := newStubProductionRepo()
	orderRepo := newStubOrderRepo()
	orders := NewOrderService(orderRepo)
	svc := NewInventoryService(invRepo, prodRepo, orders)
	return svc, invRepo, prodRepo, orderRepo
}

func TestApplyOutBeyondStockFailsWithoutMutation(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageOven, 100, 0, 1000)

	_, err := svc.ApplyTx(nil, model.StageOven, model.DirectionOut, dec(200), nil, "")
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	inv, _ := invRepo.FindStock(context.Background(), model.StageOven)
	assert.True(t, inv.CurrentStock.Equal(dec(100)), "stock must be untouched")
	assert.Empty(t, invRepo.txns, "no audit row for a failed OUT")
}

func TestApplyWritesAuditTrail(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 50, 0, 1000)

	after, err := svc.ApplyTx(nil, model.StageRBD, model.DirectionIn, dec(30), nil, "delivery")
	require.NoError(t, err)
	assert.True(t, after.Equal(dec(80)))

	require.Len(t, invRepo.txns, 1)
	tr := invRepo.txns[0]
	assert.True(t, tr.StockBefore.Equal(dec(50)))
	assert.True(t, tr.StockAfter.Equal(dec(80)))
	require.NotNil(t, tr.Notes)
	assert.Equal(t, "delivery", *tr.Notes)
}

func TestUpdateInventorySequentialFlowDebitsPreviousStage(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 300, 0, 1000)
	invRepo.seed(model.StageInter, 0, 0, 1000)

	result, err := svc.UpdateInventory(context.Background(), dto.InventoryUpdateRequest{
		Stage:     string(model.StageInter),
		Direction: model.DirectionIn,
		Quantity:  dec(100),
	})
	require.NoError(t, err)
	assert.True(t, result.NewStockLevel.Equal(dec(100)))

	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	assert.True(t, rbd.CurrentStock.Equal(dec(200)), "previous stage must be debited")
}

func TestUpdateInventoryFirstStageHasNoDebit(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 0, 0, 1000)

	result, err := svc.UpdateInventory(context.Background(), dto.InventoryUpdateRequest{
		Stage:     string(model.StageRBD),
		Direction: model.DirectionIn,
		Quantity:  dec(250),
	})
	require.NoError(t, err)
	assert.True(t, result.NewStockLevel.Equal(dec(250)))
	assert.Len(t, invRepo.txns, 1)
}

func TestUpdateInventoryInsufficientPreviousStageAborts(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 10, 0, 1000)
	invRepo.seed(model.StageInter, 0, 0, 1000)

	_, err := svc.UpdateInventory(context.Background(), dto.InventoryUpdateRequest{
		Stage:     string(model.StageInter),
		Direction: model.DirectionIn,
		Quantity:  dec(100),
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	inter, _ := invRepo.FindStock(context.Background(), model.StageInter)
	assert.True(t, inter.CurrentStock.IsZero())
}

func TestRecordMovementFromInboundSkipsDebit(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 0, 0, 1000)

	resp, err := svc.RecordMovement(context.Background(), dto.MaterialMovementRequest{
		FromStage: model.InboundSource,
		ToStage:   string(model.StageRBD),
		Quantity:  dec(500),
	})
	require.NoError(t, err)
	assert.Equal(t, model.InboundSource, resp.FromStage)

	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	assert.True(t, rbd.CurrentStock.Equal(dec(500)))
	require.Len(t, invRepo.movements, 1)
}

func TestRecordMovementBetweenStages(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageInter, 400, 0, 1000)
	invRepo.seed(model.StageOven, 50, 0, 1000)

	_, err := svc.RecordMovement(context.Background(), dto.MaterialMovementRequest{
		FromStage: string(model.StageInter),
		ToStage:   string(model.StageOven),
		Quantity:  dec(150),
	})
	require.NoError(t, err)

	inter, _ := invRepo.FindStock(context.Background(), model.StageInter)
	oven, _ := invRepo.FindStock(context.Background(), model.StageOven)
	assert.True(t, inter.CurrentStock.Equal(dec(250)))
	assert.True(t, oven.CurrentStock.Equal(dec(200)))
}

func TestSyncFromProductionReplaysLedger(t *testing.T) {
	svc, invRepo, prodRepo, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 999, 0, 10000) // stale value, must be rebuilt
	invRepo.seed(model.StageInter, 0, 0, 10000)

	prodRepo.add("2026-01-01", model.StageRBD, model.ShiftMorning, 1000, 950, 50)
	prodRepo.add("2026-01-02", model.StageRBD, model.ShiftNight, 500, 480, 20)
	prodRepo.add("2026-01-02", model.StageInter, model.ShiftMorning, 400, 380, 20)

	result, err := svc.SyncFromProduction(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.RecordsReplayed)

	// Each record replays as IN input, OUT output at its own stage.
	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	inter, _ := invRepo.FindStock(context.Background(), model.StageInter)
	assert.True(t, rbd.CurrentStock.Equal(dec(70)), "got %s", rbd.CurrentStock)
	assert.True(t, inter.CurrentStock.Equal(dec(20)), "got %s", inter.CurrentStock)
}

func TestSyncFromProductionIsIdempotent(t *testing.T) {
	svc, invRepo, prodRepo, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 0, 0, 10000)
	prodRepo.add("2026-01-01", model.StageRBD, model.ShiftMorning, 100, 90, 10)

	_, err := svc.SyncFromProduction(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.SyncFromProduction(context.Background(), nil)
	require.NoError(t, err)

	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	assert.True(t, rbd.CurrentStock.Equal(dec(10)))
}

func TestSyncFromProductionHonorsCutoff(t *testing.T) {
	svc, invRepo, prodRepo, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 0, 0, 10000)

	prodRepo.add("2026-01-01", model.StageRBD, model.ShiftMorning, 1000, 950, 50)
	prodRepo.add("2026-02-01", model.StageRBD, model.ShiftNight, 500, 480, 20)

	since := day("2026-02-01")
	result, err := svc.SyncFromProduction(context.Background(), &since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RecordsReplayed, "records before the cutoff stay out of the replay")

	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	assert.True(t, rbd.CurrentStock.Equal(dec(20)), "got %s", rbd.CurrentStock)
}

func TestApplyInSeedsMissingStageRow(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()

	after, err := svc.ApplyTx(nil, model.StageQualityCheck, model.DirectionIn, dec(50), nil, "post-production arrival")
	require.NoError(t, err)
	assert.True(t, after.Equal(dec(50)))

	qc, err := invRepo.FindStock(context.Background(), model.StageQualityCheck)
	require.NoError(t, err)
	assert.True(t, qc.CurrentStock.Equal(dec(50)))
	require.Len(t, invRepo.txns, 1)
}

func TestSummaryFlagsLowAndHighStock(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 10, 100, 1000)   // low
	invRepo.seed(model.StageInter, 500, 100, 1000) // normal
	invRepo.seed(model.StageOven, 1500, 100, 1000) // high

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TotalStockAllStages.Equal(dec(2010)))

	byStage := map[string]string{}
	for _, st := range summary.Stages {
		byStage[st.Stage] = st.Status
	}
	assert.Equal(t, "low", byStage[string(model.StageRBD)])
	assert.Equal(t, "normal", byStage[string(model.StageInter)])
	assert.Equal(t, "high", byStage[string(model.StageOven)])

	require.Len(t, summary.Alerts, 2)
	types := map[string]bool{}
	for _, a := range summary.Alerts {
		types[a.Type] = true
	}
	assert.True(t, types["LOW_STOCK"])
	assert.True(t, types["OVERSTOCK"])
}

func TestUpdateStockLevelsRejectsInvertedBounds(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageDPC, 100, 50, 500)

	min := dec(600)
	_, err := svc.UpdateStockLevels(context.Background(), string(model.StageDPC), dto.UpdateStockLevelsRequest{
		MinStockLevel: &min,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestEnsureStocksSeedsMissingStagesOnly(t *testing.T) {
	svc, invRepo, _, _ := newInventoryFixture()
	invRepo.seed(model.StageRBD, 777, 1, 2)

	require.NoError(t, svc.EnsureStocks(context.Background()))

	stocks, _ := invRepo.ListStocks(context.Background())
	assert.Len(t, stocks, len(model.CoreStages()))
	rbd, _ := invRepo.FindStock(context.Background(), model.StageRBD)
	assert.True(t, rbd.CurrentStock.Equal(dec(777)), "existing row untouched")
}
