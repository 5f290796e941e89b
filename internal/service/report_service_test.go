package service

import (
	"bytes"
	"context"
	"testing"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportFixture(t *testing.T) (ReportService, *stubProductionRepo, *stubInventoryRepo) {
	t.Helper()
	prodRepo := newStubProductionRepo()
	invRepo := newStubInventoryRepo()
	orderRepo := newStubOrderRepo()
	batchRepo := newStubBatchRepo()
	orders := NewOrderService(orderRepo)
	inventory := NewInventoryService(invRepo, prodRepo, orders)
	analytics := NewAnalyticsService(prodRepo, newStubConfigRepo(), orderRepo, batchRepo, testThresholds)
	svc := NewReportService(prodRepo, analytics, inventory, t.TempDir())
	return svc, prodRepo, invRepo
}

func TestProductionSummaryAggregatesWindow(t *testing.T) {
	svc, prodRepo, invRepo := newReportFixture(t)

	prodRepo.add("2026-03-01", model.StageRBD, model.ShiftMorning, 1000, 950, 50)
	prodRepo.add("2026-03-02", model.StageRewind, model.ShiftMorning, 900, 880, 20)
	prodRepo.add("2025-01-01", model.StageRBD, model.ShiftNight, 500, 400, 100) // outside window
	invRepo.seed(model.StageRBD, 200, 100, 1000)

	report, err := svc.ProductionSummary(context.Background(), dto.ReportFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", report.DateRange.Start)
	assert.Equal(t, "2026-03-05", report.DateRange.End)
	assert.Equal(t, 4, report.DateRange.Days)
	assert.True(t, report.OverallMetrics.TotalProduction.Equal(dec(880)))
	assert.True(t, report.OverallMetrics.TotalInput.Equal(dec(1000)))
	assert.Len(t, report.StageStatistics, 2, "only stages with records in the window")
	assert.True(t, report.InventorySummary.TotalStockAllStages.Equal(dec(200)))
}

func TestProductionSummaryRejectsMalformedDates(t *testing.T) {
	svc, _, _ := newReportFixture(t)

	_, err := svc.ProductionSummary(context.Background(), dto.ReportFilter{StartDate: "01-03-2026"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	svc, prodRepo, _ := newReportFixture(t)
	prodRepo.add("2026-03-01", model.StageRBD, model.ShiftMorning, 1000, 950, 50)

	var buf bytes.Buffer
	err := svc.WriteXLSX(context.Background(), dto.ReportFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-02",
	}, &buf)
	require.NoError(t, err)
	// XLSX files are zip archives.
	require.Greater(t, buf.Len(), 4)
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestRenderPDFWritesFile(t *testing.T) {
	svc, prodRepo, _ := newReportFixture(t)
	prodRepo.add("2026-03-01", model.StageInter, model.ShiftNight, 500, 480, 20)

	path, err := svc.RenderPDF(context.Background(), dto.ReportFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-02",
	})
	require.NoError(t, err)
	assert.Contains(t, path, ".pdf")
}
