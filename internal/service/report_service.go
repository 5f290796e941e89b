package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/infra"
	"wiremon/internal/repository"
)

// ReportService renders reporting views of the production ledger: the JSON
// summary report plus file exports. The async report worker calls
// RenderFiles; the export endpoints stream or serve the same renderings
// synchronously.
type ReportService interface {
	ProductionSummary(ctx context.Context, filter dto.ReportFilter) (*dto.ProductionSummaryReport, error)

	// WriteXLSX streams the date window's records as a workbook.
	WriteXLSX(ctx context.Context, filter dto.ReportFilter, w io.Writer) error

	// RenderPDF writes the PDF report into the storage dir and returns its path.
	RenderPDF(ctx context.Context, filter dto.ReportFilter) (string, error)

	// RenderFiles writes both export formats for the async job and returns
	// their paths together with the summary used to decide on alert digests.
	RenderFiles(ctx context.Context, filter dto.ReportFilter) (xlsxPath, pdfPath string, summary *dto.ProductionSummaryReport, err error)
}

type reportService struct {
	prodRepo    repository.ProductionRepository
	analytics   AnalyticsService
	inventory   InventoryService
	storagePath string
}

func NewReportService(
	prodRepo repository.ProductionRepository,
	analytics AnalyticsService,
	inventory InventoryService,
	storagePath string,
) ReportService {
	return &reportService{
		prodRepo:    prodRepo,
		analytics:   analytics,
		inventory:   inventory,
		storagePath: storagePath,
	}
}

func (s *reportService) ProductionSummary(ctx context.Context, filter dto.ReportFilter) (*dto.ProductionSummaryReport, error) {
	from, to, err := parseWindow(filter.StartDate, filter.EndDate, 30)
	if err != nil {
		return nil, err
	}

	overall, err := s.analytics.OverallMetrics(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	aggs, err := s.prodRepo.AggregateByStage(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	stageStats := make([]dto.StageStats, 0, len(aggs))
	for _, agg := range aggs {
		stageStats = append(stageStats, statsFromAggregate(agg))
	}

	invSummary, err := s.inventory.Summary(ctx)
	if err != nil {
		return nil, err
	}

	alerts, err := s.analytics.Alerts(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	critical := 0
	for _, a := range alerts {
		if a.Severity == "critical" {
			critical++
		}
	}

	return &dto.ProductionSummaryReport{
		ReportGeneratedAt: time.Now().Format("2006-01-02"),
		DateRange: dto.DateRange{
			Start: from.Format("2006-01-02"),
			End:   to.Format("2006-01-02"),
			Days:  int(to.Sub(from).Hours() / 24),
		},
		OverallMetrics:   *overall,
		StageStatistics:  stageStats,
		InventorySummary: *invSummary,
		AlertsCount:      len(alerts),
		CriticalAlerts:   critical,
	}, nil
}

func (s *reportService) WriteXLSX(ctx context.Context, filter dto.ReportFilter, w io.Writer) error {
	from, to, err := parseWindow(filter.StartDate, filter.EndDate, 30)
	if err != nil {
		return err
	}
	records, err := s.prodRepo.ListRange(ctx, from, to)
	if err != nil {
		return err
	}
	return infra.WriteProductionXLSX(records, w)
}

func (s *reportService) RenderPDF(ctx context.Context, filter dto.ReportFilter) (string, error) {
	from, to, err := parseWindow(filter.StartDate, filter.EndDate, 30)
	if err != nil {
		return "", err
	}
	records, err := s.prodRepo.ListRange(ctx, from, to)
	if err != nil {
		return "", err
	}
	rangeLabel := fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return infra.GenerateProductionPDF(records, rangeLabel, s.storagePath)
}

func (s *reportService) RenderFiles(ctx context.Context, filter dto.ReportFilter) (string, string, *dto.ProductionSummaryReport, error) {
	from, to, err := parseWindow(filter.StartDate, filter.EndDate, 30)
	if err != nil {
		return "", "", nil, err
	}
	records, err := s.prodRepo.ListRange(ctx, from, to)
	if err != nil {
		return "", "", nil, err
	}

	xlsxPath, err := infra.SaveProductionXLSX(records, s.storagePath)
	if err != nil {
		return "", "", nil, err
	}

	rangeLabel := fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	pdfPath, err := infra.GenerateProductionPDF(records, rangeLabel, s.storagePath)
	if err != nil {
		return "", "", nil, err
	}

	summary, err := s.ProductionSummary(ctx, filter)
	if err != nil {
		return "", "", nil, err
	}

	return xlsxPath, pdfPath, summary, nil
}
