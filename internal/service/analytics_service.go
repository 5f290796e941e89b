package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"wiremon/internal/config"
	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/shopspring/decimal"
)

// AnalyticsService computes process KPIs over the production ledger: stage
// statistics, the end-to-end process flow, bottleneck detection, WIP between
// sequential stages, timelines and threshold alerts. All methods are
// read-only.
type AnalyticsService interface {
	StageDetail(ctx context.Context, stage model.Stage, filter dto.StageDetailFilter) (*dto.StageDetail, error)
	ProcessFlow(ctx context.Context, start, end *time.Time) (*dto.ProcessFlowResponse, error)
	WIP(ctx context.Context, target time.Time) (*dto.WIPAnalysis, error)
	Timeline(ctx context.Context, start, end *time.Time, stage *model.Stage) ([]dto.TimelineDataPoint, error)
	Alerts(ctx context.Context, start, end *time.Time) ([]dto.Alert, error)
	OverallMetrics(ctx context.Context, start, end *time.Time) (*dto.OverallMetrics, error)
	EfficiencyStats(ctx context.Context, start, end *time.Time) (*dto.EfficiencyStats, error)
	ScrapAnalysis(ctx context.Context, start, end *time.Time) (*dto.ScrapAnalysis, error)
	DashboardSummary(ctx context.Context, start, end *time.Time) (*dto.DashboardSummary, error)
}

type analyticsService struct {
	prodRepo   repository.ProductionRepository
	configRepo repository.StageConfigRepository
	orderRepo  repository.OrderRepository
	batchRepo  repository.BatchRepository
	thresholds config.Thresholds
}

func NewAnalyticsService(
	prodRepo repository.ProductionRepository,
	configRepo repository.StageConfigRepository,
	orderRepo repository.OrderRepository,
	batchRepo repository.BatchRepository,
	thresholds config.Thresholds,
) AnalyticsService {
	return &analyticsService{
		prodRepo:   prodRepo,
		configRepo: configRepo,
		orderRepo:  orderRepo,
		batchRepo:  batchRepo,
		thresholds: thresholds,
	}
}

// dateWindow fills missing bounds: end defaults to today, start to end minus
// the given number of days.
func dateWindow(start, end *time.Time, days int) (time.Time, time.Time) {
	e := time.Now().Truncate(24 * time.Hour)
	if end != nil {
		e = *end
	}
	s := e.AddDate(0, 0, -days)
	if start != nil {
		s = *start
	}
	return s, e
}

// parseWindow resolves optional YYYY-MM-DD bounds into a concrete window.
func parseWindow(startDate, endDate string, days int) (time.Time, time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, NewValidationError("invalid start_date %q", startDate)
		}
		start = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, NewValidationError("invalid end_date %q", endDate)
		}
		end = &t
	}
	from, to := dateWindow(start, end, days)
	return from, to, nil
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
func round2(f float64) float64 { return math.Round(f*100) / 100 }

// statsFromAggregate derives the ratio figures from the stage totals so
// high-volume records weigh proportionally, unlike a plain mean of the
// per-record percentages.
func statsFromAggregate(agg repository.StageAggregate) dto.StageStats {
	return dto.StageStats{
		Stage:             string(agg.Stage),
		TotalInput:        agg.TotalInput,
		TotalOutput:       agg.TotalOutput,
		TotalScrap:        agg.TotalScrap,
		AvgEfficiency:     model.PercentOf(agg.TotalOutput, agg.TotalInput),
		AvgLossPercentage: model.PercentOf(agg.TotalScrap, agg.TotalInput),
		RecordCount:       agg.RecordCount,
	}
}

func (s *analyticsService) aggregateMap(ctx context.Context, start, end *time.Time) (map[model.Stage]repository.StageAggregate, error) {
	rows, err := s.prodRepo.AggregateByStage(ctx, start, end)
	if err != nil {
		return nil, err
	}
	m := make(map[model.Stage]repository.StageAggregate, len(rows))
	for _, row := range rows {
		m[row.Stage] = row
	}
	return m, nil
}

// bottleneckIn walks the core stages in process order and keeps the first
// stage with the strictly lowest totals-ratio efficiency. Stages without
// records never qualify.
func bottleneckIn(aggs map[model.Stage]repository.StageAggregate) *model.Stage {
	minEff := math.Inf(1)
	var bottleneck *model.Stage
	for _, stage := range model.CoreStages() {
		agg, ok := aggs[stage]
		if !ok || agg.RecordCount == 0 {
			continue
		}
		eff := model.PercentOf(agg.TotalOutput, agg.TotalInput)
		if eff < minEff {
			minEff = eff
			st := stage
			bottleneck = &st
		}
	}
	return bottleneck
}

func (s *analyticsService) StageDetail(ctx context.Context, stage model.Stage, filter dto.StageDetailFilter) (*dto.StageDetail, error) {
	if !stage.Valid() {
		return nil, NewValidationError("unknown stage %q", stage)
	}

	start, end, err := parseWindow(filter.StartDate, filter.EndDate, 30)
	if err != nil {
		return nil, err
	}

	var shift *model.Shift
	if filter.Shift != "" {
		sh := model.Shift(filter.Shift)
		shift = &sh
	}

	agg, err := s.prodRepo.AggregateForStage(ctx, stage, &start, &end, shift)
	if err != nil {
		return nil, err
	}

	records, err := s.prodRepo.RecentByStage(ctx, stage, &start, &end, 50)
	if err != nil {
		return nil, err
	}
	recent := make([]dto.ProductionRecordResponse, 0, len(records))
	for i := range records {
		recent = append(recent, recordToResponse(&records[i]))
	}

	trend, err := s.Timeline(ctx, &start, &end, &stage)
	if err != nil {
		return nil, err
	}

	return &dto.StageDetail{
		Stage:         string(stage),
		Stats:         statsFromAggregate(*agg),
		RecentRecords: recent,
		DailyTrend:    trend,
	}, nil
}

func (s *analyticsService) ProcessFlow(ctx context.Context, start, end *time.Time) (*dto.ProcessFlowResponse, error) {
	configs, err := s.configRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	aggs, err := s.aggregateMap(ctx, start, end)
	if err != nil {
		return nil, err
	}

	wipCutoff := time.Now().Truncate(24 * time.Hour)
	if end != nil {
		wipCutoff = *end
	}

	nodes := make([]dto.ProcessFlowNode, 0, len(configs))
	for _, cfg := range configs {
		stats := statsFromAggregate(aggs[cfg.Stage])

		status := "critical"
		switch {
		case stats.AvgEfficiency >= s.thresholds.EfficiencyWarning:
			status = "good"
		case stats.AvgEfficiency >= s.thresholds.EfficiencyCritical:
			status = "warning"
		}

		wip := decimal.Zero
		if next, ok := model.NextStage(cfg.Stage); ok && next.IsCore() {
			wip, err = s.wipBetween(ctx, cfg.Stage, next, wipCutoff)
			if err != nil {
				return nil, err
			}
		}

		nodes = append(nodes, dto.ProcessFlowNode{
			Stage:                string(cfg.Stage),
			SequenceOrder:        cfg.SequenceOrder,
			TotalInput:           stats.TotalInput,
			TotalOutput:          stats.TotalOutput,
			AvgEfficiency:        stats.AvgEfficiency,
			Status:               status,
			ExpectedInputSizeMM:  cfg.ExpectedInputSizeMM,
			ExpectedOutputSizeMM: cfg.ExpectedOutputSizeMM,
			WIPToNext:            wip,
		})
	}

	var bottleneck *string
	if b := bottleneckIn(aggs); b != nil {
		name := string(*b)
		bottleneck = &name
	}

	return &dto.ProcessFlowResponse{Stages: nodes, Bottleneck: bottleneck}, nil
}

// wipBetween is cumulative from-stage output minus cumulative to-stage input
// up to the cutoff day, floored at zero.
func (s *analyticsService) wipBetween(ctx context.Context, from, to model.Stage, through time.Time) (decimal.Decimal, error) {
	out, err := s.prodRepo.SumThrough(ctx, from, "output_qty", through)
	if err != nil {
		return decimal.Zero, err
	}
	in, err := s.prodRepo.SumThrough(ctx, to, "input_qty", through)
	if err != nil {
		return decimal.Zero, err
	}
	wip := out.Sub(in)
	if wip.Sign() < 0 {
		return decimal.Zero, nil
	}
	return wip, nil
}

func (s *analyticsService) WIP(ctx context.Context, target time.Time) (*dto.WIPAnalysis, error) {
	core := model.CoreStages()
	entries := make([]dto.WIPEntry, 0, len(core)-1)
	for i := 0; i < len(core)-1; i++ {
		from, to := core[i], core[i+1]
		wip, err := s.wipBetween(ctx, from, to, target)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dto.WIPEntry{
			FromStage:   string(from),
			ToStage:     string(to),
			Label:       fmt.Sprintf("%s → %s", from, to),
			WIPQuantity: wip,
		})
	}
	return &dto.WIPAnalysis{
		Date:    target.Format("2006-01-02"),
		Entries: entries,
	}, nil
}

func (s *analyticsService) Timeline(ctx context.Context, start, end *time.Time, stage *model.Stage) ([]dto.TimelineDataPoint, error) {
	from, to := dateWindow(start, end, 30)
	rows, err := s.prodRepo.DailyTimeline(ctx, from, to, stage)
	if err != nil {
		return nil, err
	}
	points := make([]dto.TimelineDataPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.TimelineDataPoint{
			Date:          row.Date.Format("2006-01-02"),
			Stage:         string(row.Stage),
			TotalOutput:   row.TotalOutput,
			AvgEfficiency: round2(row.AvgEfficiency),
		})
	}
	return points, nil
}

func (s *analyticsService) Alerts(ctx context.Context, start, end *time.Time) ([]dto.Alert, error) {
	from, to := dateWindow(start, end, 7)

	configs, err := s.configRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []dto.Alert
	for _, cfg := range configs {
		records, err := s.prodRepo.RecentByStage(ctx, cfg.Stage, &from, &to, 10)
		if err != nil {
			return nil, err
		}

		for i := range records {
			rec := &records[i]
			if rec.Efficiency > 0 && rec.Efficiency < cfg.MinEfficiency {
				severity := "warning"
				if rec.Efficiency < s.thresholds.EfficiencyCritical {
					severity = "critical"
				}
				alerts = append(alerts, dto.Alert{
					Severity:    severity,
					Stage:       string(rec.Stage),
					Date:        rec.Date.Format("2006-01-02"),
					Shift:       string(rec.Shift),
					Message:     fmt.Sprintf("Low efficiency: %.1f%% (expected: >%g%%)", rec.Efficiency, cfg.MinEfficiency),
					MetricValue: rec.Efficiency,
				})
			}
			if rec.LossPercentage > 0 && rec.LossPercentage > cfg.MaxLossPercentage {
				severity := "warning"
				if rec.LossPercentage > s.thresholds.LossCritical {
					severity = "critical"
				}
				alerts = append(alerts, dto.Alert{
					Severity:    severity,
					Stage:       string(rec.Stage),
					Date:        rec.Date.Format("2006-01-02"),
					Shift:       string(rec.Shift),
					Message:     fmt.Sprintf("High loss: %.1f%% (max: %g%%)", rec.LossPercentage, cfg.MaxLossPercentage),
					MetricValue: rec.LossPercentage,
				})
			}
		}
	}

	aggs, err := s.aggregateMap(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	if b := bottleneckIn(aggs); b != nil {
		eff := model.PercentOf(aggs[*b].TotalOutput, aggs[*b].TotalInput)
		alerts = append(alerts, dto.Alert{
			Severity:    "warning",
			Stage:       string(*b),
			Date:        to.Format("2006-01-02"),
			Shift:       string(model.ShiftMorning),
			Message:     fmt.Sprintf("Bottleneck detected: %s stage has lowest efficiency (%.1f%%)", *b, eff),
			MetricValue: eff,
		})
	}

	severityRank := map[string]int{"critical": 0, "warning": 1, "info": 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		if severityRank[alerts[i].Severity] != severityRank[alerts[j].Severity] {
			return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
		}
		return alerts[i].Date > alerts[j].Date
	})

	if len(alerts) > 20 {
		alerts = alerts[:20]
	}
	return alerts, nil
}

func (s *analyticsService) OverallMetrics(ctx context.Context, start, end *time.Time) (*dto.OverallMetrics, error) {
	aggs, err := s.aggregateMap(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totalScrap := decimal.Zero
	var totalRecords int64
	for _, agg := range aggs {
		totalScrap = totalScrap.Add(agg.TotalScrap)
		totalRecords += agg.RecordCount
	}

	// Finished goods are whatever leaves the terminal stage; overall
	// efficiency relates them back to the raw input fed into the first.
	finalOutput := aggs[model.TerminalStage].TotalOutput
	initialInput := aggs[model.FirstStage()].TotalInput

	return &dto.OverallMetrics{
		TotalProduction:   finalOutput,
		TotalInput:        initialInput,
		TotalScrap:        totalScrap,
		OverallEfficiency: model.PercentOf(finalOutput, initialInput),
		TotalRecords:      totalRecords,
	}, nil
}

func (s *analyticsService) EfficiencyStats(ctx context.Context, start, end *time.Time) (*dto.EfficiencyStats, error) {
	from, to := dateWindow(start, end, 30)
	rows, err := s.prodRepo.DailyEfficiency(ctx, from, to)
	if err != nil {
		return nil, err
	}
	daily := make([]dto.DailyEfficiencyPoint, 0, len(rows))
	for _, row := range rows {
		daily = append(daily, dto.DailyEfficiencyPoint{
			Date:          row.Date.Format("2006-01-02"),
			AvgEfficiency: round1(row.AvgEfficiency),
			TotalOutput:   row.TotalOutput,
			RecordCount:   row.RecordCount,
		})
	}
	return &dto.EfficiencyStats{
		Period: fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		Daily:  daily,
	}, nil
}

func (s *analyticsService) ScrapAnalysis(ctx context.Context, start, end *time.Time) (*dto.ScrapAnalysis, error) {
	from, to := dateWindow(start, end, 30)
	rows, err := s.prodRepo.ScrapByStage(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totalScrap := decimal.Zero
	byStage := make([]dto.ScrapPoint, 0, len(rows))
	for _, row := range rows {
		totalScrap = totalScrap.Add(row.TotalScrap)
		byStage = append(byStage, dto.ScrapPoint{
			Stage:           string(row.Stage),
			TotalScrap:      row.TotalScrap,
			TotalInput:      row.TotalInput,
			ScrapPercentage: model.PercentOf(row.TotalScrap, row.TotalInput),
			RecordCount:     row.RecordCount,
		})
	}

	return &dto.ScrapAnalysis{
		Period:     fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		TotalScrap: totalScrap,
		ByStage:    byStage,
	}, nil
}

func (s *analyticsService) DashboardSummary(ctx context.Context, start, end *time.Time) (*dto.DashboardSummary, error) {
	from, to := dateWindow(start, end, 30)

	metrics, err := s.OverallMetrics(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	aggs, err := s.aggregateMap(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	var bottleneck *string
	if b := bottleneckIn(aggs); b != nil {
		name := string(*b)
		bottleneck = &name
	}

	alerts, err := s.Alerts(ctx, &from, &to)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, a := range alerts {
		if a.Severity == "warning" || a.Severity == "critical" {
			active++
		}
	}

	activeOrders, err := s.orderRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeBatches, err := s.batchRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummary{
		TotalProduction:   metrics.TotalProduction,
		TotalScrap:        metrics.TotalScrap,
		OverallEfficiency: metrics.OverallEfficiency,
		BottleneckStage:   bottleneck,
		ActiveAlerts:      active,
		ActiveOrders:      activeOrders,
		ActiveBatches:     activeBatches,
		DateRange:         fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
	}, nil
}
