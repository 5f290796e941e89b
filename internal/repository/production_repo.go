package repository

import (
	"context"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StageAggregate is one row of the per-stage rollup query. Efficiency and
// loss ratios are derived from the totals by the caller so that high-volume
// records weigh more than small ones.
type StageAggregate struct {
	Stage       model.Stage
	TotalInput  decimal.Decimal
	TotalOutput decimal.Decimal
	TotalScrap  decimal.Decimal
	RecordCount int64
}

// DailyEfficiencyRow is one day's average efficiency across all stages.
type DailyEfficiencyRow struct {
	Date          time.Time
	AvgEfficiency float64
	TotalOutput   decimal.Decimal
	RecordCount   int64
}

// TimelineRow is one (date, stage) bucket of the daily output query.
type TimelineRow struct {
	Date          time.Time
	Stage         model.Stage
	TotalOutput   decimal.Decimal
	AvgEfficiency float64
}

// ProductionRepository defines the data access contract for production
// records. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via mocks.
type ProductionRepository interface {
	Create(ctx context.Context, rec *model.ProductionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionRecord, error)
	List(ctx context.Context, filter dto.ProductionFilter) ([]model.ProductionRecord, int64, error)
	Update(ctx context.Context, rec *model.ProductionRecord) error

	// AggregateByStage rolls up input/output/scrap totals per stage.
	// Nil bounds mean unbounded.
	AggregateByStage(ctx context.Context, start, end *time.Time) ([]StageAggregate, error)

	// AggregateForStage rolls up one stage, optionally narrowed to a shift.
	AggregateForStage(ctx context.Context, stage model.Stage, start, end *time.Time, shift *model.Shift) (*StageAggregate, error)

	// RecentByStage returns the newest records for one stage within the
	// optional date bounds, newest first.
	RecentByStage(ctx context.Context, stage model.Stage, start, end *time.Time, limit int) ([]model.ProductionRecord, error)

	// DailyTimeline buckets output per (date, stage) over [start, end],
	// optionally restricted to one stage.
	DailyTimeline(ctx context.Context, start, end time.Time, stage *model.Stage) ([]TimelineRow, error)

	// DailyEfficiency averages per-record efficiency per day, skipping
	// zero-efficiency rows.
	DailyEfficiency(ctx context.Context, start, end time.Time) ([]DailyEfficiencyRow, error)

	// ScrapByStage rolls up scrap totals per stage over records that
	// actually produced scrap.
	ScrapByStage(ctx context.Context, start, end time.Time) ([]StageAggregate, error)

	// SumThrough returns cumulative SUM(column) for a stage over all records
	// dated on or before the given day. Column must be one of the quantity
	// columns.
	SumThrough(ctx context.Context, stage model.Stage, column string, through time.Time) (decimal.Decimal, error)

	// ListOrderedTx returns records ordered by (date, id) for ledger replay,
	// optionally restricted to dates on or after since. It runs on the
	// caller's transaction so the replay reads and writes commit together.
	ListOrderedTx(tx *gorm.DB, since *time.Time) ([]model.ProductionRecord, error)

	// ListRange returns the records of a date window in chronological order,
	// unpaginated, for report rendering.
	ListRange(ctx context.Context, start, end time.Time) ([]model.ProductionRecord, error)

	// ListByDate returns one day's records in creation order.
	ListByDate(ctx context.Context, day time.Time) ([]model.ProductionRecord, error)

	// CreateTx is used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, rec *model.ProductionRecord) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productionRepo struct{ db *gorm.DB }

func NewProductionRepository(db *gorm.DB) ProductionRepository { return &productionRepo{db: db} }

func (r *productionRepo) Create(ctx context.Context, rec *model.ProductionRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *productionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionRecord, error) {
	var rec model.ProductionRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *productionRepo) List(ctx context.Context, filter dto.ProductionFilter) ([]model.ProductionRecord, int64, error) {
	var records []model.ProductionRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductionRecord{})

	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	if filter.Stage != "" {
		q = q.Where("stage = ?", filter.Stage)
	}
	if filter.Shift != "" {
		q = q.Where("shift = ?", filter.Shift)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC, created_at DESC").Limit(filter.Limit).Offset(offset).Find(&records).Error
	return records, total, err
}

func (r *productionRepo) Update(ctx context.Context, rec *model.ProductionRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *productionRepo) AggregateByStage(ctx context.Context, start, end *time.Time) ([]StageAggregate, error) {
	var rows []StageAggregate
	q := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select(`stage,
			COALESCE(SUM(input_qty), 0)  AS total_input,
			COALESCE(SUM(output_qty), 0) AS total_output,
			COALESCE(SUM(scrap_qty), 0)  AS total_scrap,
			COUNT(*) AS record_count`).
		Group("stage")

	if start != nil {
		q = q.Where("date >= ?", start.Format("2006-01-02"))
	}
	if end != nil {
		q = q.Where("date <= ?", end.Format("2006-01-02"))
	}

	err := q.Scan(&rows).Error
	return rows, err
}

func (r *productionRepo) AggregateForStage(ctx context.Context, stage model.Stage, start, end *time.Time, shift *model.Shift) (*StageAggregate, error) {
	var row StageAggregate
	q := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select(`stage,
			COALESCE(SUM(input_qty), 0)  AS total_input,
			COALESCE(SUM(output_qty), 0) AS total_output,
			COALESCE(SUM(scrap_qty), 0)  AS total_scrap,
			COUNT(*) AS record_count`).
		Where("stage = ?", stage).
		Group("stage")

	if start != nil {
		q = q.Where("date >= ?", start.Format("2006-01-02"))
	}
	if end != nil {
		q = q.Where("date <= ?", end.Format("2006-01-02"))
	}
	if shift != nil {
		q = q.Where("shift = ?", *shift)
	}

	if err := q.Scan(&row).Error; err != nil {
		return nil, err
	}
	row.Stage = stage
	return &row, nil
}

func (r *productionRepo) RecentByStage(ctx context.Context, stage model.Stage, start, end *time.Time, limit int) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	q := r.db.WithContext(ctx).Where("stage = ?", stage)
	if start != nil {
		q = q.Where("date >= ?", start.Format("2006-01-02"))
	}
	if end != nil {
		q = q.Where("date <= ?", end.Format("2006-01-02"))
	}
	err := q.Order("date DESC, created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (r *productionRepo) DailyTimeline(ctx context.Context, start, end time.Time, stage *model.Stage) ([]TimelineRow, error) {
	var rows []TimelineRow
	q := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select(`date,
			stage,
			COALESCE(SUM(output_qty), 0) AS total_output,
			COALESCE(AVG(efficiency), 0) AS avg_efficiency`).
		Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02"))
	if stage != nil {
		q = q.Where("stage = ?", *stage)
	}
	err := q.Group("date, stage").Order("date ASC").Scan(&rows).Error
	return rows, err
}

func (r *productionRepo) DailyEfficiency(ctx context.Context, start, end time.Time) ([]DailyEfficiencyRow, error) {
	var rows []DailyEfficiencyRow
	err := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select(`date,
			COALESCE(AVG(efficiency), 0) AS avg_efficiency,
			COALESCE(SUM(output_qty), 0) AS total_output,
			COUNT(*) AS record_count`).
		Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("efficiency > 0").
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *productionRepo) ScrapByStage(ctx context.Context, start, end time.Time) ([]StageAggregate, error) {
	var rows []StageAggregate
	err := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select(`stage,
			COALESCE(SUM(input_qty), 0)  AS total_input,
			COALESCE(SUM(output_qty), 0) AS total_output,
			COALESCE(SUM(scrap_qty), 0)  AS total_scrap,
			COUNT(*) AS record_count`).
		Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("scrap_qty > 0").
		Group("stage").
		Scan(&rows).Error
	return rows, err
}

func (r *productionRepo) SumThrough(ctx context.Context, stage model.Stage, column string, through time.Time) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.ProductionRecord{}).
		Select("COALESCE(SUM("+column+"), 0) AS total").
		Where("stage = ? AND date <= ?", stage, through.Format("2006-01-02")).
		Scan(&out).Error
	return out.Total, err
}

func (r *productionRepo) ListOrderedTx(tx *gorm.DB, since *time.Time) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	q := tx.Order("date ASC, id ASC")
	if since != nil {
		q = q.Where("date >= ?", since.Format("2006-01-02"))
	}
	err := q.Find(&records).Error
	return records, err
}

func (r *productionRepo) ListRange(ctx context.Context, start, end time.Time) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *productionRepo) ListByDate(ctx context.Context, day time.Time) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("date = ?", day.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *productionRepo) CreateTx(tx *gorm.DB, rec *model.ProductionRecord) error {
	return tx.Create(rec).Error
}

func (r *productionRepo) DB() *gorm.DB { return r.db }
