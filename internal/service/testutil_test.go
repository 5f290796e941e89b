package service

// In-memory repository stubs. They return a nil *gorm.DB so the services run
// their transactional closures directly via runTx, which keeps these tests
// free of any database.

import (
	"context"
	"sort"
	"time"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Production ───────────────────────────────────────────────────────────────

type stubProductionRepo struct {
	records []*model.ProductionRecord
}

func newStubProductionRepo() *stubProductionRepo { return &stubProductionRepo{} }

func (r *stubProductionRepo) add(date string, stage model.Stage, shift model.Shift, in, out, scrap int64) *model.ProductionRecord {
	rec := &model.ProductionRecord{
		ID:             uuid.New(),
		Date:           day(date),
		Shift:          shift,
		Stage:          stage,
		InputQty:       dec(in),
		OutputQty:      dec(out),
		ScrapQty:       dec(scrap),
		Efficiency:     model.PercentOf(dec(out), dec(in)),
		LossPercentage: model.PercentOf(dec(scrap), dec(in)),
		CreatedAt:      time.Now(),
	}
	r.records = append(r.records, rec)
	return rec
}

func inWindow(rec *model.ProductionRecord, start, end *time.Time) bool {
	if start != nil && rec.Date.Before(*start) {
		return false
	}
	if end != nil && rec.Date.After(*end) {
		return false
	}
	return true
}

func (r *stubProductionRepo) Create(_ context.Context, rec *model.ProductionRecord) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	r.records = append(r.records, rec)
	return nil
}

func (r *stubProductionRepo) CreateTx(_ *gorm.DB, rec *model.ProductionRecord) error {
	return r.Create(context.Background(), rec)
}

func (r *stubProductionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductionRepo) List(_ context.Context, filter dto.ProductionFilter) ([]model.ProductionRecord, int64, error) {
	var out []model.ProductionRecord
	for _, rec := range r.records {
		if filter.Stage != "" && rec.Stage != model.Stage(filter.Stage) {
			continue
		}
		if filter.Shift != "" && rec.Shift != model.Shift(filter.Shift) {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductionRepo) Update(_ context.Context, rec *model.ProductionRecord) error {
	for i, existing := range r.records {
		if existing.ID == rec.ID {
			r.records[i] = rec
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductionRepo) aggregate(start, end *time.Time, only func(*model.ProductionRecord) bool) map[model.Stage]*repository.StageAggregate {
	m := make(map[model.Stage]*repository.StageAggregate)
	for _, rec := range r.records {
		if !inWindow(rec, start, end) {
			continue
		}
		if only != nil && !only(rec) {
			continue
		}
		agg, ok := m[rec.Stage]
		if !ok {
			agg = &repository.StageAggregate{Stage: rec.Stage}
			m[rec.Stage] = agg
		}
		agg.TotalInput = agg.TotalInput.Add(rec.InputQty)
		agg.TotalOutput = agg.TotalOutput.Add(rec.OutputQty)
		agg.TotalScrap = agg.TotalScrap.Add(rec.ScrapQty)
		agg.RecordCount++
	}
	return m
}

func (r *stubProductionRepo) AggregateByStage(_ context.Context, start, end *time.Time) ([]repository.StageAggregate, error) {
	m := r.aggregate(start, end, nil)
	out := make([]repository.StageAggregate, 0, len(m))
	for _, st := range model.AllStages() {
		if agg, ok := m[st]; ok {
			out = append(out, *agg)
		}
	}
	return out, nil
}

func (r *stubProductionRepo) AggregateForStage(_ context.Context, stage model.Stage, start, end *time.Time, shift *model.Shift) (*repository.StageAggregate, error) {
	m := r.aggregate(start, end, func(rec *model.ProductionRecord) bool {
		if rec.Stage != stage {
			return false
		}
		if shift != nil && rec.Shift != *shift {
			return false
		}
		return true
	})
	agg, ok := m[stage]
	if !ok {
		return &repository.StageAggregate{Stage: stage}, nil
	}
	return agg, nil
}

func (r *stubProductionRepo) RecentByStage(_ context.Context, stage model.Stage, start, end *time.Time, limit int) ([]model.ProductionRecord, error) {
	var out []model.ProductionRecord
	for _, rec := range r.records {
		if rec.Stage == stage && inWindow(rec, start, end) {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubProductionRepo) DailyTimeline(_ context.Context, start, end time.Time, stage *model.Stage) ([]repository.TimelineRow, error) {
	type key struct {
		date  time.Time
		stage model.Stage
	}
	sums := make(map[key]*repository.TimelineRow)
	counts := make(map[key]int)
	for _, rec := range r.records {
		if !inWindow(rec, &start, &end) {
			continue
		}
		if stage != nil && rec.Stage != *stage {
			continue
		}
		k := key{rec.Date, rec.Stage}
		row, ok := sums[k]
		if !ok {
			row = &repository.TimelineRow{Date: rec.Date, Stage: rec.Stage}
			sums[k] = row
		}
		row.TotalOutput = row.TotalOutput.Add(rec.OutputQty)
		row.AvgEfficiency += rec.Efficiency
		counts[k]++
	}
	out := make([]repository.TimelineRow, 0, len(sums))
	for k, row := range sums {
		row.AvgEfficiency /= float64(counts[k])
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *stubProductionRepo) DailyEfficiency(_ context.Context, start, end time.Time) ([]repository.DailyEfficiencyRow, error) {
	sums := make(map[time.Time]*repository.DailyEfficiencyRow)
	for _, rec := range r.records {
		if !inWindow(rec, &start, &end) || rec.Efficiency <= 0 {
			continue
		}
		row, ok := sums[rec.Date]
		if !ok {
			row = &repository.DailyEfficiencyRow{Date: rec.Date}
			sums[rec.Date] = row
		}
		row.AvgEfficiency += rec.Efficiency
		row.TotalOutput = row.TotalOutput.Add(rec.OutputQty)
		row.RecordCount++
	}
	out := make([]repository.DailyEfficiencyRow, 0, len(sums))
	for _, row := range sums {
		row.AvgEfficiency /= float64(row.RecordCount)
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *stubProductionRepo) ScrapByStage(_ context.Context, start, end time.Time) ([]repository.StageAggregate, error) {
	m := r.aggregate(&start, &end, func(rec *model.ProductionRecord) bool {
		return rec.ScrapQty.Sign() > 0
	})
	out := make([]repository.StageAggregate, 0, len(m))
	for _, st := range model.AllStages() {
		if agg, ok := m[st]; ok {
			out = append(out, *agg)
		}
	}
	return out, nil
}

func (r *stubProductionRepo) SumThrough(_ context.Context, stage model.Stage, column string, through time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.records {
		if rec.Stage != stage || rec.Date.After(through) {
			continue
		}
		switch column {
		case "input_qty":
			total = total.Add(rec.InputQty)
		case "output_qty":
			total = total.Add(rec.OutputQty)
		case "scrap_qty":
			total = total.Add(rec.ScrapQty)
		}
	}
	return total, nil
}

func (r *stubProductionRepo) ListOrderedTx(_ *gorm.DB, since *time.Time) ([]model.ProductionRecord, error) {
	out := make([]model.ProductionRecord, 0, len(r.records))
	for _, rec := range r.records {
		if since != nil && rec.Date.Before(*since) {
			continue
		}
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *stubProductionRepo) ListRange(_ context.Context, start, end time.Time) ([]model.ProductionRecord, error) {
	var out []model.ProductionRecord
	for _, rec := range r.records {
		if inWindow(rec, &start, &end) {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *stubProductionRepo) ListByDate(_ context.Context, date time.Time) ([]model.ProductionRecord, error) {
	key := date.Format("2006-01-02")
	var out []model.ProductionRecord
	for _, rec := range r.records {
		if rec.Date.Format("2006-01-02") == key {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubProductionRepo) DB() *gorm.DB { return nil }

// ── Inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	stocks    map[model.Stage]*model.StageInventory
	txns      []*model.InventoryTransaction
	movements []*model.MaterialMovement
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{stocks: make(map[model.Stage]*model.StageInventory)}
}

func (r *stubInventoryRepo) seed(stage model.Stage, stock, min, max int64) {
	r.stocks[stage] = &model.StageInventory{
		ID:            uuid.New(),
		Stage:         stage,
		CurrentStock:  dec(stock),
		MinStockLevel: dec(min),
		MaxStockLevel: dec(max),
	}
}

func (r *stubInventoryRepo) ListStocks(_ context.Context) ([]model.StageInventory, error) {
	out := make([]model.StageInventory, 0, len(r.stocks))
	for _, st := range model.AllStages() {
		if inv, ok := r.stocks[st]; ok {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) FindStock(_ context.Context, stage model.Stage) (*model.StageInventory, error) {
	inv, ok := r.stocks[stage]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubInventoryRepo) SeedStocks(_ context.Context, defaults []model.StageInventory) error {
	for i := range defaults {
		d := defaults[i]
		if _, ok := r.stocks[d.Stage]; !ok {
			d.ID = uuid.New()
			r.stocks[d.Stage] = &d
		}
	}
	return nil
}

func (r *stubInventoryRepo) ListTransactions(_ context.Context, stage model.Stage, limit int) ([]model.InventoryTransaction, error) {
	var out []model.InventoryTransaction
	for i := len(r.txns) - 1; i >= 0 && len(out) < limit; i-- {
		t := r.txns[i]
		if stage != "" && t.Stage != stage {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubInventoryRepo) ListMovements(_ context.Context, limit int) ([]model.MaterialMovement, error) {
	var out []model.MaterialMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.movements[i])
	}
	return out, nil
}

func (r *stubInventoryRepo) FindStockTx(_ *gorm.DB, stage model.Stage) (*model.StageInventory, error) {
	return r.FindStock(context.Background(), stage)
}

func (r *stubInventoryRepo) CreateStockTx(_ *gorm.DB, inv *model.StageInventory) error {
	inv.ID = uuid.New()
	r.stocks[inv.Stage] = inv
	return nil
}

func (r *stubInventoryRepo) SetStockTx(_ *gorm.DB, stage model.Stage, stock decimal.Decimal) error {
	inv, ok := r.stocks[stage]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.CurrentStock = stock
	return nil
}

func (r *stubInventoryRepo) CreateTransactionTx(_ *gorm.DB, t *model.InventoryTransaction) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	r.txns = append(r.txns, t)
	return nil
}

func (r *stubInventoryRepo) CreateMovementTx(_ *gorm.DB, m *model.MaterialMovement) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubInventoryRepo) ResetAllStocksTx(_ *gorm.DB) error {
	for _, inv := range r.stocks {
		inv.CurrentStock = decimal.Zero
	}
	return nil
}

func (r *stubInventoryRepo) UpdateStock(_ context.Context, inv *model.StageInventory) error {
	r.stocks[inv.Stage] = inv
	return nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

// ── Orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.ProductionOrder
	progress map[uuid.UUID]map[model.Stage]*model.OrderStageProgress
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*model.ProductionOrder),
		progress: make(map[uuid.UUID]map[model.Stage]*model.OrderStageProgress),
	}
}

func (r *stubOrderRepo) Create(_ context.Context, o *model.ProductionOrder) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	for i := range o.Progress {
		o.Progress[i].ID = uuid.New()
		o.Progress[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByNumber(_ context.Context, number string) (*model.ProductionOrder, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error) {
	var out []model.ProductionOrder
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != model.OrderStatus(filter.Status) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.Status == model.OrderPending || o.Status == model.OrderInProgress {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) ListByStatus(_ context.Context, status string) ([]model.ProductionOrder, error) {
	var out []model.ProductionOrder
	for _, o := range r.orders {
		if status == "" || o.Status == model.OrderStatus(status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.ProductionOrder, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) UpdateTx(_ *gorm.DB, o *model.ProductionOrder) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindProgressTx(_ *gorm.DB, orderID uuid.UUID, stage model.Stage) (*model.OrderStageProgress, error) {
	if m, ok := r.progress[orderID]; ok {
		if p, ok := m[stage]; ok {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) UpdateProgressTx(_ *gorm.DB, p *model.OrderStageProgress) error {
	m, ok := r.progress[p.OrderID]
	if !ok {
		m = make(map[model.Stage]*model.OrderStageProgress)
		r.progress[p.OrderID] = m
	}
	m[p.Stage] = p
	return nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *model.ProductionOrder) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── Batches ──────────────────────────────────────────────────────────────────

type stubBatchRepo struct {
	batches    map[uuid.UUID]*model.BatchTracking
	journey    []*model.BatchJourneyEvent
	holdEvents []*model.BatchHoldEvent
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[uuid.UUID]*model.BatchTracking)}
}

func (r *stubBatchRepo) Create(_ context.Context, b *model.BatchTracking) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BatchTracking, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBatchRepo) FindByNumber(_ context.Context, number string) (*model.BatchTracking, error) {
	for _, b := range r.batches {
		if b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBatchRepo) FindDetail(ctx context.Context, id uuid.UUID) (*model.BatchTracking, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *b
	cp.JourneyEvents = nil
	for _, e := range r.journey {
		if e.BatchID == id {
			cp.JourneyEvents = append(cp.JourneyEvents, *e)
		}
	}
	cp.HoldEvents = nil
	for _, e := range r.holdEvents {
		if e.BatchID == id {
			cp.HoldEvents = append(cp.HoldEvents, *e)
		}
	}
	return &cp, nil
}

func (r *stubBatchRepo) List(_ context.Context, filter dto.BatchFilter) ([]model.BatchTracking, int64, error) {
	var out []model.BatchTracking
	for _, b := range r.batches {
		if filter.Status != "" && b.Status != model.BatchStatus(filter.Status) {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBatchRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, b := range r.batches {
		if b.Status == model.BatchActive {
			n++
		}
	}
	return n, nil
}

func (r *stubBatchRepo) Update(_ context.Context, b *model.BatchTracking) error {
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) CreateHoldEvent(_ context.Context, e *model.BatchHoldEvent) error {
	return r.CreateHoldEventTx(nil, e)
}

func (r *stubBatchRepo) CreateTx(_ *gorm.DB, b *model.BatchTracking) error {
	return r.Create(context.Background(), b)
}

func (r *stubBatchRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.BatchTracking, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubBatchRepo) UpdateTx(_ *gorm.DB, b *model.BatchTracking) error {
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) CreateJourneyEventTx(_ *gorm.DB, e *model.BatchJourneyEvent) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	r.journey = append(r.journey, e)
	return nil
}

func (r *stubBatchRepo) CreateHoldEventTx(_ *gorm.DB, e *model.BatchHoldEvent) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	r.holdEvents = append(r.holdEvents, e)
	return nil
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

// ── Stage configs ────────────────────────────────────────────────────────────

type stubConfigRepo struct {
	configs []*model.StageConfig
}

func newStubConfigRepo() *stubConfigRepo {
	r := &stubConfigRepo{}
	for i, st := range model.CoreStages() {
		r.configs = append(r.configs, &model.StageConfig{
			ID:                uuid.New(),
			Stage:             st,
			MinEfficiency:     85,
			MaxLossPercentage: 5,
			SequenceOrder:     i + 1,
		})
	}
	return r
}

func (r *stubConfigRepo) ListOrdered(_ context.Context) ([]model.StageConfig, error) {
	out := make([]model.StageConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		out = append(out, *cfg)
	}
	return out, nil
}

func (r *stubConfigRepo) FindByStage(_ context.Context, stage model.Stage) (*model.StageConfig, error) {
	for _, cfg := range r.configs {
		if cfg.Stage == stage {
			return cfg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubConfigRepo) Update(_ context.Context, cfg *model.StageConfig) error {
	for i, existing := range r.configs {
		if existing.Stage == cfg.Stage {
			r.configs[i] = cfg
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubConfigRepo) SeedDefaults(_ context.Context, defaults []model.StageConfig) error {
	for i := range defaults {
		d := defaults[i]
		if _, err := r.FindByStage(context.Background(), d.Stage); err != nil {
			d.ID = uuid.New()
			r.configs = append(r.configs, &d)
		}
	}
	return nil
}

func (r *stubConfigRepo) DB() *gorm.DB { return nil }

// ── Quality ──────────────────────────────────────────────────────────────────

type stubQualityRepo struct {
	inspections []*model.QualityInspection
	dispatches  map[uuid.UUID]*model.DispatchRecord
}

func newStubQualityRepo() *stubQualityRepo {
	return &stubQualityRepo{dispatches: make(map[uuid.UUID]*model.DispatchRecord)}
}

func (r *stubQualityRepo) ListInspections(_ context.Context, filter dto.InspectionFilter) ([]model.QualityInspection, error) {
	var out []model.QualityInspection
	for _, q := range r.inspections {
		if filter.Status != "" && q.QualityStatus != filter.Status {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (r *stubQualityRepo) FindDispatchByID(_ context.Context, id uuid.UUID) (*model.DispatchRecord, error) {
	d, ok := r.dispatches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *stubQualityRepo) ListDispatches(_ context.Context, filter dto.DispatchFilter) ([]model.DispatchRecord, error) {
	var out []model.DispatchRecord
	for _, d := range r.dispatches {
		if filter.Status != "" && d.DeliveryStatus != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubQualityRepo) CreateInspectionTx(_ *gorm.DB, q *model.QualityInspection) error {
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	r.inspections = append(r.inspections, q)
	return nil
}

func (r *stubQualityRepo) CreateDispatchTx(_ *gorm.DB, d *model.DispatchRecord) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	r.dispatches[d.ID] = d
	return nil
}

func (r *stubQualityRepo) SaveDispatchTx(_ *gorm.DB, d *model.DispatchRecord) error {
	r.dispatches[d.ID] = d
	return nil
}

func (r *stubQualityRepo) DB() *gorm.DB { return nil }

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: make(map[uuid.UUID]*model.User)} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}
