package repository

import (
	"context"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository covers production orders and their per-stage progress rows.
type OrderRepository interface {
	Create(ctx context.Context, o *model.ProductionOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOrder, error)
	FindByNumber(ctx context.Context, number string) (*model.ProductionOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error)
	CountActive(ctx context.Context) (int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.ProductionOrder, error)

	// Tx variants are used inside transactions — callers pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionOrder, error)
	UpdateTx(tx *gorm.DB, o *model.ProductionOrder) error
	FindProgressTx(tx *gorm.DB, orderID uuid.UUID, stage model.Stage) (*model.OrderStageProgress, error)
	UpdateProgressTx(tx *gorm.DB, p *model.OrderStageProgress) error

	Update(ctx context.Context, o *model.ProductionOrder) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.ProductionOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOrder, error) {
	var o model.ProductionOrder
	err := r.db.WithContext(ctx).Preload("Progress", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_stage_progress.id ASC")
	}).First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*model.ProductionOrder, error) {
	var o model.ProductionOrder
	err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error) {
	var orders []model.ProductionOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductionOrder{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Progress").
		Order("priority DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductionOrder{}).
		Where("status IN ?", []model.OrderStatus{model.OrderPending, model.OrderInProgress}).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) ListByStatus(ctx context.Context, status string) ([]model.ProductionOrder, error) {
	var orders []model.ProductionOrder
	q := r.db.WithContext(ctx).Order("priority DESC, created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductionOrder, error) {
	var o model.ProductionOrder
	err := tx.First(&o, id).Error
	return &o, err
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.ProductionOrder) error {
	return tx.Save(o).Error
}

func (r *orderRepo) FindProgressTx(tx *gorm.DB, orderID uuid.UUID, stage model.Stage) (*model.OrderStageProgress, error) {
	var p model.OrderStageProgress
	err := tx.Where("order_id = ? AND stage = ?", orderID, stage).First(&p).Error
	return &p, err
}

func (r *orderRepo) UpdateProgressTx(tx *gorm.DB, p *model.OrderStageProgress) error {
	return tx.Save(p).Error
}

func (r *orderRepo) Update(ctx context.Context, o *model.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
