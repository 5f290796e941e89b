package repository

import (
	"context"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchRepository covers batch coils, their journey events and hold history.
type BatchRepository interface {
	Create(ctx context.Context, b *model.BatchTracking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BatchTracking, error)
	FindByNumber(ctx context.Context, number string) (*model.BatchTracking, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.BatchTracking, error)
	List(ctx context.Context, filter dto.BatchFilter) ([]model.BatchTracking, int64, error)
	CountActive(ctx context.Context) (int64, error)

	Update(ctx context.Context, b *model.BatchTracking) error
	CreateHoldEvent(ctx context.Context, e *model.BatchHoldEvent) error

	// Tx variants are used inside transactions — callers pass the tx instance.
	CreateTx(tx *gorm.DB, b *model.BatchTracking) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.BatchTracking, error)
	UpdateTx(tx *gorm.DB, b *model.BatchTracking) error
	CreateJourneyEventTx(tx *gorm.DB, e *model.BatchJourneyEvent) error
	CreateHoldEventTx(tx *gorm.DB, e *model.BatchHoldEvent) error

	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) Create(ctx context.Context, b *model.BatchTracking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BatchTracking, error) {
	var b model.BatchTracking
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *batchRepo) FindByNumber(ctx context.Context, number string) (*model.BatchTracking, error) {
	var b model.BatchTracking
	err := r.db.WithContext(ctx).Where("batch_number = ?", number).First(&b).Error
	return &b, err
}

func (r *batchRepo) FindDetail(ctx context.Context, id uuid.UUID) (*model.BatchTracking, error) {
	var b model.BatchTracking
	err := r.db.WithContext(ctx).
		Preload("JourneyEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("batch_journey_events.created_at ASC")
		}).
		Preload("HoldEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("batch_hold_events.created_at ASC")
		}).
		First(&b, id).Error
	return &b, err
}

func (r *batchRepo) List(ctx context.Context, filter dto.BatchFilter) ([]model.BatchTracking, int64, error) {
	var batches []model.BatchTracking
	var total int64

	q := r.db.WithContext(ctx).Model(&model.BatchTracking{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Stage != "" {
		q = q.Where("current_stage = ?", filter.Stage)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("HoldEvents", func(db *gorm.DB) *gorm.DB {
		return db.Order("batch_hold_events.created_at ASC")
	}).Order("updated_at DESC").Limit(filter.Limit).Offset(offset).Find(&batches).Error
	return batches, total, err
}

func (r *batchRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BatchTracking{}).
		Where("status = ?", model.BatchActive).
		Count(&n).Error
	return n, err
}

func (r *batchRepo) Update(ctx context.Context, b *model.BatchTracking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *batchRepo) CreateHoldEvent(ctx context.Context, e *model.BatchHoldEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *batchRepo) CreateTx(tx *gorm.DB, b *model.BatchTracking) error {
	return tx.Create(b).Error
}

func (r *batchRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.BatchTracking, error) {
	var b model.BatchTracking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	return &b, err
}

func (r *batchRepo) UpdateTx(tx *gorm.DB, b *model.BatchTracking) error {
	return tx.Save(b).Error
}

func (r *batchRepo) CreateJourneyEventTx(tx *gorm.DB, e *model.BatchJourneyEvent) error {
	return tx.Create(e).Error
}

func (r *batchRepo) CreateHoldEventTx(tx *gorm.DB, e *model.BatchHoldEvent) error {
	return tx.Create(e).Error
}

func (r *batchRepo) DB() *gorm.DB { return r.db }
