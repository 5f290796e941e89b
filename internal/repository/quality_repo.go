package repository

import (
	"context"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityRepository covers post-production inspections and dispatches.
type QualityRepository interface {
	ListInspections(ctx context.Context, filter dto.InspectionFilter) ([]model.QualityInspection, error)

	FindDispatchByID(ctx context.Context, id uuid.UUID) (*model.DispatchRecord, error)
	ListDispatches(ctx context.Context, filter dto.DispatchFilter) ([]model.DispatchRecord, error)

	// Tx variants are used inside transactions — callers pass the tx instance.
	CreateInspectionTx(tx *gorm.DB, q *model.QualityInspection) error
	CreateDispatchTx(tx *gorm.DB, d *model.DispatchRecord) error
	SaveDispatchTx(tx *gorm.DB, d *model.DispatchRecord) error

	DB() *gorm.DB
}

type qualityRepo struct{ db *gorm.DB }

func NewQualityRepository(db *gorm.DB) QualityRepository { return &qualityRepo{db: db} }

func (r *qualityRepo) ListInspections(ctx context.Context, filter dto.InspectionFilter) ([]model.QualityInspection, error) {
	var inspections []model.QualityInspection
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	if filter.OrderID != "" {
		q = q.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		q = q.Where("quality_status = ?", filter.Status)
	}
	err := q.Find(&inspections).Error
	return inspections, err
}

func (r *qualityRepo) FindDispatchByID(ctx context.Context, id uuid.UUID) (*model.DispatchRecord, error) {
	var d model.DispatchRecord
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *qualityRepo) ListDispatches(ctx context.Context, filter dto.DispatchFilter) ([]model.DispatchRecord, error) {
	var dispatches []model.DispatchRecord
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.OrderID != "" {
		q = q.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		q = q.Where("delivery_status = ?", filter.Status)
	}
	err := q.Find(&dispatches).Error
	return dispatches, err
}

func (r *qualityRepo) CreateInspectionTx(tx *gorm.DB, q *model.QualityInspection) error {
	return tx.Create(q).Error
}

func (r *qualityRepo) CreateDispatchTx(tx *gorm.DB, d *model.DispatchRecord) error {
	return tx.Create(d).Error
}

func (r *qualityRepo) SaveDispatchTx(tx *gorm.DB, d *model.DispatchRecord) error {
	return tx.Save(d).Error
}

func (r *qualityRepo) DB() *gorm.DB { return r.db }
