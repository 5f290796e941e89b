package repository

import (
	"context"

	"wiremon/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StageConfigRepository holds the per-stage process parameters.
type StageConfigRepository interface {
	ListOrdered(ctx context.Context) ([]model.StageConfig, error)
	FindByStage(ctx context.Context, stage model.Stage) (*model.StageConfig, error)
	Update(ctx context.Context, cfg *model.StageConfig) error

	// SeedDefaults inserts missing stage rows, leaving existing ones untouched.
	SeedDefaults(ctx context.Context, defaults []model.StageConfig) error

	DB() *gorm.DB
}

type stageConfigRepo struct{ db *gorm.DB }

func NewStageConfigRepository(db *gorm.DB) StageConfigRepository { return &stageConfigRepo{db: db} }

func (r *stageConfigRepo) ListOrdered(ctx context.Context) ([]model.StageConfig, error) {
	var configs []model.StageConfig
	err := r.db.WithContext(ctx).Order("sequence_order ASC").Find(&configs).Error
	return configs, err
}

func (r *stageConfigRepo) FindByStage(ctx context.Context, stage model.Stage) (*model.StageConfig, error) {
	var cfg model.StageConfig
	err := r.db.WithContext(ctx).Where("stage = ?", stage).First(&cfg).Error
	return &cfg, err
}

func (r *stageConfigRepo) Update(ctx context.Context, cfg *model.StageConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *stageConfigRepo) SeedDefaults(ctx context.Context, defaults []model.StageConfig) error {
	if len(defaults) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stage"}}, DoNothing: true}).
		Create(&defaults).Error
}

func (r *stageConfigRepo) DB() *gorm.DB { return r.db }
