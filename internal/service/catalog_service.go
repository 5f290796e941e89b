package service

import (
	"context"
	"errors"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/repository"

	"gorm.io/gorm"
)

// StageCatalogService manages the per-stage process parameters.
type StageCatalogService interface {
	ListConfigs(ctx context.Context) ([]dto.StageConfigResponse, error)
	UpdateConfig(ctx context.Context, stage string, req dto.UpdateStageConfigRequest) (*dto.StageConfigResponse, error)
	// EnsureDefaults seeds missing stage rows at boot. Existing rows are
	// never overwritten.
	EnsureDefaults(ctx context.Context) error
}

type stageCatalogService struct {
	repo repository.StageConfigRepository
}

func NewStageCatalogService(repo repository.StageConfigRepository) StageCatalogService {
	return &stageCatalogService{repo: repo}
}

func floatPtr(f float64) *float64 { return &f }

// defaultStageConfigs are the plant's baseline parameters for the five core
// drawing stages.
func defaultStageConfigs() []model.StageConfig {
	return []model.StageConfig{
		{Stage: model.StageRBD, SequenceOrder: 1, ExpectedOutputSizeMM: floatPtr(3.0), MinEfficiency: 92.0, MaxLossPercentage: 3.0},
		{Stage: model.StageInter, SequenceOrder: 2, ExpectedInputSizeMM: floatPtr(3.0), ExpectedOutputSizeMM: floatPtr(1.0), MinEfficiency: 88.0, MaxLossPercentage: 4.0},
		{Stage: model.StageOven, SequenceOrder: 3, ExpectedInputSizeMM: floatPtr(1.0), MinEfficiency: 95.0, MaxLossPercentage: 2.0, HasAnnealing: true},
		{Stage: model.StageDPC, SequenceOrder: 4, MinEfficiency: 90.0, MaxLossPercentage: 3.5},
		{Stage: model.StageRewind, SequenceOrder: 5, MinEfficiency: 98.0, MaxLossPercentage: 1.0},
	}
}

func (s *stageCatalogService) EnsureDefaults(ctx context.Context) error {
	return s.repo.SeedDefaults(ctx, defaultStageConfigs())
}

func (s *stageCatalogService) ListConfigs(ctx context.Context) ([]dto.StageConfigResponse, error) {
	configs, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StageConfigResponse, 0, len(configs))
	for i := range configs {
		out = append(out, stageConfigToResponse(&configs[i]))
	}
	return out, nil
}

func (s *stageCatalogService) UpdateConfig(ctx context.Context, stage string, req dto.UpdateStageConfigRequest) (*dto.StageConfigResponse, error) {
	st := model.Stage(stage)
	if !st.IsCore() {
		return nil, NewValidationError("unknown stage: %s", stage)
	}

	cfg, err := s.repo.FindByStage(ctx, st)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("no configuration for stage %s", stage)
		}
		return nil, err
	}

	if req.ExpectedInputSizeMM != nil {
		cfg.ExpectedInputSizeMM = req.ExpectedInputSizeMM
	}
	if req.ExpectedOutputSizeMM != nil {
		cfg.ExpectedOutputSizeMM = req.ExpectedOutputSizeMM
	}
	if req.MinEfficiency != nil {
		cfg.MinEfficiency = *req.MinEfficiency
	}
	if req.MaxLossPercentage != nil {
		cfg.MaxLossPercentage = *req.MaxLossPercentage
	}
	if req.HasAnnealing != nil {
		cfg.HasAnnealing = *req.HasAnnealing
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	resp := stageConfigToResponse(cfg)
	return &resp, nil
}

func stageConfigToResponse(cfg *model.StageConfig) dto.StageConfigResponse {
	return dto.StageConfigResponse{
		ID:                   cfg.ID.String(),
		Stage:                string(cfg.Stage),
		SequenceOrder:        cfg.SequenceOrder,
		ExpectedInputSizeMM:  cfg.ExpectedInputSizeMM,
		ExpectedOutputSizeMM: cfg.ExpectedOutputSizeMM,
		MinEfficiency:        cfg.MinEfficiency,
		MaxLossPercentage:    cfg.MaxLossPercentage,
		HasAnnealing:         cfg.HasAnnealing,
	}
}
