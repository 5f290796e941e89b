package service

import (
	"context"
	"testing"

	"wiremon/internal/dto"
	"wiremon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateConfigRejectsNonCoreStage(t *testing.T) {
	svc := NewStageCatalogService(newStubConfigRepo())

	eff := 90.0
	_, err := svc.UpdateConfig(context.Background(), string(model.StageQualityCheck), dto.UpdateStageConfigRequest{
		MinEfficiency: &eff,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err), "post-production stages have no process parameters")
}

func TestUpdateConfigAppliesPartialChanges(t *testing.T) {
	repo := newStubConfigRepo()
	svc := NewStageCatalogService(repo)

	eff := 91.5
	resp, err := svc.UpdateConfig(context.Background(), string(model.StageOven), dto.UpdateStageConfigRequest{
		MinEfficiency: &eff,
	})
	require.NoError(t, err)
	assert.Equal(t, 91.5, resp.MinEfficiency)
	assert.Equal(t, 5.0, resp.MaxLossPercentage, "untouched fields keep their values")
}

func TestEnsureDefaultsDoesNotOverwrite(t *testing.T) {
	repo := newStubConfigRepo()
	svc := NewStageCatalogService(repo)

	eff := 50.0
	_, err := svc.UpdateConfig(context.Background(), string(model.StageRBD), dto.UpdateStageConfigRequest{MinEfficiency: &eff})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(context.Background()))

	cfg, err := repo.FindByStage(context.Background(), model.StageRBD)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.MinEfficiency)
}

func TestListConfigsReturnsSequenceOrder(t *testing.T) {
	svc := NewStageCatalogService(newStubConfigRepo())

	configs, err := svc.ListConfigs(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, len(model.CoreStages()))
	for i, cfg := range configs {
		assert.Equal(t, i+1, cfg.SequenceOrder)
	}
}
