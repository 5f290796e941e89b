package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStageOrder(t *testing.T) {
	core := CoreStages()
	assert.Equal(t, []Stage{StageRBD, StageInter, StageOven, StageDPC, StageRewind}, core)
	assert.Equal(t, StageRBD, FirstStage())
	assert.Equal(t, StageRewind, TerminalStage)

	next, ok := NextStage(StageOven)
	assert.True(t, ok)
	assert.Equal(t, StageDPC, next)

	next, ok = NextStage(StageRewind)
	assert.True(t, ok, "post-production handling follows the core flow")
	assert.Equal(t, StageQualityCheck, next)

	_, ok = NextStage(StageDispatch)
	assert.False(t, ok)

	_, ok = NextStage(Stage("Extrusion"))
	assert.False(t, ok)
}

func TestPreviousCoreStage(t *testing.T) {
	prev, ok := PreviousCoreStage(StageInter)
	assert.True(t, ok)
	assert.Equal(t, StageRBD, prev)

	_, ok = PreviousCoreStage(StageRBD)
	assert.False(t, ok, "the first stage has no feeder")

	_, ok = PreviousCoreStage(StageQualityCheck)
	assert.False(t, ok, "post-production stages are outside the stock flow")
}

func TestStageValidity(t *testing.T) {
	assert.True(t, StageDPC.Valid())
	assert.True(t, StagePackaging.Valid())
	assert.False(t, Stage("Annealing").Valid())

	assert.True(t, StageRewind.IsCore())
	assert.False(t, StageQualityCheck.IsCore())
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 95.0, PercentOf(decimal.NewFromInt(950), decimal.NewFromInt(1000)))
	assert.Equal(t, 33.33, PercentOf(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, 0.0, PercentOf(decimal.NewFromInt(5), decimal.Zero), "zero input never divides")
	assert.Equal(t, 0.0, PercentOf(decimal.NewFromInt(5), decimal.NewFromInt(-1)))
	assert.Equal(t, 150.0, PercentOf(decimal.NewFromInt(150), decimal.NewFromInt(100)), "values above 100 pass through")
}
