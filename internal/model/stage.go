package model

import "github.com/shopspring/decimal"

// Stage identifies one step of the wire manufacturing flow. This is the single
// canonical stage set shared by every layer — the first five values are the
// core drawing stages, the remaining three are post-production handling.
type Stage string

const (
	StageRBD          Stage = "RBD"
	StageInter        Stage = "Inter"
	StageOven         Stage = "Oven"
	StageDPC          Stage = "DPC"
	StageRewind       Stage = "Rewind"
	StageQualityCheck Stage = "Quality Check"
	StagePackaging    Stage = "Packaging"
	StageDispatch     Stage = "Dispatch"
)

// TerminalStage is the last core production stage. Material reaching it counts
// as finished production: it closes batches and feeds order completion.
const TerminalStage = StageRewind

var allStages = []Stage{
	StageRBD, StageInter, StageOven, StageDPC, StageRewind,
	StageQualityCheck, StagePackaging, StageDispatch,
}

// AllStages returns the full guided stage order, core stages first.
func AllStages() []Stage {
	out := make([]Stage, len(allStages))
	copy(out, allStages)
	return out
}

// CoreStages returns the five drawing stages in process order.
func CoreStages() []Stage {
	out := make([]Stage, 5)
	copy(out, allStages[:5])
	return out
}

// FirstStage is where unassigned material enters the process.
func FirstStage() Stage { return allStages[0] }

func (s Stage) Valid() bool { return StageIndex(s) >= 0 }

// IsCore reports whether s is one of the five drawing stages.
func (s Stage) IsCore() bool {
	idx := StageIndex(s)
	return idx >= 0 && idx < 5
}

// StageIndex returns the position of s in the guided order, or -1.
func StageIndex(s Stage) int {
	for i, st := range allStages {
		if st == s {
			return i
		}
	}
	return -1
}

// NextStage returns the stage immediately after current in the guided order.
// ok is false when current is the last stage or not a catalog stage at all.
func NextStage(current Stage) (Stage, bool) {
	idx := StageIndex(current)
	if idx < 0 || idx+1 >= len(allStages) {
		return "", false
	}
	return allStages[idx+1], true
}

// PreviousCoreStage returns the core stage feeding s, if any. Used by the
// sequential-flow inventory update (IN at a stage pulls from its predecessor).
func PreviousCoreStage(s Stage) (Stage, bool) {
	idx := StageIndex(s)
	if idx < 1 || idx >= 5 {
		return "", false
	}
	return allStages[idx-1], true
}

// Shift is a production shift.
type Shift string

const (
	ShiftMorning   Shift = "Morning"
	ShiftAfternoon Shift = "Afternoon"
	ShiftNight     Shift = "Night"
)

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// PercentOf computes part/whole×100 rounded to 2 decimals, 0 when whole ≤ 0.
// Used for efficiency (output/input) and loss (scrap/input) everywhere so the
// stored and derived figures never diverge.
func PercentOf(part, whole decimal.Decimal) float64 {
	if whole.Sign() <= 0 {
		return 0
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}
