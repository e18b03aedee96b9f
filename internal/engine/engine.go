package engine

import (
	"math"

	"github.com/louisbranch/valuechain/internal/game/domain"
)

// Tuning constants. These are fixed game parameters, not configuration.
const (
	// BaseInvestmentEffectiveness is the health gained per $1M invested
	// before linkage bonuses.
	BaseInvestmentEffectiveness = 2.0
	// DiminishingReturnsThreshold is the health above which investment
	// gains are halved.
	DiminishingReturnsThreshold = 80.0
	// DiminishingReturnsFactor halves gains above the threshold.
	DiminishingReturnsFactor = 0.5
	// LinkageScoreScale converts a linkage's effectiveness fraction into
	// CAS points.
	LinkageScoreScale = 30.0
	// NVADragFactor converts an overhead maintenance cost into a CAS
	// penalty.
	NVADragFactor = 0.5
	// ShockScoreFactor converts a shock's raw health impact into a CAS
	// penalty for affected teams.
	ShockScoreFactor = 0.2
	// ShockImmunityBonus is the flat CAS reward for holding an immunizing
	// linkage when a shock lands.
	ShockImmunityBonus = 2.0
	// BudgetCASFactor feeds a fraction of the cycle's CAS change back into
	// next cycle's budget.
	BudgetCASFactor = 0.1
	// MarginCASFactor converts CAS change into operating margin points.
	MarginCASFactor = 0.05
)

// HealthMap indexes activity health by activity ID.
type HealthMap map[string]float64

// HealthOf builds a health map from a team's activity records.
func HealthOf(activities []domain.TeamActivity) HealthMap {
	m := make(HealthMap, len(activities))
	for _, a := range activities {
		m[a.ActivityID] = a.Health
	}
	return m
}

// round1 rounds to one decimal place, the resolution of all reported health
// and score values. Half-ties round toward +infinity, so -2.25 becomes -2.2.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
