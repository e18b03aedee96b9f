package engine

import (
	"slices"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// InvestmentGain returns the health gained from investing in an activity.
// Linkage bonuses are evaluated against the pre-shock health map; the
// diminishing-returns check uses the activity's current (post-shock) health.
func InvestmentGain(cat *catalog.Catalog, activityID string, investment, currentHealth float64, health HealthMap) float64 {
	if cat.Activity(activityID) == nil {
		return 0
	}

	effectiveness := BaseInvestmentEffectiveness * (1 + EffectivenessBonus(cat, activityID, health))
	gain := investment * effectiveness
	if currentHealth >= DiminishingReturnsThreshold {
		return gain * DiminishingReturnsFactor
	}
	return gain
}

// Decay returns the health an activity loses this cycle after linkage decay
// reductions.
func Decay(cat *catalog.Catalog, activityID string, health HealthMap) float64 {
	def := cat.Activity(activityID)
	if def == nil {
		return 0
	}
	return def.DecayRate * DecayModifier(cat, activityID, health)
}

// ApplyCuts marks the listed activities eliminated as of the given cycle.
// Cuts are validated by the caller; unknown IDs are ignored. Elimination is
// permanent.
func ApplyCuts(activities []domain.TeamActivity, cuts []string, cycle int) []domain.TeamActivity {
	out := slices.Clone(activities)
	for i := range out {
		if out[i].IsEliminated {
			continue
		}
		if slices.Contains(cuts, out[i].ActivityID) {
			out[i].IsEliminated = true
			out[i].EliminatedInCycle = cycle
		}
	}
	return out
}

// TransitionHealth computes one team's next-cycle activity state: shock
// impact first (immunity judged from pre-shock health), then investment gain
// and decay per activity, clamped to [0,100] and rounded to one decimal.
//
// Non-value-add activities never transition: they are binary
// active/eliminated and only contribute maintenance cost and score drag.
// Eliminated activities are frozen entirely. The input slice is not
// modified.
func TransitionHealth(cat *catalog.Catalog, activities []domain.TeamActivity, allocations map[string]float64, shock *catalog.ShockDefinition) []domain.TeamActivity {
	preShock := HealthOf(activities)
	activeIDs := ActiveLinkageIDs(cat, preShock)

	out := slices.Clone(activities)
	applyShock(out, shock, activeIDs)

	for i := range out {
		if out[i].IsEliminated {
			continue
		}
		def := cat.Activity(out[i].ActivityID)
		if def == nil || def.Category == catalog.CategoryNonValueAdd {
			continue
		}

		investment := allocations[out[i].ActivityID]
		gain := InvestmentGain(cat, out[i].ActivityID, investment, out[i].Health, preShock)
		decay := Decay(cat, out[i].ActivityID, preShock)

		out[i].Health = round1(clamp(out[i].Health+gain-decay, 0, 100))
		out[i].Investment = investment
	}
	return out
}
