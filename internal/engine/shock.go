package engine

import (
	"slices"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// ShockImmune reports whether a team holding the given active linkages is
// fully immune to the shock. Immunity is binary: one matching linkage
// protects every affected activity.
func ShockImmune(shock *catalog.ShockDefinition, activeLinkageIDs []string) bool {
	if shock == nil {
		return false
	}
	for _, id := range shock.ImmunityLinkages {
		if slices.Contains(activeLinkageIDs, id) {
			return true
		}
	}
	return false
}

// ShockImpact returns the health impact of a shock on one activity: zero when
// there is no shock, the activity is not affected, or the team is immune;
// otherwise the shock's (negative) health impact.
func ShockImpact(shock *catalog.ShockDefinition, activityID string, activeLinkageIDs []string) float64 {
	if shock == nil {
		return 0
	}
	if !slices.Contains(shock.AffectedActivities, activityID) {
		return 0
	}
	if ShockImmune(shock, activeLinkageIDs) {
		return 0
	}
	return shock.HealthImpact
}

// applyShock reduces health in place for affected, non-eliminated activities.
// Health is floored at zero here; the transition step re-clamps afterwards.
// The caller supplies the team's active linkages computed from pre-shock
// health.
func applyShock(activities []domain.TeamActivity, shock *catalog.ShockDefinition, activeLinkageIDs []string) {
	if shock == nil {
		return
	}
	for i := range activities {
		if activities[i].IsEliminated {
			continue
		}
		impact := ShockImpact(shock, activities[i].ActivityID, activeLinkageIDs)
		if impact == 0 {
			continue
		}
		activities[i].Health = max(0, activities[i].Health+impact)
	}
}
