package engine

import (
	"github.com/louisbranch/valuechain/internal/catalog"
)

// IsLinkageActive reports whether both ends of a linkage meet their health
// thresholds.
func IsLinkageActive(l catalog.LinkageDefinition, supportHealth, primaryHealth float64) bool {
	return supportHealth >= l.SupportThreshold && primaryHealth >= l.PrimaryThreshold
}

// ActiveLinkages returns every linkage active for the given health map, in
// catalog order.
func ActiveLinkages(cat *catalog.Catalog, health HealthMap) []catalog.LinkageDefinition {
	var out []catalog.LinkageDefinition
	for _, l := range cat.Linkages {
		if IsLinkageActive(l, health[l.SupportActivityID], health[l.PrimaryActivityID]) {
			out = append(out, l)
		}
	}
	return out
}

// ActiveLinkageIDs returns the IDs of every active linkage, in catalog order.
func ActiveLinkageIDs(cat *catalog.Catalog, health HealthMap) []string {
	var out []string
	for _, l := range cat.Linkages {
		if IsLinkageActive(l, health[l.SupportActivityID], health[l.PrimaryActivityID]) {
			out = append(out, l.ID)
		}
	}
	return out
}

// EffectivenessBonus sums the effectiveness bonus of every active linkage
// targeting the given primary activity.
func EffectivenessBonus(cat *catalog.Catalog, primaryActivityID string, health HealthMap) float64 {
	var total float64
	for _, l := range cat.LinkagesForPrimary(primaryActivityID) {
		if IsLinkageActive(l, health[l.SupportActivityID], health[primaryActivityID]) {
			total += l.EffectivenessBonus
		}
	}
	return total
}

// DecayModifier returns the decay multiplier for an activity after active
// linkage reductions. Reductions are additive and the multiplier is floored
// at zero.
func DecayModifier(cat *catalog.Catalog, activityID string, health HealthMap) float64 {
	var reduction float64
	for _, l := range cat.LinkagesForPrimary(activityID) {
		if l.DecayReduction == 0 {
			continue
		}
		if IsLinkageActive(l, health[l.SupportActivityID], health[activityID]) {
			reduction += l.DecayReduction
		}
	}
	if reduction > 1 {
		return 0
	}
	return 1 - reduction
}

// HasShockImmunity reports whether any active linkage targeting the activity
// grants shock immunity.
func HasShockImmunity(cat *catalog.Catalog, activityID string, health HealthMap) bool {
	for _, l := range cat.LinkagesForPrimary(activityID) {
		if !l.ShockImmunity {
			continue
		}
		if IsLinkageActive(l, health[l.SupportActivityID], health[activityID]) {
			return true
		}
	}
	return false
}

// NearActiveLinkages returns linkages that are not yet active but have both
// ends within reach: at least one end within the given number of points of
// its threshold and neither end more than twice that far away. Instructors
// use this to hint at almost-discovered synergies.
func NearActiveLinkages(cat *catalog.Catalog, health HealthMap, withinPoints float64) []catalog.LinkageDefinition {
	var out []catalog.LinkageDefinition
	for _, l := range cat.Linkages {
		supportHealth := health[l.SupportActivityID]
		primaryHealth := health[l.PrimaryActivityID]
		if IsLinkageActive(l, supportHealth, primaryHealth) {
			continue
		}

		supportGap := l.SupportThreshold - supportHealth
		primaryGap := l.PrimaryThreshold - primaryHealth
		if (supportGap <= withinPoints || primaryGap <= withinPoints) &&
			supportGap <= withinPoints*2 && primaryGap <= withinPoints*2 {
			out = append(out, l)
		}
	}
	return out
}
