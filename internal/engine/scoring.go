package engine

import (
	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// BaseComponent records one value-creating activity's contribution to a
// team's base score.
type BaseComponent struct {
	// Team is this team's post-transition health.
	Team float64 `json:"team"`
	// Avg is the cohort average health, rounded to one decimal.
	Avg float64 `json:"avg"`
	// Diff is the weighted difference from the average, rounded.
	Diff float64 `json:"diff"`
}

// ScoreResult is the full CAS computation for one team for one cycle.
type ScoreResult struct {
	Total          float64
	BaseScore      float64
	BaseComponents map[string]BaseComponent
	LinkageTotal   float64
	LinkageBonuses map[string]float64
	NVADrag        float64
	NVACosts       map[string]float64
	ShockEffect    float64
}

// BaseScore measures a team's value-creating health against the cohort
// average, weighted per activity. Unweighted differences sum to zero across
// the cohort for each activity; weighting preserves that symmetry per
// activity but not across a team's total.
func BaseScore(cat *catalog.Catalog, activities []domain.TeamActivity, cohort [][]domain.TeamActivity) (float64, map[string]BaseComponent) {
	components := make(map[string]BaseComponent)
	var total float64

	for _, def := range cat.ValueCreating() {
		team, ok := findActivity(activities, def.ID)
		if !ok {
			continue
		}

		var sum float64
		for _, other := range cohort {
			if a, ok := findActivity(other, def.ID); ok {
				sum += a.Health
			}
		}
		avg := sum / float64(len(cohort))

		diff := team.Health - avg
		weighted := diff * def.Weight

		components[def.ID] = BaseComponent{
			Team: team.Health,
			Avg:  round1(avg),
			Diff: round1(weighted),
		}
		total += weighted
	}
	return round1(total), components
}

// LinkageBonuses converts each active linkage's effectiveness bonus into CAS
// points. Returns the rounded total and a per-linkage breakdown.
func LinkageBonuses(cat *catalog.Catalog, activities []domain.TeamActivity) (float64, map[string]float64) {
	health := HealthOf(activities)
	bonuses := make(map[string]float64)
	var total float64

	for _, l := range cat.Linkages {
		if IsLinkageActive(l, health[l.SupportActivityID], health[l.PrimaryActivityID]) {
			bonus := l.EffectivenessBonus * LinkageScoreScale
			bonuses[l.ID] = round1(bonus)
			total += bonus
		}
	}
	return round1(total), bonuses
}

// NVADrag is the score penalty from overhead activities that start active
// (catalog starting health 100) and have not been eliminated. An activated
// optional activity (starting health 0) is not charged: the rule keys off
// the catalog-time property, not live state.
func NVADrag(cat *catalog.Catalog, activities []domain.TeamActivity) (float64, map[string]float64) {
	costs := make(map[string]float64)
	var total float64

	for _, def := range cat.NonValueAdd() {
		a, ok := findActivity(activities, def.ID)
		if !ok {
			continue
		}
		if !a.IsEliminated && def.StartingHealth == 100 {
			drag := def.MaintenanceCost * NVADragFactor
			costs[def.ID] = -drag
			total -= drag
		}
	}
	return round1(total), costs
}

// ShockScoreEffect is the CAS impact of the cycle's shock: zero without one,
// a flat resilience bonus for immune teams, otherwise a fraction of the raw
// health impact.
func ShockScoreEffect(cat *catalog.Catalog, activities []domain.TeamActivity, shock *catalog.ShockDefinition) float64 {
	if shock == nil {
		return 0
	}
	activeIDs := ActiveLinkageIDs(cat, HealthOf(activities))
	if ShockImmune(shock, activeIDs) {
		return ShockImmunityBonus
	}
	return shock.HealthImpact * ShockScoreFactor
}

// Score computes a team's full CAS change for a cycle. It requires the
// post-transition activities of every team in the cohort, this team
// included, because the base score is relative to the cohort average.
func Score(cat *catalog.Catalog, activities []domain.TeamActivity, cohort [][]domain.TeamActivity, shock *catalog.ShockDefinition) ScoreResult {
	base, components := BaseScore(cat, activities, cohort)
	linkageTotal, bonuses := LinkageBonuses(cat, activities)
	drag, costs := NVADrag(cat, activities)
	shockEffect := ShockScoreEffect(cat, activities, shock)

	return ScoreResult{
		Total:          round1(base + linkageTotal + drag + shockEffect),
		BaseScore:      base,
		BaseComponents: components,
		LinkageTotal:   linkageTotal,
		LinkageBonuses: bonuses,
		NVADrag:        drag,
		NVACosts:       costs,
		ShockEffect:    round1(shockEffect),
	}
}

// NVAMaintenanceCost sums the per-cycle maintenance cost of every overhead
// activity the team has not eliminated. The optional overhead activity is
// charged here whether or not it has been activated; its cost is part of the
// fixed overhead burden until cut.
func NVAMaintenanceCost(cat *catalog.Catalog, activities []domain.TeamActivity) float64 {
	var total float64
	for _, def := range cat.NonValueAdd() {
		a, ok := findActivity(activities, def.ID)
		if !ok {
			continue
		}
		if !a.IsEliminated {
			total += def.MaintenanceCost
		}
	}
	return total
}

// NextBudget computes the next cycle's budget: the revenue share, adjusted by
// a fraction of this cycle's CAS change, less overhead maintenance. Never
// negative.
func NextBudget(cat *catalog.Catalog, revenue, casChange float64, activities []domain.TeamActivity) float64 {
	budget := revenue*domain.BudgetPercentage + casChange*BudgetCASFactor - NVAMaintenanceCost(cat, activities)
	return max(0, budget)
}

// MarginChange converts a cycle's CAS change into operating margin points.
func MarginChange(casChange float64) float64 {
	return casChange * MarginCASFactor
}

func findActivity(activities []domain.TeamActivity, id string) (domain.TeamActivity, bool) {
	for _, a := range activities {
		if a.ActivityID == id {
			return a, true
		}
	}
	return domain.TeamActivity{}, false
}
