package engine

import (
	"slices"
	"sort"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// TeamInput is one team's snapshot entering a cycle: prior activity state
// plus the cycle's decision. A team that submitted nothing carries empty
// allocations and cuts; it pays no costs and gains no investment but still
// decays and is still scored.
type TeamInput struct {
	TeamID      string
	Revenue     float64
	Activities  []domain.TeamActivity
	Allocations map[string]float64
	Cuts        []string
}

// CycleOutcome is the cohort-wide result of one cycle transform.
type CycleOutcome struct {
	// Results are sorted by CAS change descending with ranks 1..N.
	Results []domain.CycleResult
	// Activities holds each team's post-transition state, keyed by team ID.
	Activities map[string][]domain.TeamActivity
}

// ProcessCycle runs one full cycle over the whole cohort: cuts, shock, and
// health transition per team, then relative scoring across the updated
// cohort, budgets, margins, and ranking. Pure: inputs are not
// modified.
//
// The transform is atomic in intent. Scoring for the cycle must see every
// team's post-transition health, so callers gather all teams' prior state
// before invoking it and must not run two transforms for the same session
// concurrently.
func ProcessCycle(cat *catalog.Catalog, teams []TeamInput, cycle int, shock *catalog.ShockDefinition) CycleOutcome {
	updated := make(map[string][]domain.TeamActivity, len(teams))
	cohort := make([][]domain.TeamActivity, 0, len(teams))

	for _, team := range teams {
		activities := ApplyCuts(team.Activities, team.Cuts, cycle)
		activities = TransitionHealth(cat, activities, team.Allocations, shock)
		updated[team.TeamID] = activities
		cohort = append(cohort, activities)
	}

	results := make([]domain.CycleResult, 0, len(teams))
	for _, team := range teams {
		activities := updated[team.TeamID]
		score := Score(cat, activities, cohort, shock)

		health := HealthOf(activities)
		active := ActiveLinkageIDs(cat, health)
		orphaned := make([]string, 0, len(cat.Linkages)-len(active))
		for _, l := range cat.Linkages {
			if !slices.Contains(active, l.ID) {
				orphaned = append(orphaned, l.ID)
			}
		}

		newHealth := make(map[string]float64, len(activities))
		for _, a := range activities {
			newHealth[a.ActivityID] = a.Health
		}

		results = append(results, domain.CycleResult{
			TeamID:    team.TeamID,
			Cycle:     cycle,
			CASChange: score.Total,
			Breakdown: domain.CASBreakdown{
				BaseScore:      score.BaseScore,
				LinkageBonuses: score.LinkageBonuses,
				ShockEffect:    score.ShockEffect,
				NVADrag:        score.NVADrag,
				Total:          score.Total,
			},
			ActiveLinkages:   active,
			OrphanedLinkages: orphaned,
			NewHealth:        newHealth,
			MarginChange:     MarginChange(score.Total),
			NewBudget:        NextBudget(cat, team.Revenue, score.Total, activities),
		})
	}

	// Stable sort: ties keep input order; no secondary tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CASChange > results[j].CASChange
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return CycleOutcome{Results: results, Activities: updated}
}

// Rankings orders teams by cumulative CAS descending with sequential ranks; tied teams keep input order.
// The sort is stable: tied teams keep their input order.
func Rankings(teams []domain.Team) []domain.TeamRanking {
	sorted := make([]domain.Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CAS > sorted[j].CAS
	})

	out := make([]domain.TeamRanking, 0, len(sorted))
	for i, t := range sorted {
		out = append(out, domain.TeamRanking{
			TeamID:       t.ID,
			TeamName:     t.Name,
			CAS:          t.CAS,
			Rank:         i + 1,
			HasSubmitted: t.HasSubmitted,
		})
	}
	return out
}
