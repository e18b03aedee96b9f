// Package scorecard flattens a session's history into per-team per-cycle
// analysis rows for instructors, with CSV encoding for export.
package scorecard

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// Row is one team's summary for one cycle.
type Row struct {
	TeamID             string             `json:"teamId"`
	TeamName           string             `json:"teamName"`
	TeamCode           string             `json:"teamCode"`
	Cycle              int                `json:"cycle"`
	CASChange          float64            `json:"casChange"`
	CASTotal           float64            `json:"casTotal"`
	BaseScore          float64            `json:"baseScore"`
	LinkageBonusTotal  float64            `json:"linkageBonusTotal"`
	ShockEffect        float64            `json:"shockEffect"`
	NVADrag            float64            `json:"nvaDrag"`
	ActiveLinkageCount int                `json:"activeLinkageCount"`
	AvgHealth          float64            `json:"avgHealth"`
	AvgHealthDelta     float64            `json:"avgHealthDelta"`
	AllocationTotal    float64            `json:"allocationTotal"`
	EliminationCosts   float64            `json:"eliminationCosts"`
	SpendTotal         float64            `json:"spendTotal"`
	CutsCount          int                `json:"cutsCount"`
	ByCategory         map[string]float64 `json:"allocationsByCategory"`
}

// Build produces one row per team per scored cycle, ordered by each team's
// cycle history.
func Build(cat *catalog.Catalog, teams []domain.Team, decisions []domain.Decision) []Row {
	decisionFor := make(map[string]domain.Decision, len(decisions))
	for _, d := range decisions {
		decisionFor[fmt.Sprintf("%s:%d", d.TeamID, d.Cycle)] = d
	}

	var rows []Row
	for _, team := range teams {
		history := make([]domain.CycleResult, len(team.CycleResults))
		copy(history, team.CycleResults)
		sort.SliceStable(history, func(i, j int) bool { return history[i].Cycle < history[j].Cycle })

		var prevAvgHealth float64
		havePrev := false
		var casRunning float64

		for _, result := range history {
			avgHealth := averageHealth(result.NewHealth)
			var delta float64
			if havePrev {
				delta = avgHealth - prevAvgHealth
			}
			prevAvgHealth = avgHealth
			havePrev = true

			decision := decisionFor[fmt.Sprintf("%s:%d", team.ID, result.Cycle)]
			var allocationTotal float64
			for _, amount := range decision.Allocations {
				allocationTotal += amount
			}
			eliminationCosts := eliminationCosts(cat, decision.Cuts)

			var linkageTotal float64
			for _, bonus := range result.Breakdown.LinkageBonuses {
				linkageTotal += bonus
			}
			casRunning += result.CASChange

			rows = append(rows, Row{
				TeamID:             team.ID,
				TeamName:           team.Name,
				TeamCode:           team.Code,
				Cycle:              result.Cycle,
				CASChange:          result.CASChange,
				CASTotal:           round1(casRunning),
				BaseScore:          result.Breakdown.BaseScore,
				LinkageBonusTotal:  round1(linkageTotal),
				ShockEffect:        result.Breakdown.ShockEffect,
				NVADrag:            result.Breakdown.NVADrag,
				ActiveLinkageCount: len(result.ActiveLinkages),
				AvgHealth:          round1(avgHealth),
				AvgHealthDelta:     round1(delta),
				AllocationTotal:    round1(allocationTotal),
				EliminationCosts:   round1(eliminationCosts),
				SpendTotal:         round1(allocationTotal + eliminationCosts),
				CutsCount:          len(decision.Cuts),
				ByCategory:         allocationsByCategory(cat, decision.Allocations),
			})
		}
	}
	return rows
}

// WriteCSV encodes rows with a header line. Per-category allocations get one
// column per catalog category.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := []string{
		"team_id", "team_name", "team_code", "cycle",
		"cas_change", "cas_total", "base_score", "linkage_bonus_total",
		"shock_effect", "nva_drag", "active_linkages",
		"avg_health", "avg_health_delta",
		"allocation_total", "elimination_costs", "spend_total", "cuts",
		"alloc_value_creating", "alloc_value_supporting", "alloc_non_value_add",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.TeamID, r.TeamName, r.TeamCode, fmt.Sprint(r.Cycle),
			num(r.CASChange), num(r.CASTotal), num(r.BaseScore), num(r.LinkageBonusTotal),
			num(r.ShockEffect), num(r.NVADrag), fmt.Sprint(r.ActiveLinkageCount),
			num(r.AvgHealth), num(r.AvgHealthDelta),
			num(r.AllocationTotal), num(r.EliminationCosts), num(r.SpendTotal), fmt.Sprint(r.CutsCount),
			num(r.ByCategory[string(catalog.CategoryValueCreating)]),
			num(r.ByCategory[string(catalog.CategoryValueSupporting)]),
			num(r.ByCategory[string(catalog.CategoryNonValueAdd)]),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func averageHealth(health map[string]float64) float64 {
	if len(health) == 0 {
		return 0
	}
	var sum float64
	for _, h := range health {
		sum += h
	}
	return sum / float64(len(health))
}

func eliminationCosts(cat *catalog.Catalog, cuts []string) float64 {
	var total float64
	for _, id := range cuts {
		if def := cat.Activity(id); def != nil && def.EliminationCost != nil {
			total += *def.EliminationCost
		}
	}
	return total
}

func allocationsByCategory(cat *catalog.Catalog, allocations map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	for id, amount := range allocations {
		def := cat.Activity(id)
		if def == nil {
			continue
		}
		out[string(def.Category)] += amount
	}
	return out
}

func num(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Half-ties round toward +infinity, matching the engine's rounding.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
