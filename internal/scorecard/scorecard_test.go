package scorecard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

func TestBuildRows(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	team := domain.Team{
		ID:   "t1",
		Name: "Alpha",
		Code: "AAAAAA",
		CycleResults: []domain.CycleResult{
			{
				TeamID:    "t1",
				Cycle:     2,
				CASChange: -1.5,
				Breakdown: domain.CASBreakdown{
					BaseScore:      -0.8,
					LinkageBonuses: map[string]float64{"forecasting-inventory": 4.5},
					ShockEffect:    -3,
					NVADrag:        -2.2,
					Total:          -1.5,
				},
				ActiveLinkages: []string{"forecasting-inventory"},
				NewHealth:      map[string]float64{"inventory-replenishment": 70, "store-operations": 50},
			},
			{
				TeamID:    "t1",
				Cycle:     1,
				CASChange: 3.0,
				Breakdown: domain.CASBreakdown{BaseScore: 5.2, NVADrag: -2.2, Total: 3.0},
				NewHealth: map[string]float64{"inventory-replenishment": 60, "store-operations": 56},
			},
		},
	}
	decisions := []domain.Decision{
		{
			ID: "d1", TeamID: "t1", Cycle: 1,
			Allocations: map[string]float64{"inventory-replenishment": 10, "demand-forecasting": 5},
			Cuts:        []string{"manual-reporting-processes"},
		},
	}

	rows := Build(cat, []domain.Team{team}, decisions)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.Cycle != 1 {
		t.Fatalf("rows not sorted by cycle: %+v", first)
	}
	if first.AllocationTotal != 15 {
		t.Fatalf("allocation total = %v, want 15", first.AllocationTotal)
	}
	if first.EliminationCosts != 2 {
		t.Fatalf("elimination costs = %v, want 2", first.EliminationCosts)
	}
	if first.SpendTotal != 17 {
		t.Fatalf("spend total = %v, want 17", first.SpendTotal)
	}
	if first.CutsCount != 1 {
		t.Fatalf("cuts = %d, want 1", first.CutsCount)
	}
	if first.CASTotal != 3.0 {
		t.Fatalf("running cas = %v, want 3.0", first.CASTotal)
	}
	if first.AvgHealth != 58.0 {
		t.Fatalf("avg health = %v, want 58.0", first.AvgHealth)
	}
	if first.AvgHealthDelta != 0 {
		t.Fatalf("first cycle delta = %v, want 0", first.AvgHealthDelta)
	}
	if first.ByCategory[string(catalog.CategoryValueCreating)] != 10 {
		t.Fatalf("value-creating allocation = %v", first.ByCategory[string(catalog.CategoryValueCreating)])
	}
	if first.ByCategory[string(catalog.CategoryValueSupporting)] != 5 {
		t.Fatalf("value-supporting allocation = %v", first.ByCategory[string(catalog.CategoryValueSupporting)])
	}

	second := rows[1]
	if second.Cycle != 2 {
		t.Fatalf("second row cycle = %d", second.Cycle)
	}
	if second.CASTotal != 1.5 {
		t.Fatalf("running cas = %v, want 1.5", second.CASTotal)
	}
	if second.AvgHealth != 60.0 {
		t.Fatalf("avg health = %v, want 60.0", second.AvgHealth)
	}
	if second.AvgHealthDelta != 2.0 {
		t.Fatalf("delta = %v, want 2.0", second.AvgHealthDelta)
	}
	if second.LinkageBonusTotal != 4.5 {
		t.Fatalf("linkage total = %v, want 4.5", second.LinkageBonusTotal)
	}
	if second.ActiveLinkageCount != 1 {
		t.Fatalf("active linkages = %d, want 1", second.ActiveLinkageCount)
	}
	// No decision submitted for cycle 2.
	if second.AllocationTotal != 0 || second.CutsCount != 0 {
		t.Fatalf("missing decision should yield zero spend: %+v", second)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{
			TeamID: "t1", TeamName: "Alpha", TeamCode: "AAAAAA", Cycle: 1,
			CASChange: 3.0, CASTotal: 3.0, BaseScore: 5.2, NVADrag: -2.2,
			AllocationTotal: 15, EliminationCosts: 2, SpendTotal: 17, CutsCount: 1,
			ByCategory: map[string]float64{string(catalog.CategoryValueCreating): 10},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "team_id,team_name,team_code,cycle") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Alpha") || !strings.Contains(lines[1], "17.0") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}
