package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

// activitiesWith builds a full team activity set from catalog starting
// health, then applies the given overrides.
func activitiesWith(t *testing.T, cat *catalog.Catalog, overrides map[string]float64) []domain.TeamActivity {
	t.Helper()
	var out []domain.TeamActivity
	for _, def := range cat.Activities {
		health := def.StartingHealth
		if h, ok := overrides[def.ID]; ok {
			health = h
		}
		out = append(out, domain.TeamActivity{ActivityID: def.ID, Health: health})
	}
	return out
}

func TestIsLinkageActive(t *testing.T) {
	cat := loadCatalog(t)
	l := cat.Linkage("forecasting-inventory")
	if l == nil {
		t.Fatal("linkage not found")
	}

	tcs := []struct {
		name    string
		support float64
		primary float64
		want    bool
	}{
		{"both at threshold", 60, 60, true},
		{"both above", 80, 90, true},
		{"support just below", 59.9, 60, false},
		{"primary just below", 60, 59.9, false},
		{"both below", 0, 0, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsLinkageActive(*l, tc.support, tc.primary); got != tc.want {
				t.Fatalf("IsLinkageActive(%v, %v) = %v, want %v", tc.support, tc.primary, got, tc.want)
			}
		})
	}
}

func TestActiveLinkageIDsIdempotent(t *testing.T) {
	cat := loadCatalog(t)
	health := HealthMap{
		"demand-forecasting":      60,
		"inventory-replenishment": 60,
		"training-programs":       50,
		"store-operations":        50,
	}

	first := ActiveLinkageIDs(cat, health)
	second := ActiveLinkageIDs(cat, health)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("activation not idempotent (-first +second):\n%s", diff)
	}

	want := []string{"forecasting-inventory", "training-store-ops"}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("unexpected active linkages (-want +got):\n%s", diff)
	}
}

func TestEffectivenessBonusStacks(t *testing.T) {
	cat := loadCatalog(t)
	// Both inventory linkages active: forecasting (0.15) and supplier (0.08).
	health := HealthMap{
		"demand-forecasting":      70,
		"supplier-management":     50,
		"inventory-replenishment": 60,
	}
	got := EffectivenessBonus(cat, "inventory-replenishment", health)
	if got != 0.23 {
		t.Fatalf("effectiveness bonus = %v, want 0.23", got)
	}
}

func TestDecayModifier(t *testing.T) {
	cat := loadCatalog(t)

	tcs := []struct {
		name   string
		health HealthMap
		want   float64
	}{
		{
			"no active linkages",
			HealthMap{"inventory-replenishment": 65},
			1,
		},
		{
			"single reduction",
			HealthMap{"demand-forecasting": 60, "inventory-replenishment": 60},
			0.8,
		},
		{
			"stacked reductions",
			HealthMap{"demand-forecasting": 60, "supplier-management": 50, "inventory-replenishment": 60},
			0.65,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := DecayModifier(cat, "inventory-replenishment", tc.health)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("decay modifier = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInvestmentGain(t *testing.T) {
	cat := loadCatalog(t)

	tcs := []struct {
		name          string
		investment    float64
		currentHealth float64
		health        HealthMap
		want          float64
	}{
		{
			"no linkages no diminishing",
			10, 65,
			HealthMap{"inventory-replenishment": 65},
			20,
		},
		{
			"linkage bonus",
			10, 60,
			HealthMap{"demand-forecasting": 60, "inventory-replenishment": 60},
			23, // 10 * 2 * 1.15
		},
		{
			"diminishing returns",
			10, 85,
			HealthMap{"inventory-replenishment": 85},
			10,
		},
		{
			"zero investment",
			0, 65,
			HealthMap{"inventory-replenishment": 65},
			0,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := InvestmentGain(cat, "inventory-replenishment", tc.investment, tc.currentHealth, tc.health)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("investment gain = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransitionHealthWorkedExample(t *testing.T) {
	cat := loadCatalog(t)
	// Support activities held below every threshold so no linkage fires:
	// invest 10 at effectiveness 2, decay 6 undamped. 65 + 20 - 6 = 79.0.
	activities := activitiesWith(t, cat, map[string]float64{
		"demand-forecasting":  40,
		"supplier-management": 40,
	})

	out := TransitionHealth(cat, activities, map[string]float64{"inventory-replenishment": 10}, nil)

	got := HealthOf(out)["inventory-replenishment"]
	if got != 79.0 {
		t.Fatalf("inventory-replenishment health = %v, want 79.0", got)
	}
}

func TestTransitionHealthClamps(t *testing.T) {
	cat := loadCatalog(t)

	t.Run("upper bound", func(t *testing.T) {
		activities := activitiesWith(t, cat, map[string]float64{"inventory-replenishment": 99})
		out := TransitionHealth(cat, activities, map[string]float64{"inventory-replenishment": 50}, nil)
		if got := HealthOf(out)["inventory-replenishment"]; got != 100 {
			t.Fatalf("health = %v, want clamp to 100", got)
		}
	})

	t.Run("lower bound", func(t *testing.T) {
		activities := activitiesWith(t, cat, map[string]float64{"inventory-replenishment": 3})
		out := TransitionHealth(cat, activities, nil, nil)
		if got := HealthOf(out)["inventory-replenishment"]; got != 0 {
			t.Fatalf("health = %v, want clamp to 0", got)
		}
	})
}

func TestTransitionHealthSkipsNVAAndEliminated(t *testing.T) {
	cat := loadCatalog(t)
	activities := activitiesWith(t, cat, nil)
	for i := range activities {
		if activities[i].ActivityID == "store-operations" {
			activities[i].IsEliminated = true
			activities[i].EliminatedInCycle = 1
		}
	}

	out := TransitionHealth(cat, activities, map[string]float64{
		"legacy-inventory-system": 10,
		"store-operations":        10,
	}, nil)

	health := HealthOf(out)
	if health["legacy-inventory-system"] != 100 {
		t.Fatalf("overhead health transitioned: %v", health["legacy-inventory-system"])
	}
	if health["store-operations"] != 60 {
		t.Fatalf("eliminated activity transitioned: %v", health["store-operations"])
	}
}

func TestShockImpact(t *testing.T) {
	cat := loadCatalog(t)
	shock := cat.Shock("supply-chain-disruption")
	if shock == nil {
		t.Fatal("shock not found")
	}

	tcs := []struct {
		name     string
		activity string
		active   []string
		want     float64
	}{
		{"affected", "inventory-replenishment", nil, -15},
		{"unaffected", "store-operations", nil, 0},
		{"immune", "inventory-replenishment", []string{"supplier-inventory"}, 0},
		{"unrelated linkage", "inventory-replenishment", []string{"it-checkout"}, -15},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShockImpact(shock, tc.activity, tc.active); got != tc.want {
				t.Fatalf("shock impact = %v, want %v", got, tc.want)
			}
		})
	}

	if got := ShockImpact(nil, "inventory-replenishment", nil); got != 0 {
		t.Fatalf("nil shock impact = %v, want 0", got)
	}
}

func TestTransitionShockImmunityUsesPreShockHealth(t *testing.T) {
	cat := loadCatalog(t)
	shock := cat.Shock("supply-chain-disruption")

	// supplier-inventory active pre-shock: the shock is fully absorbed.
	activities := activitiesWith(t, cat, map[string]float64{
		"supplier-management":     55,
		"inventory-replenishment": 60,
		"demand-forecasting":      40,
	})
	out := TransitionHealth(cat, activities, nil, shock)

	// No impact, decay only: 6 * (1 - 0.15) = 5.1. 60 - 5.1 = 54.9.
	if got := HealthOf(out)["inventory-replenishment"]; got != 54.9 {
		t.Fatalf("immune inventory health = %v, want 54.9", got)
	}
}

func TestTransitionShockThenDiminishing(t *testing.T) {
	cat := loadCatalog(t)
	shock := cat.Shock("supply-chain-disruption")

	// 82 pre-shock would halve gains; the -15 shock lands first, so the
	// post-shock 67 earns the full effectiveness.
	activities := activitiesWith(t, cat, map[string]float64{
		"inventory-replenishment": 82,
		"supplier-management":     40,
		"demand-forecasting":      40,
	})
	out := TransitionHealth(cat, activities, map[string]float64{"inventory-replenishment": 10}, shock)

	// 82 - 15 + 20 - 6 = 81.0
	if got := HealthOf(out)["inventory-replenishment"]; got != 81.0 {
		t.Fatalf("post-shock health = %v, want 81.0", got)
	}
}

func TestApplyCuts(t *testing.T) {
	cat := loadCatalog(t)
	activities := activitiesWith(t, cat, nil)

	out := ApplyCuts(activities, []string{"legacy-inventory-system"}, 2)

	for _, a := range out {
		if a.ActivityID != "legacy-inventory-system" {
			continue
		}
		if !a.IsEliminated || a.EliminatedInCycle != 2 {
			t.Fatalf("cut not recorded: %+v", a)
		}
	}
	// Input untouched.
	for _, a := range activities {
		if a.IsEliminated {
			t.Fatalf("input mutated: %+v", a)
		}
	}
}

func TestBaseScoreZeroSum(t *testing.T) {
	cat := loadCatalog(t)
	teamA := activitiesWith(t, cat, map[string]float64{"inventory-replenishment": 70})
	teamB := activitiesWith(t, cat, map[string]float64{"inventory-replenishment": 50})
	cohort := [][]domain.TeamActivity{teamA, teamB}

	scoreA, componentsA := BaseScore(cat, teamA, cohort)
	scoreB, _ := BaseScore(cat, teamB, cohort)

	// avg 60, diff ±10, weight 1.3
	if scoreA != 13.0 || scoreB != -13.0 {
		t.Fatalf("base scores = %v, %v; want 13.0, -13.0", scoreA, scoreB)
	}
	component := componentsA["inventory-replenishment"]
	if component.Team != 70 || component.Avg != 60 || component.Diff != 13.0 {
		t.Fatalf("unexpected component: %+v", component)
	}
}

func TestLinkageBonusesScore(t *testing.T) {
	cat := loadCatalog(t)
	activities := activitiesWith(t, cat, map[string]float64{
		"demand-forecasting":      60,
		"inventory-replenishment": 60,
		"training-programs":       40,
		"supplier-management":     40,
		"it-infrastructure":       40,
		"workforce-systems":       40,
	})

	total, bonuses := LinkageBonuses(cat, activities)
	if total != 4.5 {
		t.Fatalf("linkage total = %v, want 4.5", total)
	}
	if diff := cmp.Diff(map[string]float64{"forecasting-inventory": 4.5}, bonuses); diff != "" {
		t.Fatalf("unexpected bonuses (-want +got):\n%s", diff)
	}
}

func TestRound1HalfTies(t *testing.T) {
	tcs := []struct {
		in   float64
		want float64
	}{
		{2.25, 2.3},
		{-2.25, -2.2},
		{0.25, 0.3},
		{-0.25, -0.2},
		{-0.75, -0.7},
		{-2.26, -2.3},
		{2.24, 2.2},
	}
	for _, tc := range tcs {
		if got := round1(tc.in); got != tc.want {
			t.Errorf("round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNVADrag(t *testing.T) {
	cat := loadCatalog(t)

	t.Run("all overhead active", func(t *testing.T) {
		activities := activitiesWith(t, cat, nil)
		total, costs := NVADrag(cat, activities)
		// (1.5 + 2 + 1) * 0.5 = 2.25; the half-tie rounds up to -2.2.
		if total != -2.2 {
			t.Fatalf("drag = %v, want -2.2", total)
		}
		if costs["innovation-lab"] != 0 {
			t.Fatalf("inactive lab charged drag: %v", costs["innovation-lab"])
		}
	})

	t.Run("single survivor", func(t *testing.T) {
		activities := ApplyCuts(activitiesWith(t, cat, nil),
			[]string{"legacy-inventory-system", "manual-reporting-processes"}, 1)
		total, _ := NVADrag(cat, activities)
		if total != -1.0 {
			t.Fatalf("drag = %v, want -1.0", total)
		}
	})

	t.Run("activated lab still free", func(t *testing.T) {
		activities := activitiesWith(t, cat, map[string]float64{"innovation-lab": 100})
		total, _ := NVADrag(cat, activities)
		if total != -2.2 {
			t.Fatalf("drag = %v, want -2.2", total)
		}
	})
}

func TestShockScoreEffect(t *testing.T) {
	cat := loadCatalog(t)
	shock := cat.Shock("supply-chain-disruption")

	t.Run("affected", func(t *testing.T) {
		activities := activitiesWith(t, cat, map[string]float64{
			"supplier-management": 40, "demand-forecasting": 40,
			"training-programs": 40, "it-infrastructure": 40, "workforce-systems": 40,
		})
		if got := ShockScoreEffect(cat, activities, shock); got != -3.0 {
			t.Fatalf("shock effect = %v, want -3.0", got)
		}
	})

	t.Run("immune", func(t *testing.T) {
		activities := activitiesWith(t, cat, map[string]float64{
			"supplier-management": 55, "inventory-replenishment": 60,
		})
		if got := ShockScoreEffect(cat, activities, shock); got != ShockImmunityBonus {
			t.Fatalf("shock effect = %v, want %v", got, ShockImmunityBonus)
		}
	})

	t.Run("no shock", func(t *testing.T) {
		if got := ShockScoreEffect(cat, activitiesWith(t, cat, nil), nil); got != 0 {
			t.Fatalf("shock effect = %v, want 0", got)
		}
	})
}

func TestNVAMaintenanceCost(t *testing.T) {
	cat := loadCatalog(t)

	activities := activitiesWith(t, cat, nil)
	// All four overheads charged, the never-activated lab included.
	if got := NVAMaintenanceCost(cat, activities); got != 7.0 {
		t.Fatalf("maintenance = %v, want 7.0", got)
	}

	cut := ApplyCuts(activities, []string{"regional-management-layer"}, 1)
	if got := NVAMaintenanceCost(cat, cut); got != 5.0 {
		t.Fatalf("maintenance after cut = %v, want 5.0", got)
	}
}

func TestNextBudget(t *testing.T) {
	cat := loadCatalog(t)
	activities := activitiesWith(t, cat, nil)

	tcs := []struct {
		name      string
		revenue   float64
		casChange float64
		want      float64
	}{
		{"baseline", 1000, 0, 43},    // 50 + 0 - 7
		{"cas boost", 1000, 10, 44},  // 50 + 1 - 7
		{"floored at zero", 0, -5, 0},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := NextBudget(cat, tc.revenue, tc.casChange, activities)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("budget = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProcessCycleRanksAndSymmetry(t *testing.T) {
	cat := loadCatalog(t)

	base := activitiesWith(t, cat, nil)
	teams := []TeamInput{
		{TeamID: "a", Revenue: 1000, Activities: base, Allocations: map[string]float64{"inventory-replenishment": 10}},
		{TeamID: "b", Revenue: 1000, Activities: base},
	}

	outcome := ProcessCycle(cat, teams, 1, nil)
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(outcome.Results))
	}

	first, second := outcome.Results[0], outcome.Results[1]
	if first.TeamID != "a" || first.Rank != 1 {
		t.Fatalf("investing team should lead: %+v", first)
	}
	if second.Rank != 2 {
		t.Fatalf("rank = %d, want 2", second.Rank)
	}
	if first.Breakdown.BaseScore <= second.Breakdown.BaseScore {
		t.Fatalf("base scores not ordered: %v vs %v", first.Breakdown.BaseScore, second.Breakdown.BaseScore)
	}
	if first.Cycle != 1 || second.Cycle != 1 {
		t.Fatal("cycle not recorded on results")
	}
}

func TestProcessCycleStableTies(t *testing.T) {
	cat := loadCatalog(t)
	base := activitiesWith(t, cat, nil)

	teams := []TeamInput{
		{TeamID: "first", Revenue: 1000, Activities: base},
		{TeamID: "second", Revenue: 1000, Activities: base},
		{TeamID: "third", Revenue: 1000, Activities: base},
	}

	outcome := ProcessCycle(cat, teams, 1, nil)
	var order []string
	for _, r := range outcome.Results {
		order = append(order, r.TeamID)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, order); diff != "" {
		t.Fatalf("tied teams reordered (-want +got):\n%s", diff)
	}
	for i, r := range outcome.Results {
		if r.Rank != i+1 {
			t.Fatalf("rank %d = %d", i, r.Rank)
		}
	}
}

func TestProcessCycleEliminationMonotonic(t *testing.T) {
	cat := loadCatalog(t)
	base := activitiesWith(t, cat, nil)

	teams := []TeamInput{
		{TeamID: "a", Revenue: 1000, Activities: base, Cuts: []string{"manual-reporting-processes"}},
	}
	outcome := ProcessCycle(cat, teams, 1, nil)

	next := outcome.Activities["a"]
	teams = []TeamInput{{TeamID: "a", Revenue: 1000, Activities: next}}
	outcome = ProcessCycle(cat, teams, 2, cat.Shock("supply-chain-disruption"))

	for _, a := range outcome.Activities["a"] {
		if a.ActivityID == "manual-reporting-processes" {
			if !a.IsEliminated || a.EliminatedInCycle != 1 {
				t.Fatalf("elimination not preserved: %+v", a)
			}
		}
	}
}

func TestRankings(t *testing.T) {
	rankings := Rankings([]domain.Team{
		{ID: "a", Name: "Alpha", CAS: 5},
		{ID: "b", Name: "Beta", CAS: 12.5},
		{ID: "c", Name: "Gamma", CAS: 5},
	})

	want := []domain.TeamRanking{
		{TeamID: "b", TeamName: "Beta", CAS: 12.5, Rank: 1},
		{TeamID: "a", TeamName: "Alpha", CAS: 5, Rank: 2},
		{TeamID: "c", TeamName: "Gamma", CAS: 5, Rank: 3},
	}
	if diff := cmp.Diff(want, rankings); diff != "" {
		t.Fatalf("unexpected rankings (-want +got):\n%s", diff)
	}
}

func TestNearActiveLinkages(t *testing.T) {
	cat := loadCatalog(t)
	health := HealthMap{
		"demand-forecasting":      57, // 3 short of 60
		"inventory-replenishment": 58, // 2 short
	}

	near := NearActiveLinkages(cat, health, 5)
	var ids []string
	for _, l := range near {
		ids = append(ids, l.ID)
	}
	found := false
	for _, id := range ids {
		if id == "forecasting-inventory" {
			found = true
		}
	}
	if !found {
		t.Fatalf("forecasting-inventory not flagged near-active: %v", ids)
	}
}
