package domain

import (
	"fmt"

	"github.com/louisbranch/valuechain/internal/catalog"
)

// TeamActivity is one team's mutable state for one catalog activity. Records
// are created at team creation and never destroyed; eliminated overhead
// activities are flagged, not removed.
type TeamActivity struct {
	ActivityID string  `json:"activityId"`
	Health     float64 `json:"health"`
	// Investment is the allocation applied in the most recent cycle.
	Investment   float64 `json:"investment"`
	IsEliminated bool    `json:"isEliminated"`
	// EliminatedInCycle is the cycle the activity was cut, 0 if never.
	EliminatedInCycle int `json:"eliminatedInCycle,omitempty"`
}

// Team is one participant group within a session.
type Team struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	// Code is the team's unique join code.
	Code string `json:"code"`
	// Budget is the allocation available this cycle, in millions.
	Budget float64 `json:"budget"`
	// CAS is the cumulative Competitive Advantage Score.
	CAS float64 `json:"cas"`
	// Margin is the running operating margin percentage.
	Margin          float64 `json:"margin"`
	Revenue         float64 `json:"revenue"`
	OperatingProfit float64 `json:"operatingProfit"`
	HasSubmitted    bool    `json:"hasSubmitted"`
	HasSeenBrief    bool    `json:"hasSeenBrief"`
	// CycleResults is the append-only scoring history.
	CycleResults []CycleResult `json:"cycleResults"`
}

// TeamRanking is a leaderboard row ordered by cumulative CAS.
type TeamRanking struct {
	TeamID       string  `json:"teamId"`
	TeamName     string  `json:"teamName"`
	CAS          float64 `json:"cas"`
	Rank         int     `json:"rank"`
	HasSubmitted bool    `json:"hasSubmitted"`
}

// NewTeam creates a team with catalog starting health on every activity and
// the first cycle's budget seeded from revenue less the maintenance cost of
// the overhead activities that start active.
func NewTeam(sessionID, name, code string, cat *catalog.Catalog, idGenerator func() (string, error)) (Team, []TeamActivity, error) {
	if sessionID == "" {
		return Team{}, nil, fmt.Errorf("session id is required")
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	id, err := idGenerator()
	if err != nil {
		return Team{}, nil, fmt.Errorf("generate team id: %w", err)
	}

	team := Team{
		ID:              id,
		SessionID:       sessionID,
		Name:            name,
		Code:            code,
		Budget:          StartingRevenue*BudgetPercentage - cat.StartingNVAMaintenanceCost(),
		CAS:             0,
		Margin:          StartingMargin,
		Revenue:         StartingRevenue,
		OperatingProfit: StartingOperatingProfit,
	}

	activities := make([]TeamActivity, 0, len(cat.Activities))
	for _, def := range cat.Activities {
		activities = append(activities, TeamActivity{
			ActivityID: def.ID,
			Health:     def.StartingHealth,
		})
	}
	return team, activities, nil
}
