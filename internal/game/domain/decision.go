package domain

import (
	"fmt"
	"time"
)

// Decision is a team's submitted plan for one cycle: budget allocations per
// activity plus the overhead activities to eliminate. Immutable once
// submitted; at most one exists per (team, cycle).
type Decision struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	SessionID string `json:"sessionId"`
	Cycle     int    `json:"cycle"`
	// Allocations maps activity ID to spend in millions.
	Allocations map[string]float64 `json:"allocations"`
	// Cuts lists non-value-add activities eliminated this cycle.
	Cuts        []string  `json:"cuts"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewDecision creates a decision record with a generated ID.
func NewDecision(teamID, sessionID string, cycle int, allocations map[string]float64, cuts []string, now func() time.Time, idGenerator func() (string, error)) (Decision, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	id, err := idGenerator()
	if err != nil {
		return Decision{}, fmt.Errorf("generate decision id: %w", err)
	}
	if allocations == nil {
		allocations = map[string]float64{}
	}

	return Decision{
		ID:          id,
		TeamID:      teamID,
		SessionID:   sessionID,
		Cycle:       cycle,
		Allocations: allocations,
		Cuts:        cuts,
		SubmittedAt: now().UTC(),
	}, nil
}
