package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status describes the lifecycle state of a game session.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusLobby indicates teams are joining; cycle 0, no scoring yet.
	StatusLobby
	// StatusActive indicates the simulation is running cycles 1..MaxCycles.
	StatusActive
	// StatusCompleted indicates the final cycle has been scored. Terminal.
	StatusCompleted
)

// String returns the lowercase label used in serialized records.
func (s Status) String() string {
	switch s {
	case StatusLobby:
		return "lobby"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unspecified"
	}
}

// MarshalJSON encodes the status as its string label.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a status from its string label.
func (s *Status) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"lobby"`:
		*s = StatusLobby
	case `"active"`:
		*s = StatusActive
	case `"completed"`:
		*s = StatusCompleted
	default:
		return fmt.Errorf("unknown session status %s", data)
	}
	return nil
}

// Simulation-wide constants. Revenue and budget amounts are in millions.
const (
	// StartingRevenue is every team's fixed annual revenue.
	StartingRevenue = 1000.0
	// StartingOperatingProfit seeds each team's operating profit.
	StartingOperatingProfit = 50.0
	// StartingMargin seeds each team's operating margin percentage.
	StartingMargin = 5.0
	// BudgetPercentage is the share of revenue available as cycle budget.
	BudgetPercentage = 0.05
	// MaxCycles is the number of scored cycles in a game.
	MaxCycles = 4
	// DefaultCycleTime is the decision window per cycle.
	DefaultCycleTime = 5 * time.Minute
	// DefaultTeamCount is the number of placeholder teams per session.
	DefaultTeamCount = 8
	// JoinCodeLength is the length of team join codes.
	JoinCodeLength = 6
	// InstructorCodeLength is the length of the instructor access code.
	InstructorCodeLength = 8
)

// ErrEmptyCreatedBy indicates a missing session creator.
var ErrEmptyCreatedBy = errors.New("session creator is required")

// Session is one running game: a cohort of teams advancing through cycles
// together.
type Session struct {
	ID string `json:"id"`
	// Code is the instructor's access code.
	Code   string `json:"code"`
	Status Status `json:"status"`
	// CurrentCycle is 0 in the lobby, then 1..MaxCycles while active.
	CurrentCycle   int           `json:"currentCycle"`
	CycleStartTime time.Time     `json:"cycleStartTime"`
	CycleTimeLimit time.Duration `json:"cycleTimeLimit"`
	CreatedAt      time.Time     `json:"createdAt"`
	CreatedBy      string        `json:"createdBy"`
}

// NewSession creates a lobby session with a generated ID and instructor code.
func NewSession(createdBy string, now func() time.Time, idGenerator func() (string, error), codeGenerator func(int) (string, error)) (Session, error) {
	if createdBy == "" {
		return Session{}, ErrEmptyCreatedBy
	}
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}
	if codeGenerator == nil {
		codeGenerator = func(n int) (string, error) { return NewJoinCode(nil, n) }
	}

	id, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}
	code, err := codeGenerator(InstructorCodeLength)
	if err != nil {
		return Session{}, fmt.Errorf("generate instructor code: %w", err)
	}

	return Session{
		ID:             id,
		Code:           code,
		Status:         StatusLobby,
		CurrentCycle:   0,
		CycleTimeLimit: DefaultCycleTime,
		CreatedAt:      now().UTC(),
		CreatedBy:      createdBy,
	}, nil
}
