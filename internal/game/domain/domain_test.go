package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/valuechain/internal/catalog"
)

func TestNewID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("id length = %d, want 26", len(id))
	}
	if id != strings.ToLower(id) {
		t.Fatalf("id not lowercase: %q", id)
	}

	other, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if id == other {
		t.Fatal("ids should be unique")
	}
}

func TestNewJoinCode(t *testing.T) {
	code, err := NewJoinCode(nil, JoinCodeLength)
	if err != nil {
		t.Fatalf("new join code: %v", err)
	}
	if len(code) != JoinCodeLength {
		t.Fatalf("code length = %d, want %d", len(code), JoinCodeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(joinCodeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}

	if _, err := NewJoinCode(nil, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestNewJoinCodeDeterministic(t *testing.T) {
	r := bytes.NewReader([]byte{0, 1, 2, 3, 4, 5})
	code, err := NewJoinCode(r, 6)
	if err != nil {
		t.Fatalf("new join code: %v", err)
	}
	if code != "ABCDEF" {
		t.Fatalf("code = %q, want ABCDEF", code)
	}
}

func TestStatusJSON(t *testing.T) {
	tcs := []struct {
		status Status
		label  string
	}{
		{StatusLobby, `"lobby"`},
		{StatusActive, `"active"`},
		{StatusCompleted, `"completed"`},
	}
	for _, tc := range tcs {
		t.Run(tc.label, func(t *testing.T) {
			raw, err := json.Marshal(tc.status)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tc.label {
				t.Fatalf("marshal = %s, want %s", raw, tc.label)
			}

			var back Status
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tc.status {
				t.Fatalf("roundtrip = %v, want %v", back, tc.status)
			}
		})
	}

	var s Status
	if err := json.Unmarshal([]byte(`"paused"`), &s); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestNewSession(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session, err := NewSession("instructor",
		func() time.Time { return fixed },
		func() (string, error) { return "session-id", nil },
		func(n int) (string, error) { return strings.Repeat("X", n), nil },
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if session.ID != "session-id" {
		t.Fatalf("id = %q", session.ID)
	}
	if session.Code != strings.Repeat("X", InstructorCodeLength) {
		t.Fatalf("code = %q", session.Code)
	}
	if session.Status != StatusLobby {
		t.Fatalf("status = %v, want lobby", session.Status)
	}
	if session.CurrentCycle != 0 {
		t.Fatalf("cycle = %d, want 0", session.CurrentCycle)
	}
	if !session.CreatedAt.Equal(fixed) {
		t.Fatalf("created at = %v", session.CreatedAt)
	}
	if session.CycleTimeLimit != DefaultCycleTime {
		t.Fatalf("cycle limit = %v", session.CycleTimeLimit)
	}

	if _, err := NewSession("", nil, nil, nil); err != ErrEmptyCreatedBy {
		t.Fatalf("expected ErrEmptyCreatedBy, got %v", err)
	}
}

func TestNewTeam(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	team, activities, err := NewTeam("session-id", "Alpha", "ABC123", cat, func() (string, error) {
		return "team-id", nil
	})
	if err != nil {
		t.Fatalf("new team: %v", err)
	}

	// 1000 * 0.05 - 4.5 starting overhead maintenance.
	if team.Budget != 45.5 {
		t.Fatalf("budget = %v, want 45.5", team.Budget)
	}
	if team.Revenue != StartingRevenue || team.Margin != StartingMargin || team.OperatingProfit != StartingOperatingProfit {
		t.Fatalf("unexpected financials: %+v", team)
	}
	if team.CAS != 0 {
		t.Fatalf("cas = %v, want 0", team.CAS)
	}

	if len(activities) != len(cat.Activities) {
		t.Fatalf("activities = %d, want %d", len(activities), len(cat.Activities))
	}
	for _, a := range activities {
		def := cat.Activity(a.ActivityID)
		if def == nil {
			t.Fatalf("unknown activity %q", a.ActivityID)
		}
		if a.Health != def.StartingHealth {
			t.Fatalf("%s health = %v, want %v", a.ActivityID, a.Health, def.StartingHealth)
		}
		if a.IsEliminated {
			t.Fatalf("%s starts eliminated", a.ActivityID)
		}
	}

	if _, _, err := NewTeam("", "Alpha", "ABC123", cat, nil); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestNewDecision(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	decision, err := NewDecision("team-id", "session-id", 2,
		nil, []string{"legacy-inventory-system"},
		func() time.Time { return fixed },
		func() (string, error) { return "decision-id", nil },
	)
	if err != nil {
		t.Fatalf("new decision: %v", err)
	}

	if decision.Cycle != 2 || decision.TeamID != "team-id" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if decision.Allocations == nil {
		t.Fatal("allocations should default to an empty map")
	}
	if !decision.SubmittedAt.Equal(fixed) {
		t.Fatalf("submitted at = %v", decision.SubmittedAt)
	}
}
