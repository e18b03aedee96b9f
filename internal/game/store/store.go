// Package store layers the game's record schema over the key-value storage
// interface: sessions and teams by ID and join code, per-team activity
// state, and append-only decision journals per team and per session.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/louisbranch/valuechain/internal/game/domain"
	"github.com/louisbranch/valuechain/internal/storage"
)

// Key scheme. Join codes index into the ID keyspace rather than duplicating
// records.
func keySession(id string) string          { return "session:" + id }
func keySessionByCode(code string) string  { return "session:code:" + code }
func keyTeam(id string) string             { return "team:" + id }
func keyTeamByCode(code string) string     { return "team:code:" + code }
func keyTeamActivities(id string) string   { return "team:" + id + ":activities" }
func keySessionTeams(id string) string     { return "session:" + id + ":teams" }
func keyDecision(id string) string         { return "decision:" + id }
func keyTeamDecisions(id string) string    { return "team:" + id + ":decisions" }
func keySessionDecisions(id string) string { return "session:" + id + ":decisions" }

// Store persists game records through a storage.KV backend.
type Store struct {
	kv storage.KV
}

// New creates a store over the given backend.
func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// PutSession persists a session record and its code index.
func (s *Store) PutSession(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if err := s.kv.Set(ctx, keySession(session.ID), session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	if session.Code != "" {
		if err := s.kv.Set(ctx, keySessionByCode(session.Code), session.ID); err != nil {
			return fmt.Errorf("index session code: %w", err)
		}
	}
	return nil
}

// Session fetches a session by ID. Returns storage.ErrNotFound when missing.
func (s *Store) Session(ctx context.Context, id string) (domain.Session, error) {
	var session domain.Session
	if err := s.kv.Get(ctx, keySession(id), &session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// SessionByCode fetches a session through its instructor code index.
func (s *Store) SessionByCode(ctx context.Context, code string) (domain.Session, error) {
	var id string
	if err := s.kv.Get(ctx, keySessionByCode(code), &id); err != nil {
		return domain.Session{}, err
	}
	return s.Session(ctx, id)
}

// PutTeam persists a team record and its join-code index.
func (s *Store) PutTeam(ctx context.Context, team domain.Team) error {
	if team.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if err := s.kv.Set(ctx, keyTeam(team.ID), team); err != nil {
		return fmt.Errorf("put team: %w", err)
	}
	if team.Code != "" {
		if err := s.kv.Set(ctx, keyTeamByCode(team.Code), team.ID); err != nil {
			return fmt.Errorf("index team code: %w", err)
		}
	}
	return nil
}

// Team fetches a team by ID. Returns storage.ErrNotFound when missing.
func (s *Store) Team(ctx context.Context, id string) (domain.Team, error) {
	var team domain.Team
	if err := s.kv.Get(ctx, keyTeam(id), &team); err != nil {
		return domain.Team{}, err
	}
	return team, nil
}

// TeamByCode fetches a team through its join-code index.
func (s *Store) TeamByCode(ctx context.Context, code string) (domain.Team, error) {
	var id string
	if err := s.kv.Get(ctx, keyTeamByCode(code), &id); err != nil {
		return domain.Team{}, err
	}
	return s.Team(ctx, id)
}

// AddSessionTeam registers a team in its session's membership set.
func (s *Store) AddSessionTeam(ctx context.Context, sessionID, teamID string) error {
	return s.kv.SAdd(ctx, keySessionTeams(sessionID), teamID)
}

// SessionTeams returns every team in a session, sorted by name. Dangling
// membership entries are skipped.
func (s *Store) SessionTeams(ctx context.Context, sessionID string) ([]domain.Team, error) {
	ids, err := s.kv.SMembers(ctx, keySessionTeams(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list session teams: %w", err)
	}

	teams := make([]domain.Team, 0, len(ids))
	for _, id := range ids {
		team, err := s.Team(ctx, id)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// PutTeamActivities persists a team's full activity state.
func (s *Store) PutTeamActivities(ctx context.Context, teamID string, activities []domain.TeamActivity) error {
	return s.kv.Set(ctx, keyTeamActivities(teamID), activities)
}

// TeamActivities fetches a team's activity state. A missing record is an
// empty slice.
func (s *Store) TeamActivities(ctx context.Context, teamID string) ([]domain.TeamActivity, error) {
	var activities []domain.TeamActivity
	err := s.kv.Get(ctx, keyTeamActivities(teamID), &activities)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// SaveDecision persists a decision and appends it to the team and session
// journals.
func (s *Store) SaveDecision(ctx context.Context, decision domain.Decision) error {
	if decision.ID == "" {
		return fmt.Errorf("decision id is required")
	}
	if err := s.kv.Set(ctx, keyDecision(decision.ID), decision); err != nil {
		return fmt.Errorf("put decision: %w", err)
	}
	if err := s.kv.RPush(ctx, keyTeamDecisions(decision.TeamID), decision.ID); err != nil {
		return fmt.Errorf("append team decision journal: %w", err)
	}
	if err := s.kv.RPush(ctx, keySessionDecisions(decision.SessionID), decision.ID); err != nil {
		return fmt.Errorf("append session decision journal: %w", err)
	}
	return nil
}

// Decision fetches a decision by ID.
func (s *Store) Decision(ctx context.Context, id string) (domain.Decision, error) {
	var decision domain.Decision
	if err := s.kv.Get(ctx, keyDecision(id), &decision); err != nil {
		return domain.Decision{}, err
	}
	return decision, nil
}

// TeamDecisions returns a team's decisions sorted by cycle.
func (s *Store) TeamDecisions(ctx context.Context, teamID string) ([]domain.Decision, error) {
	decisions, err := s.decisionsFromJournal(ctx, keyTeamDecisions(teamID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(decisions, func(i, j int) bool { return decisions[i].Cycle < decisions[j].Cycle })
	return decisions, nil
}

// SessionDecisions returns every decision submitted in a session, in
// submission order.
func (s *Store) SessionDecisions(ctx context.Context, sessionID string) ([]domain.Decision, error) {
	return s.decisionsFromJournal(ctx, keySessionDecisions(sessionID))
}

func (s *Store) decisionsFromJournal(ctx context.Context, key string) ([]domain.Decision, error) {
	ids, err := s.kv.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read decision journal: %w", err)
	}
	decisions := make([]domain.Decision, 0, len(ids))
	for _, id := range ids {
		decision, err := s.Decision(ctx, id)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}
