package service

import (
	"context"

	"github.com/louisbranch/valuechain/internal/engine"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// TeamState is the view of a game from one team's perspective.
type TeamState struct {
	Team       domain.Team           `json:"team"`
	Activities []domain.TeamActivity `json:"activities"`
	Session    domain.Session        `json:"session"`
	Rankings   []domain.TeamRanking  `json:"rankings"`
}

// InstructorState is the full cohort view.
type InstructorState struct {
	Session        domain.Session                   `json:"session"`
	Teams          []domain.Team                    `json:"teams"`
	TeamActivities map[string][]domain.TeamActivity `json:"teamActivities"`
	Rankings       []domain.TeamRanking             `json:"rankings"`
}

// SessionExport bundles every record of a session for offline analysis.
type SessionExport struct {
	Session        domain.Session                   `json:"session"`
	Teams          []domain.Team                    `json:"teams"`
	Decisions      []domain.Decision                `json:"decisions"`
	TeamActivities map[string][]domain.TeamActivity `json:"teamActivities"`
}

// TeamState returns a team's current view: its record, activity state, the
// session, and the leaderboard.
func (s *Service) TeamState(ctx context.Context, teamID string) (TeamState, error) {
	team, err := s.team(ctx, teamID)
	if err != nil {
		return TeamState{}, err
	}
	session, err := s.session(ctx, team.SessionID)
	if err != nil {
		return TeamState{}, err
	}
	activities, err := s.store.TeamActivities(ctx, teamID)
	if err != nil {
		return TeamState{}, err
	}
	teams, err := s.store.SessionTeams(ctx, team.SessionID)
	if err != nil {
		return TeamState{}, err
	}

	return TeamState{
		Team:       team,
		Activities: activities,
		Session:    session,
		Rankings:   engine.Rankings(teams),
	}, nil
}

// InstructorState returns the full cohort view of a session.
func (s *Service) InstructorState(ctx context.Context, sessionID string) (InstructorState, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return InstructorState{}, err
	}
	teams, err := s.store.SessionTeams(ctx, sessionID)
	if err != nil {
		return InstructorState{}, err
	}

	activities := make(map[string][]domain.TeamActivity, len(teams))
	for _, team := range teams {
		acts, err := s.store.TeamActivities(ctx, team.ID)
		if err != nil {
			return InstructorState{}, err
		}
		activities[team.ID] = acts
	}

	return InstructorState{
		Session:        session,
		Teams:          teams,
		TeamActivities: activities,
		Rankings:       engine.Rankings(teams),
	}, nil
}

// ExportSession returns every record of a session for offline analysis.
func (s *Service) ExportSession(ctx context.Context, sessionID string) (SessionExport, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return SessionExport{}, err
	}
	teams, err := s.store.SessionTeams(ctx, sessionID)
	if err != nil {
		return SessionExport{}, err
	}
	decisions, err := s.store.SessionDecisions(ctx, sessionID)
	if err != nil {
		return SessionExport{}, err
	}

	activities := make(map[string][]domain.TeamActivity, len(teams))
	for _, team := range teams {
		acts, err := s.store.TeamActivities(ctx, team.ID)
		if err != nil {
			return SessionExport{}, err
		}
		activities[team.ID] = acts
	}

	return SessionExport{
		Session:        session,
		Teams:          teams,
		Decisions:      decisions,
		TeamActivities: activities,
	}, nil
}
