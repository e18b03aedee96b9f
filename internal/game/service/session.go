package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/engine"
	apperrors "github.com/louisbranch/valuechain/internal/errors"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// TeamCode pairs a placeholder team number with its join code, handed to the
// instructor at session creation.
type TeamCode struct {
	TeamNumber int    `json:"teamNumber"`
	Code       string `json:"code"`
}

// maxTeamCount bounds cohort size; relative scoring is meaningless for a
// lone team and unwieldy past a classroom's worth.
const maxTeamCount = 32

// CreateSession creates a lobby session with placeholder teams and their
// join codes. A zero teamCount uses the default cohort size.
func (s *Service) CreateSession(ctx context.Context, createdBy string, teamCount int) (domain.Session, []TeamCode, error) {
	if teamCount == 0 {
		teamCount = domain.DefaultTeamCount
	}
	if teamCount < 1 || teamCount > maxTeamCount {
		return domain.Session{}, nil, apperrors.WithMetadata(apperrors.CodeInvalidTeamCount,
			fmt.Sprintf("team count %d outside 1..%d", teamCount, maxTeamCount),
			map[string]string{"teamCount": fmt.Sprint(teamCount)})
	}

	session, err := domain.NewSession(createdBy, s.now, s.newID, func(n int) (string, error) {
		return s.joinCode(n)
	})
	if err != nil {
		return domain.Session{}, nil, err
	}

	codes := make([]TeamCode, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		code, err := s.joinCode(domain.JoinCodeLength)
		if err != nil {
			return domain.Session{}, nil, fmt.Errorf("generate team code: %w", err)
		}

		team, activities, err := domain.NewTeam(session.ID, fmt.Sprintf("Team %d", i), code, s.catalog, s.newID)
		if err != nil {
			return domain.Session{}, nil, err
		}
		if err := s.store.PutTeam(ctx, team); err != nil {
			return domain.Session{}, nil, err
		}
		if err := s.store.PutTeamActivities(ctx, team.ID, activities); err != nil {
			return domain.Session{}, nil, err
		}
		if err := s.store.AddSessionTeam(ctx, session.ID, team.ID); err != nil {
			return domain.Session{}, nil, err
		}
		codes = append(codes, TeamCode{TeamNumber: i, Code: code})
	}

	if err := s.store.PutSession(ctx, session); err != nil {
		return domain.Session{}, nil, err
	}

	s.emit(ctx, session.ID, "session-created", fmt.Sprintf("%d teams", teamCount))
	return session, codes, nil
}

// AdvanceCycle moves a session to its next cycle. For every advance past the
// lobby it scores the cycle that just finished: it gathers each team's
// decision (a missing decision means empty allocations and no cuts — the
// team still decays and is still scored), runs the engine over the whole
// cohort with the given shock, and persists new health, budgets, margins,
// and ranked results. Advancing past the final cycle completes the game.
//
// Callers must serialize advances per session; the service performs no
// locking of its own.
func (s *Service) AdvanceCycle(ctx context.Context, sessionID, shockID string) ([]domain.CycleResult, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.StatusCompleted {
		return nil, apperrors.New(apperrors.CodeGameCompleted, "game already completed")
	}

	teams, err := s.store.SessionTeams(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// An unknown shock ID degrades to "no shock" rather than failing the
	// whole cohort's advance.
	var shock *catalog.ShockDefinition
	if shockID != "" {
		shock = s.catalog.Shock(shockID)
	}

	var results []domain.CycleResult
	if session.CurrentCycle > 0 {
		results, err = s.scoreCycle(ctx, session, teams, shock)
		if err != nil {
			return nil, err
		}
		// Refresh team records mutated by scoring.
		teams, err = s.store.SessionTeams(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	session.CurrentCycle++
	session.CycleStartTime = s.now().UTC()
	if session.CurrentCycle == 1 {
		session.Status = domain.StatusActive
	}

	for i := range teams {
		if !teams[i].HasSubmitted {
			continue
		}
		teams[i].HasSubmitted = false
		if err := s.store.PutTeam(ctx, teams[i]); err != nil {
			return nil, err
		}
	}

	completed := session.CurrentCycle > domain.MaxCycles
	if completed {
		session.Status = domain.StatusCompleted
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, err
	}

	if completed {
		s.notifier.GameCompleted(ctx, sessionID, engine.Rankings(teams))
		s.emit(ctx, sessionID, "game-completed", "final rankings computed")
	} else {
		s.notifier.CycleAdvanced(ctx, sessionID, session.CurrentCycle, shock)
		if shock != nil {
			s.notifier.ShockAnnounced(ctx, sessionID, *shock)
		}
		s.emit(ctx, sessionID, "cycle-advanced", fmt.Sprintf("cycle %d", session.CurrentCycle))
	}
	return results, nil
}

// scoreCycle runs the engine for the cycle that just finished and persists
// each team's updated state and ranked result.
func (s *Service) scoreCycle(ctx context.Context, session domain.Session, teams []domain.Team, shock *catalog.ShockDefinition) ([]domain.CycleResult, error) {
	inputs := make([]engine.TeamInput, 0, len(teams))
	for _, team := range teams {
		activities, err := s.store.TeamActivities(ctx, team.ID)
		if err != nil {
			return nil, err
		}

		allocations := map[string]float64{}
		var cuts []string
		decisions, err := s.store.TeamDecisions(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range decisions {
			if d.Cycle == session.CurrentCycle {
				allocations = d.Allocations
				cuts = d.Cuts
				break
			}
		}

		inputs = append(inputs, engine.TeamInput{
			TeamID:      team.ID,
			Revenue:     team.Revenue,
			Activities:  activities,
			Allocations: allocations,
			Cuts:        cuts,
		})
	}

	outcome := engine.ProcessCycle(s.catalog, inputs, session.CurrentCycle, shock)

	byTeam := make(map[string]domain.CycleResult, len(outcome.Results))
	for _, r := range outcome.Results {
		byTeam[r.TeamID] = r
	}

	for _, team := range teams {
		result := byTeam[team.ID]
		team.CAS += result.CASChange
		team.Margin += result.MarginChange
		team.Budget = result.NewBudget
		team.CycleResults = append(team.CycleResults, result)

		if err := s.store.PutTeam(ctx, team); err != nil {
			return nil, err
		}
		if err := s.store.PutTeamActivities(ctx, team.ID, outcome.Activities[team.ID]); err != nil {
			return nil, err
		}
	}
	return outcome.Results, nil
}
