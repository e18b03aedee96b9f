package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/valuechain/internal/catalog"
	apperrors "github.com/louisbranch/valuechain/internal/errors"
	"github.com/louisbranch/valuechain/internal/game/domain"
	"github.com/louisbranch/valuechain/internal/storage"
)

// JoinTeam claims a placeholder team by join code and names it.
func (s *Service) JoinTeam(ctx context.Context, code, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, apperrors.New(apperrors.CodeEmptyTeamName, "team name is required")
	}

	team, err := s.store.TeamByCode(ctx, code)
	if err == storage.ErrNotFound {
		return domain.Team{}, apperrors.New(apperrors.CodeTeamNotFound, "no team with that code")
	}
	if err != nil {
		return domain.Team{}, err
	}

	team.Name = name
	if err := s.store.PutTeam(ctx, team); err != nil {
		return domain.Team{}, err
	}

	s.notifier.TeamJoined(ctx, team.SessionID, team.ID, team.Name)
	s.emit(ctx, team.SessionID, "team-joined", team.Name)
	return team, nil
}

// RenameTeam updates a team's display name.
func (s *Service) RenameTeam(ctx context.Context, teamID, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, apperrors.New(apperrors.CodeEmptyTeamName, "team name is required")
	}

	team, err := s.team(ctx, teamID)
	if err != nil {
		return domain.Team{}, err
	}

	team.Name = name
	if err := s.store.PutTeam(ctx, team); err != nil {
		return domain.Team{}, err
	}

	s.notifier.StateUpdated(ctx, team.SessionID)
	return team, nil
}

// MarkBriefSeen records that a team has read the company brief.
func (s *Service) MarkBriefSeen(ctx context.Context, teamID string) error {
	team, err := s.team(ctx, teamID)
	if err != nil {
		return err
	}
	if team.HasSeenBrief {
		return nil
	}
	team.HasSeenBrief = true
	return s.store.PutTeam(ctx, team)
}

// ActivateActivity switches on an optional overhead activity (catalog
// starting health 0). Activation is a trap: the activity starts charging
// maintenance and, without an elimination cost, can never be cut.
func (s *Service) ActivateActivity(ctx context.Context, teamID, activityID string) error {
	team, err := s.team(ctx, teamID)
	if err != nil {
		return err
	}

	def := s.catalog.Activity(activityID)
	if def == nil {
		return apperrors.WithMetadata(apperrors.CodeActivityNotFound,
			fmt.Sprintf("activity %s not found", activityID),
			map[string]string{"activity": activityID})
	}
	if def.Category != catalog.CategoryNonValueAdd || def.StartingHealth != 0 {
		return apperrors.WithMetadata(apperrors.CodeActivityNotOptional,
			fmt.Sprintf("%s is not an optional activity", def.Name),
			map[string]string{"activity": activityID})
	}

	activities, err := s.store.TeamActivities(ctx, teamID)
	if err != nil {
		return err
	}
	for i := range activities {
		if activities[i].ActivityID != activityID {
			continue
		}
		if activities[i].Health > 0 {
			return apperrors.New(apperrors.CodeActivityAlreadyActive,
				fmt.Sprintf("%s is already active", def.Name))
		}
		activities[i].Health = 100
		if err := s.store.PutTeamActivities(ctx, teamID, activities); err != nil {
			return err
		}
		s.notifier.StateUpdated(ctx, team.SessionID)
		s.emit(ctx, team.SessionID, "activity-activated", def.Name)
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeActivityNotFound,
		fmt.Sprintf("activity %s not found for team", activityID),
		map[string]string{"activity": activityID})
}
