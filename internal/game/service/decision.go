package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/valuechain/internal/catalog"
	apperrors "github.com/louisbranch/valuechain/internal/errors"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// budgetTolerance absorbs floating-point noise in spend totals.
const budgetTolerance = 0.01

// SubmitDecision validates and records a team's plan for the current cycle.
// The decision is immutable once accepted; a second submission in the same
// cycle is rejected. Nothing is written when validation fails.
func (s *Service) SubmitDecision(ctx context.Context, teamID string, allocations map[string]float64, cuts []string) (domain.Decision, error) {
	team, err := s.team(ctx, teamID)
	if err != nil {
		return domain.Decision{}, err
	}
	session, err := s.session(ctx, team.SessionID)
	if err != nil {
		return domain.Decision{}, err
	}
	if session.Status != domain.StatusActive {
		return domain.Decision{}, apperrors.New(apperrors.CodeGameNotActive, "game is not active")
	}
	if team.HasSubmitted {
		return domain.Decision{}, apperrors.New(apperrors.CodeAlreadySubmitted, "already submitted for this cycle")
	}

	activities, err := s.store.TeamActivities(ctx, teamID)
	if err != nil {
		return domain.Decision{}, err
	}

	var totalAllocations float64
	for id, amount := range allocations {
		if amount < 0 {
			return domain.Decision{}, apperrors.WithMetadata(apperrors.CodeNegativeAllocation,
				fmt.Sprintf("negative allocation for %s", id),
				map[string]string{"activity": id})
		}
		totalAllocations += amount
	}

	eliminationCosts, err := s.validateCuts(activities, cuts)
	if err != nil {
		return domain.Decision{}, err
	}

	totalSpend := totalAllocations + eliminationCosts
	if totalSpend > team.Budget+budgetTolerance {
		return domain.Decision{}, apperrors.WithMetadata(apperrors.CodeOverBudget,
			fmt.Sprintf("spending $%.1fM exceeds budget $%.1fM", totalSpend, team.Budget),
			map[string]string{
				"spend":  fmt.Sprintf("%.1f", totalSpend),
				"budget": fmt.Sprintf("%.1f", team.Budget),
			})
	}

	decision, err := domain.NewDecision(teamID, team.SessionID, session.CurrentCycle, allocations, cuts, s.now, s.newID)
	if err != nil {
		return domain.Decision{}, err
	}
	if err := s.store.SaveDecision(ctx, decision); err != nil {
		return domain.Decision{}, err
	}

	team.HasSubmitted = true
	if err := s.store.PutTeam(ctx, team); err != nil {
		return domain.Decision{}, err
	}

	s.notifier.DecisionSubmitted(ctx, team.SessionID, team.ID, team.Name)
	s.emit(ctx, team.SessionID, "decision-submitted", team.Name)
	return decision, nil
}

// validateCuts checks every requested elimination and returns the total
// one-time cost. Only existing, not-yet-eliminated, eliminable non-value-add
// activities can be cut; the optional trap activity has no elimination cost
// and can never be cut.
func (s *Service) validateCuts(activities []domain.TeamActivity, cuts []string) (float64, error) {
	var total float64
	for _, id := range cuts {
		var current *domain.TeamActivity
		for i := range activities {
			if activities[i].ActivityID == id {
				current = &activities[i]
				break
			}
		}
		if current == nil {
			return 0, apperrors.WithMetadata(apperrors.CodeActivityNotFound,
				fmt.Sprintf("activity %s not found", id),
				map[string]string{"activity": id})
		}
		if current.IsEliminated {
			return 0, apperrors.WithMetadata(apperrors.CodeAlreadyEliminated,
				fmt.Sprintf("activity %s already eliminated", id),
				map[string]string{"activity": id})
		}

		def := s.catalog.Activity(id)
		if def == nil || def.Category != catalog.CategoryNonValueAdd {
			return 0, apperrors.WithMetadata(apperrors.CodeActivityNotCuttable,
				fmt.Sprintf("cannot eliminate non-overhead activity %s", id),
				map[string]string{"activity": id})
		}
		if !def.Eliminable() {
			return 0, apperrors.WithMetadata(apperrors.CodeEliminationForbidden,
				fmt.Sprintf("%s cannot be eliminated once started", def.Name),
				map[string]string{"activity": id})
		}
		total += *def.EliminationCost
	}
	return total, nil
}
