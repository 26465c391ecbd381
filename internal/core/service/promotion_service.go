package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type promotionService struct {
	users     ports.UserRepository
	evaluator *domain.ProfileEvaluator
	log       zerolog.Logger
}

// NewPromotionService returns a Promoter that moves guests to the user role
// once their profile is complete. A nil evaluator uses the full field set.
func NewPromotionService(users ports.UserRepository, evaluator *domain.ProfileEvaluator, log zerolog.Logger) ports.Promoter {
	if evaluator == nil {
		evaluator, _ = domain.NewProfileEvaluator()
	}
	return &promotionService{users: users, evaluator: evaluator, log: log}
}

// MaybePromote reloads the user, recomputes completeness and promotes a
// complete guest. Users and admins are never touched, so repeated calls
// converge on the same state.
func (s *promotionService) MaybePromote(ctx context.Context, userID string) (*ports.PromotionResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("promotion check: %w", err)
	}

	flags := s.evaluator.Evaluate(user)
	result := &ports.PromotionResult{Completeness: flags, User: user}

	if user.Role != domain.RoleGuest || !flags.ProfileComplete() {
		return result, nil
	}

	changed, err := s.users.PromoteRole(ctx, user.ID, domain.RoleGuest, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("promote user %s: %w: %w", user.ID, domain.ErrUpdateFailed, err)
	}
	if !changed {
		// Role moved concurrently; report what is stored now.
		if fresh, err := s.users.FindByID(ctx, user.ID); err == nil {
			result.User = fresh
		}
		return result, nil
	}

	user.Role = domain.RoleUser
	result.Promoted = true

	s.log.Info().
		Str("user_id", user.ID).
		Str("from", string(domain.RoleGuest)).
		Str("to", string(domain.RoleUser)).
		Msg("user promoted")

	return result, nil
}
