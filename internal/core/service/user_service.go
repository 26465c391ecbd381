package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

type userService struct {
	users     ports.UserRepository
	carts     ports.CartRepository
	promoter  ports.Promoter
	evaluator *domain.ProfileEvaluator
	log       zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(
	users ports.UserRepository,
	carts ports.CartRepository,
	promoter ports.Promoter,
	evaluator *domain.ProfileEvaluator,
	log zerolog.Logger,
) ports.UserService {
	if evaluator == nil {
		evaluator, _ = domain.NewProfileEvaluator()
	}
	return &userService{users: users, carts: carts, promoter: promoter, evaluator: evaluator, log: log}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*ports.ProfileResult, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.ProfileResult{User: user, Completeness: s.evaluator.Evaluate(user)}, nil
}

// Update applies a partial profile change and then runs the promotion check
// on the stored result. Flags are always recomputed, never cached.
func (s *userService) Update(ctx context.Context, id string, upd domain.UserUpdate) (*ports.ProfileResult, error) {
	upd = upd.Normalize()
	if upd.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if _, err := s.users.UpdateFields(ctx, id, upd); err != nil {
		return nil, err
	}

	promo, err := s.promoter.MaybePromote(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", id).
		Bool("user_complete", promo.Completeness.PersonalComplete).
		Bool("address_complete", promo.Completeness.AddressComplete).
		Bool("promoted", promo.Promoted).
		Msg("profile updated")

	return &ports.ProfileResult{User: promo.User, Completeness: promo.Completeness, Promoted: promo.Promoted}, nil
}

// Delete removes the user and the cart it owns.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.carts.DeleteByUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to remove cart of deleted user")
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
