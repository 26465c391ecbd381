package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// TokenResolver authenticates bearer tokens. The user record is reloaded on
// every call so the principal carries the current role and cart, not the
// ones frozen into the token.
type TokenResolver struct {
	verifier ports.TokenVerifier
	revoked  ports.RevocationStore
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewTokenResolver(verifier ports.TokenVerifier, revoked ports.RevocationStore, users ports.UserRepository, log zerolog.Logger) *TokenResolver {
	return &TokenResolver{verifier: verifier, revoked: revoked, users: users, log: log}
}

func (r *TokenResolver) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if claims.TokenID != "" {
		revoked, err := r.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			r.log.Debug().Str("user_id", claims.UserID).Msg("token for unknown user")
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}

	return user.Principal(), nil
}

// StaticResolver maps fixed tokens to principals. It is meant for tests and
// local tooling, and satisfies the same contract as TokenResolver.
type StaticResolver map[string]*domain.Principal

func (s StaticResolver) Resolve(_ context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}
	p, ok := s[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	clone := *p
	return &clone, nil
}
