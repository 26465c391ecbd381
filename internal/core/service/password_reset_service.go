package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const (
	resetTokenBytes   = 32
	resetTokenTTL     = time.Hour
	minPasswordLength = 6
)

type passwordResetService struct {
	users   ports.UserRepository
	resets  ports.PasswordResetRepository
	hasher  ports.PasswordHasher
	mail    *Mailbox
	baseURL string
	now     func() time.Time
	log     zerolog.Logger
}

// NewPasswordResetService returns a PasswordResetService. Reset links point
// at baseURL.
func NewPasswordResetService(
	users ports.UserRepository,
	resets ports.PasswordResetRepository,
	hasher ports.PasswordHasher,
	mail *Mailbox,
	baseURL string,
	log zerolog.Logger,
) ports.PasswordResetService {
	return &passwordResetService{
		users:   users,
		resets:  resets,
		hasher:  hasher,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
		log:     log,
	}
}

// Request issues a reset token for email. Unknown addresses succeed silently
// so callers cannot probe for accounts.
func (s *passwordResetService) Request(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.resets.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("invalidate reset tokens: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.resets.Create(ctx, &domain.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.mail.PasswordReset(user, s.baseURL+"/reset-password/"+token)
	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

func (s *passwordResetService) Validate(ctx context.Context, token string) error {
	_, err := s.usable(ctx, token)
	return err
}

func (s *passwordResetService) Reset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.Invalid("password must be at least %d characters", minPasswordLength)
	}
	reset, err := s.usable(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Claim the token before writing the password; a concurrent reset that
	// lost the claim must not change anything.
	claimed, err := s.resets.MarkUsed(ctx, token)
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	if !claimed {
		return domain.ErrInvalidResetToken
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.mail.PasswordChanged(user)
	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}

func (s *passwordResetService) usable(ctx context.Context, token string) (*domain.PasswordReset, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}
	reset, err := s.resets.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	if !reset.Usable(s.now()) {
		return nil, domain.ErrInvalidResetToken
	}
	return reset, nil
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
