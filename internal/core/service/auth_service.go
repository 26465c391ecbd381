package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// fieldValidator checks single values on paths that do not go through
// request binding, such as admin seeding.
var fieldValidator = validator.New()

// AuthService implements registration, login and session handling.
type AuthService struct {
	users     ports.UserRepository
	carts     ports.CartRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	verifier  ports.TokenVerifier
	revoked   ports.RevocationStore
	promoter  ports.Promoter
	evaluator *domain.ProfileEvaluator
	log       zerolog.Logger
}

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Users     ports.UserRepository
	Carts     ports.CartRepository
	Hasher    ports.PasswordHasher
	Tokens    ports.TokenIssuer
	Verifier  ports.TokenVerifier
	Revoked   ports.RevocationStore
	Promoter  ports.Promoter
	Evaluator *domain.ProfileEvaluator
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	ev := deps.Evaluator
	if ev == nil {
		ev, _ = domain.NewProfileEvaluator()
	}
	return &AuthService{
		users:     deps.Users,
		carts:     deps.Carts,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		verifier:  deps.Verifier,
		revoked:   deps.Revoked,
		promoter:  deps.Promoter,
		evaluator: ev,
		log:       log,
	}
}

// Register creates a guest account with an empty cart and returns a token.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.create(ctx, in, domain.RoleGuest)
}

// CreateAdmin creates an account with the admin role. Callers must already
// have been authorized as admin.
func (s *AuthService) CreateAdmin(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.create(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput, role domain.Role) (*ports.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Create(ctx, &domain.Cart{UserID: user.ID, Products: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	if err := s.users.SetCart(ctx, user.ID, cart.ID); err != nil {
		return nil, fmt.Errorf("assign cart: %w", err)
	}
	user.CartID = cart.ID

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("user registered")

	return &ports.AuthResult{Token: token, User: user, Completeness: s.evaluator.Evaluate(user)}, nil
}

// Login checks credentials, runs the promotion check and issues a token
// carrying the resulting role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	promo, err := s.promoter.MaybePromote(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(promo.User)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Bool("promoted", promo.Promoted).Msg("user logged in")

	return &ports.AuthResult{Token: token, User: promo.User, Completeness: promo.Completeness, Promoted: promo.Promoted}, nil
}

// Current returns the caller's profile after a promotion check.
func (s *AuthService) Current(ctx context.Context, userID string) (*ports.ProfileResult, error) {
	promo, err := s.promoter.MaybePromote(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.ProfileResult{User: promo.User, Completeness: promo.Completeness, Promoted: promo.Promoted}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if claims.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info().Str("user_id", claims.UserID).Msg("user logged out")
	return nil
}

// SeedAdmin creates the bootstrap admin when no admin exists yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = s.CreateAdmin(ctx, ports.RegisterInput{
		FirstName: "Admin",
		LastName:  "User",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info().Str("email", normalizeEmail(email)).Msg("admin account seeded")
	return nil
}

func validateRegistration(in ports.RegisterInput) error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return domain.Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := fieldValidator.Var(in.Email, "email"); err != nil {
		return domain.ErrInvalidEmail
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
