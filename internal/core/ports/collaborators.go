package ports

import (
	"context"
	"time"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// TokenClaims is what a verified bearer token asserts.
type TokenClaims struct {
	UserID    string
	Email     string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a bearer token's signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher hides the one-way credential function.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// RevocationStore remembers logged-out token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthenticationResolver turns a raw credential into a principal. Failures
// must unwrap to domain.ErrUnauthorized.
type AuthenticationResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}

// Notification is one outbound email.
type Notification struct {
	Kind    string
	To      string
	Subject string
	HTML    string
}

// Notifier queues notifications for asynchronous delivery.
type Notifier interface {
	Notify(n Notification)
}

// Mailer delivers a notification synchronously.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}
