package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/metrics"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const (
	principalKey = "principal"
	tokenKey     = "token"

	// TokenCookie is the cookie set at login and register.
	TokenCookie = "token"
)

// Auth resolves the request credential into a principal and stores it on
// the context. The bearer header wins over the cookie.
func Auth(resolver ports.AuthenticationResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return deny(err)
			}

			p, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return deny(err)
			}

			c.Set(principalKey, p)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrInvalidToken
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", domain.ErrMissingCredential
}

// PrincipalFrom returns the principal set by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// Token returns the raw credential accepted by Auth.
func Token(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// deny records a denial metric and passes err through to the error handler.
func deny(err error) error {
	kind := "error"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		kind = "unauthorized"
	case errors.Is(err, domain.ErrIncompleteProfile):
		kind = "incomplete_profile"
	case errors.Is(err, domain.ErrForbidden):
		kind = "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		kind = "not_found"
	}
	metrics.AuthzDenialsTotal.WithLabelValues(kind).Inc()
	return err
}

// OptionalAuth sets the principal when a valid credential is present and
// otherwise lets the request through anonymously. Public routes use it to
// widen results for admins.
func OptionalAuth(resolver ports.AuthenticationResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return next(c)
			}
			if p, err := resolver.Resolve(c.Request().Context(), token); err == nil {
				c.Set(principalKey, p)
				c.Set(tokenKey, token)
			}
			return next(c)
		}
	}
}
