package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	c, rec := newContext(nil)
	c.Set(principalKey, &domain.Principal{ID: "a1", Role: domain.RoleAdmin})

	called := false
	handler := RBAC(domain.RoleAdmin, domain.RoleUser)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := newContext(nil)
	c.Set(principalKey, &domain.Principal{ID: "u1", Role: domain.RoleGuest})

	handler := AdminOnly()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrRoleNotAllowed) {
		t.Fatalf("expected role denial, got %v", err)
	}
}

func TestRBAC_RequiresPrincipal(t *testing.T) {
	c, _ := newContext(nil)
	handler := AdminOnly()(func(c echo.Context) error { return nil })

	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
