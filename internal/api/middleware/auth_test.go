package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/service"
)

var resolver = service.StaticResolver{
	"alice-token": {ID: "u1", Email: "alice@example.com", Role: domain.RoleUser, CartID: "c1"},
	"admin-token": {ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin},
}

func newContext(setup func(r *http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	c, rec := newContext(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer alice-token")
	})

	called := false
	handler := Auth(resolver)(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil || p.ID != "u1" || p.Role != domain.RoleUser {
			t.Fatalf("principal not set: %+v", p)
		}
		if Token(c) != "alice-token" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	c, _ := newContext(func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "admin-token"})
	})

	handler := Auth(resolver)(func(c echo.Context) error {
		if !PrincipalFrom(c).IsAdmin() {
			t.Fatalf("expected admin principal from cookie")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *http.Request)
		want  error
	}{
		{"missing header", nil, domain.ErrMissingCredential},
		{"invalid header format", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, domain.ErrInvalidToken},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }, domain.ErrInvalidToken},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") }, domain.ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(tc.setup)
			handler := Auth(resolver)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected unauthorized kind, got %v", err)
			}
		})
	}
}
