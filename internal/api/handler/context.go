package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/middleware"
	"github.com/madezdev/ecommerce-api/internal/core/authz"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// principal returns the caller set by the Auth middleware. Handlers behind
// Auth always have one; the check guards against a route wired without it.
func principal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
