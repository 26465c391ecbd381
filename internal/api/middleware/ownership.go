package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/authz"
)

// SelfOrAdmin allows the request when the path parameter names the caller.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.RequireSelfOrAdmin(PrincipalFrom(c), c.Param(param)); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

// CompleteProfile blocks guests from gated cart operations. On cart
// mutations it runs before CartOwnership so a guest sees the profile code
// rather than an ownership denial.
func CompleteProfile() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.RequireCompleteProfile(PrincipalFrom(c)); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

// CartOwnership allows the cart's owner or an admin.
func CartOwnership(guard *authz.Guard, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.RequireCartOwnerOrAdmin(c.Request().Context(), PrincipalFrom(c), c.Param(param)); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

// OrderOwnership allows the order's owner or an admin. Missing orders and
// foreign orders both surface as not found.
func OrderOwnership(guard *authz.Guard, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.RequireOrderOwnerOrAdmin(c.Request().Context(), PrincipalFrom(c), c.Param(param)); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}
