package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/authz"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.RequireRole(PrincipalFrom(c), allowedRoles...); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

// AdminOnly is RBAC restricted to administrators.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
