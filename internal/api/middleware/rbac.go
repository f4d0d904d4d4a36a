package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/opsdesk/console/internal/core/domain"
)

// RBAC restricts a route to the listed roles. Auth must run earlier in the
// chain so the operator's role is already in the request context; a missing
// or unknown role is rejected.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
