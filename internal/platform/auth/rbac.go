package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Roles recognized by the API. Staff sharing the clinic access code pick one
// at login; admin implies everything.
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RolePharmacist = "pharmacist"
)

// ValidRole reports whether the given role is one the API recognizes.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePharmacist:
		return true
	}
	return false
}

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == RoleAdmin {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
