package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/auth"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/pkg/metrics"
)

// RolesAllowed admits the request when the token grants at least one of
// roles. It must run after Auth.
func RolesAllowed(roles ...domain.Role) echo.MiddlewareFunc {
	required := append([]domain.Role(nil), roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return unauthorized(c, "missing", domain.ErrMissingToken, "missing authentication claims")
			}
			if err := auth.Authorize(required, claims.Roles); err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("forbidden").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").SetInternal(err)
			}
			return next(c)
		}
	}
}
