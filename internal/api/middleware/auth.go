package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
	"github.com/userhub/user-service/internal/pkg/metrics"
)

// ClaimsKey is the echo context key holding the verified *domain.TokenClaims.
const ClaimsKey = "auth.claims"

const bearerChallenge = "Bearer"

// Auth verifies the bearer token and injects its claims into the context.
// Every rejection is a 401 carrying a WWW-Authenticate challenge.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing", domain.ErrMissingToken, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized(c, "invalid", domain.ErrMissingToken, "invalid authorization header")
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return unauthorized(c, "expired", err, "token expired")
				}
				return unauthorized(c, "invalid", err, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// Claims returns the claims stored by Auth, or nil when the request was not
// authenticated.
func Claims(c echo.Context) *domain.TokenClaims {
	claims, _ := c.Get(ClaimsKey).(*domain.TokenClaims)
	return claims
}

func unauthorized(c echo.Context, reason string, cause error, msg string) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}
