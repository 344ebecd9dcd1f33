package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/api/middleware"
)

// callerID returns the subject of the verified token. A missing subject means
// the route was mounted without the Auth middleware.
func callerID(c echo.Context) (string, error) {
	claims := middleware.Claims(c)
	if claims == nil || claims.Subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims.Subject, nil
}

// userID validates a user id taken from the path or query string.
func userID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "id must be a valid uuid")
	}
	return id.String(), nil
}
