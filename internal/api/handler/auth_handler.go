package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user with form credentials and returns a bearer token.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  tokenResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTokenResponse(token))
}

// Refresh issues a new token for the caller with their current roles.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}

	token, err := h.authService.Refresh(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTokenResponse(token))
}

// Logout evicts the caller's cached record. The token stays valid until it
// expires.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
