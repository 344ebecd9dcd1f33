package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userID(c.Param("id"))
	if err != nil {
		return err
	}
	return h.respondUser(c, id)
}

// GetByUsername handles GET /users/by-username/:username.
//
// @Summary      Get a user by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/by-username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /users (public registration).
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Register(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/users/"+user.ID)
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id (uuid)"
// @Param        body  body  updateUserRequest  true  "Profile fields"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c.Param("id"))
	if err != nil {
		return err
	}
	return h.update(c, id)
}

// Delete handles DELETE /users?id=.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   query  string  true  "User id (uuid)"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c.QueryParam("id"))
	if err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMe handles GET /users/get/me.
//
// @Summary      Get the caller
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/get/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	return h.respondUser(c, id)
}

// UpdateMe handles PUT /users/update/me.
//
// @Summary      Update the caller's profile
// @Tags         me
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  updateUserRequest  true  "Profile fields"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/update/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	return h.update(c, id)
}

// ChangePassword handles PATCH /users/password/:password.
//
// @Summary      Change the caller's password
// @Tags         me
// @Security     BearerAuth
// @Param        password  path  string  true  "New password"
// @Success      204
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/password/{password} [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}

	changed, err := h.service.ChangePassword(c.Request().Context(), id, c.Param("password"))
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) respondUser(c echo.Context, id string) error {
	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) update(c echo.Context, id string) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}
