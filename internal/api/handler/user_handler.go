package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/ports"
)

// UserHandler serves account queries and permission administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the signed-in user, or null for anonymous callers.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.service.Me(c.Request().Context(), callerFrom(c))
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns every user. Requires ADMIN or PERMISSIONUPDATE.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.Users(c.Request().Context(), callerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// UpdatePermissions replaces a user's permission set.
//
// @Summary      Update permissions
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "User id"
// @Param        body  body      updatePermissionsRequest  true  "New permission set"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/permissions [put]
func (h *UserHandler) UpdatePermissions(c echo.Context) error {
	var req updatePermissionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdatePermissions(c.Request().Context(), callerFrom(c), c.Param("id"), permissionsFrom(req.Permissions))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
