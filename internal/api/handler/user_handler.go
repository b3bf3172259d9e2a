package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

// UserHandler serves the leaderboard user directory.
type UserHandler struct {
	service ports.LeaderboardService
}

func NewUserHandler(service ports.LeaderboardService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users by total points
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return Fail("failed to fetch users", err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
//
// @Summary      Add a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User to add"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.AddUser(c.Request().Context(), ports.AddUserInput{
		Name:           req.Name,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return Fail("failed to add user", err)
	}
	return c.JSON(http.StatusCreated, user)
}
