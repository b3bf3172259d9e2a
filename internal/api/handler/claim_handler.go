package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

const (
	headerIdempotencyKey  = "Idempotency-Key"
	headerIdempotentReplay = "Idempotent-Replay"
)

// ClaimHandler serves point claims and the claim history.
type ClaimHandler struct {
	service ports.ClaimService
}

func NewClaimHandler(service ports.ClaimService) *ClaimHandler {
	return &ClaimHandler{service: service}
}

// Claim handles POST /claim.
//
// @Summary      Award random points (1-10) to a user
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string        false  "Replays the first result for a repeated key"
// @Param        body             body      claimRequest  true   "User to award"
// @Success      200              {object}  ports.ClaimResult
// @Failure      400              {object}  ErrorResponse
// @Failure      404              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Router       /claim [post]
func (h *ClaimHandler) Claim(c echo.Context) error {
	var req claimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Claim(c.Request().Context(), ports.ClaimInput{
		UserID:         req.UserID,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return Fail("failed to claim points", err)
	}

	if result.Replayed {
		c.Response().Header().Set(headerIdempotentReplay, "true")
	}
	return c.JSON(http.StatusOK, result)
}

// History handles GET /history.
//
// @Summary      List claim history, newest first
// @Tags         claims
// @Produce      json
// @Success      200  {array}   domain.HistoryEntry
// @Failure      500  {object}  ErrorResponse
// @Router       /history [get]
func (h *ClaimHandler) History(c echo.Context) error {
	history, err := h.service.History(c.Request().Context())
	if err != nil {
		return Fail("failed to fetch history", err)
	}
	return c.JSON(http.StatusOK, history)
}
