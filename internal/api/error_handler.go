package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/leaderboard-api/internal/api/handler"
	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

const internalErrorMessage = "internal server error"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs store and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	}

	msg := internalErrorMessage
	var f *handler.Failure
	if errors.As(err, &f) {
		msg = f.Message
	}

	// Store or unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Bool("store", errors.Is(err, domain.ErrStore)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")

	return http.StatusInternalServerError, msg
}
