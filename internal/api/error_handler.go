package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/onboarding-system/internal/api/handler"
	"github.com/99minutos/onboarding-system/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors and answers 500, echoing the cause only when
//     exposeErrors is set.
//   - Renders a consistent JSON envelope: {"message": "...", "error": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c, exposeErrors)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, exposeErrors bool) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware 401s)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, handler.ErrorResponse{Message: "User already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, handler.ErrorResponse{Message: "Invalid credentials"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, handler.ErrorResponse{Message: "Unauthorized"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Message: "User not found"}
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Message: "Task not found"}
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return http.StatusBadRequest, handler.ErrorResponse{Message: "Invalid task status", Error: err.Error()}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	resp := handler.ErrorResponse{Message: "Server error"}
	if exposeErrors {
		resp.Error = err.Error()
	}
	return http.StatusInternalServerError, resp
}
