package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized, "AUTH_REQUIRED"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// writeError writes err as an ErrorResponse. Internal errors are not exposed.
func writeError(c echo.Context, err error) error {
	status, code := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	var rateLimitErr *domain.RateLimitError
	if errors.As(err, &rateLimitErr) && !rateLimitErr.Reset.IsZero() {
		retryAfter := int(time.Until(rateLimitErr.Reset).Seconds()) + 1
		c.Response().Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
	}
	return c.JSON(status, toErrorResponse(code, message))
}
