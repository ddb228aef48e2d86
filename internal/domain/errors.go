package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateLimited     = errors.New("github api rate limit exceeded")
	ErrUnauthorized    = errors.New("unauthorized, please log in again")
	ErrNotFound        = errors.New("not found")
	ErrAuthRequired    = errors.New("an access token is required")
	ErrInvalidArgument = errors.New("invalid argument")
)

// RateLimitError reports an exhausted GitHub API quota.
// It matches ErrRateLimited with errors.Is.
type RateLimitError struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func (e *RateLimitError) Error() string {
	msg := "github api rate limit exceeded."
	if !e.Reset.IsZero() {
		msg += fmt.Sprintf(" retry after %s.", e.Reset.Format(time.RFC3339))
	}
	return msg + " authenticating raises the limit from 60 to 5000 requests per hour"
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
