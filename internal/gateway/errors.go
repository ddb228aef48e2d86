package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// classify translates go-github errors into the domain errors callers branch on.
// Unknown errors are returned unchanged.
func classify(err error) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &domain.RateLimitError{
			Limit:     rle.Rate.Limit,
			Remaining: rle.Rate.Remaining,
			Reset:     rle.Rate.Reset.Time,
		}
	}

	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		e := &domain.RateLimitError{}
		if abuse.RetryAfter != nil {
			e.Reset = time.Now().Add(*abuse.RetryAfter)
		}
		return e
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, er.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, er.Message)
		case http.StatusForbidden, http.StatusTooManyRequests:
			if strings.Contains(strings.ToLower(er.Message), "rate limit") {
				return &domain.RateLimitError{}
			}
		}
	}
	return err
}

// classifyGraphQL translates githubv4 errors into domain errors. The client only
// exposes the HTTP status and the GraphQL error messages as text.
func classifyGraphQL(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate limit") || strings.Contains(msg, "RATE_LIMITED"):
		return &domain.RateLimitError{}
	case strings.Contains(msg, "non-200 OK status code: 401"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case strings.Contains(msg, "Could not resolve to a User"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return err
}

// isEmptyRepository reports the 409 GitHub answers when listing commits of an empty repository.
func isEmptyRepository(err error) bool {
	var er *github.ErrorResponse
	return errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusConflict
}
