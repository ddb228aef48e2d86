package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gateway := &GitHubGateway{
		restClient:        restClient,
		graphqlClient:     graphqlClient,
		limiter:           rate.NewLimiter(rate.Inf, 1),
		detailConcurrency: 2,
		authenticated:     true,
		logger:            logger,
	}

	return gateway, server
}

func TestGitHubGateway_FetchRepositories(t *testing.T) {
	testCases := []struct {
		name           string
		user           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       []domain.Repository
		expectError    bool
		expectedErr    error
		expectedErrMsg string
	}{
		{
			name: "happy path - lists repositories of a user across pages",
			user: "naka",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/naka/repos", r.URL.Path)
				assert.Equal(t, "updated", r.URL.Query().Get("sort"))
				w.Header().Set("Content-Type", "application/json")
				if r.URL.Query().Get("page") == "2" {
					fmt.Fprint(w, `[{"full_name": "naka/b", "stargazers_count": 1, "created_at": "2023-05-01T00:00:00Z"}]`)
					return
				}
				w.Header().Set("Link", fmt.Sprintf(`<http://%s/users/naka/repos?page=2>; rel="next"`, r.Host))
				fmt.Fprint(w, `[{"full_name": "naka/a", "language": "Go", "stargazers_count": 12, "created_at": "2020-01-02T03:04:05Z"}]`)
			},
			expected: []domain.Repository{
				{FullName: "naka/a", Language: "Go", Stars: 12, CreatedAt: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
				{FullName: "naka/b", Stars: 1, CreatedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name: "happy path - lists repositories of the authenticated user",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/user/repos", r.URL.Path)
				assert.Equal(t, "owner,collaborator", r.URL.Query().Get("affiliation"))
				fmt.Fprint(w, `[{"full_name": "me/private", "created_at": "2024-01-01T00:00:00Z"}]`)
			},
			expected: []domain.Repository{
				{FullName: "me/private", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name: "error case - user does not exist",
			user: "ghost",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectedErr:    domain.ErrNotFound,
			expectedErrMsg: "failed to list repositories",
		},
		{
			name: "error case - rate limit exhausted",
			user: "naka",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			},
			expectError:    true,
			expectedErr:    domain.ErrRateLimited,
			expectedErrMsg: "failed to list repositories",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			repos, err := gateway.FetchRepositories(context.Background(), tc.user)
			if tc.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, repos)
			}
		})
	}
}

func TestGitHubGateway_FetchRepositories_RateLimitDetails(t *testing.T) {
	reset := time.Now().Add(time.Hour).Truncate(time.Second)
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset.Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	}))
	defer server.Close()

	_, err := gateway.FetchRepositories(context.Background(), "naka")

	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 60, rle.Limit)
	assert.Equal(t, 0, rle.Remaining)
	assert.True(t, reset.Equal(rle.Reset))
}

func TestGitHubGateway_FetchCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/naka/app/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "naka", r.URL.Query().Get("author"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		assert.NotEmpty(t, r.URL.Query().Get("until"))
		fmt.Fprint(w, `[
			{"sha": "sha1", "commit": {"message": "feat: first", "author": {"date": "2024-03-01T10:00:00Z"}}},
			{"sha": "sha2", "commit": {"message": "fix: second", "author": {"date": "2024-03-02T10:00:00Z"}}}
		]`)
	})
	mux.HandleFunc("/repos/naka/app/commits/sha1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "sha1", "commit": {"message": "feat: first", "author": {"date": "2024-03-01T10:00:00Z"}},
			"stats": {"additions": 10, "deletions": 2, "total": 12},
			"files": [{"filename": "main.go", "additions": 10, "deletions": 2}]}`)
	})
	mux.HandleFunc("/repos/naka/app/commits/sha2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "Internal Server Error"}`)
	})
	gateway, server := setupTestGateway(t, mux)
	defer server.Close()

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	commits, err := gateway.FetchCommits(context.Background(), "naka/app", "naka", since, until)

	require.NoError(t, err)
	assert.Equal(t, []domain.Commit{
		{
			SHA:        "sha1",
			Message:    "feat: first",
			AuthoredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Stats:      &domain.CommitStats{Additions: 10, Deletions: 2},
			Files:      []domain.CommitFile{{Filename: "main.go", Additions: 10, Deletions: 2}},
			Repository: "naka/app",
		},
		{
			// Detail failed: the commit is kept without stats.
			SHA:        "sha2",
			Message:    "fix: second",
			AuthoredAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			Repository: "naka/app",
		},
	}, commits)
}

func TestGitHubGateway_FetchCommits_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		repo        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		expectedErr error
	}{
		{
			name: "empty repository yields no commits",
			repo: "naka/empty",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				fmt.Fprint(w, `{"message": "Git Repository is empty."}`)
			},
		},
		{
			name:        "malformed repository name",
			repo:        "not-a-full-name",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) { t.Error("no request expected") },
			expectedErr: domain.ErrInvalidArgument,
		},
		{
			name: "bad credentials",
			repo: "naka/app",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Bad credentials"}`)
			},
			expectedErr: domain.ErrUnauthorized,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			commits, err := gateway.FetchCommits(context.Background(), tc.repo, "", time.Time{}, time.Time{})
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Empty(t, commits)
		})
	}
}

func TestGitHubGateway_SearchFetches(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		switch q := r.URL.Query().Get("q"); q {
		case "author:naka type:pr":
			fmt.Fprint(w, `{"total_count": 2, "items": [
				{"created_at": "2024-02-01T00:00:00Z", "pull_request": {"merged_at": "2024-02-03T00:00:00Z"}},
				{"created_at": "2024-02-05T00:00:00Z", "pull_request": {}}
			]}`)
		case "author:naka type:issue":
			fmt.Fprint(w, `{"total_count": 2, "items": [
				{"created_at": "2024-04-01T00:00:00Z", "closed_at": "2024-04-01T05:00:00Z"},
				{"created_at": "2024-04-02T00:00:00Z"}
			]}`)
		default:
			t.Errorf("unexpected query %q", q)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	prs, err := gateway.FetchPullRequests(context.Background(), "naka")
	require.NoError(t, err)
	merged := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []domain.PullRequest{
		{CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MergedAt: &merged},
		{CreatedAt: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}, prs)

	issues, err := gateway.FetchIssues(context.Background(), "naka")
	require.NoError(t, err)
	closed := time.Date(2024, 4, 1, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, []domain.Issue{
		{CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), ClosedAt: &closed},
		{CreatedAt: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
	}, issues)
}

func TestGitHubGateway_FetchLogin(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		fmt.Fprint(w, `{"login": "naka"}`)
	}))
	defer server.Close()

	login, err := gateway.FetchLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "naka", login)
}

func TestGitHubGateway_FetchLogin_Anonymous(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a token")
	}))
	defer server.Close()
	gateway.authenticated = false

	_, err := gateway.FetchLogin(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestGitHubGateway_FetchContributionCalendar(t *testing.T) {
	testCases := []struct {
		name           string
		authenticated  bool
		status         int
		responseBody   string
		expected       []domain.ContributionDay
		expectedErr    error
		expectedErrMsg string
	}{
		{
			name:          "happy path",
			authenticated: true,
			responseBody: `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
				{"contributionDays":[{"date":"2024-01-01","contributionCount":3},{"date":"2024-01-02","contributionCount":0}]},
				{"contributionDays":[{"date":"2024-01-08","contributionCount":1}]}
			]}}}}}`,
			expected: []domain.ContributionDay{
				{Date: "2024-01-01", Count: 3},
				{Date: "2024-01-02", Count: 0},
				{Date: "2024-01-08", Count: 1},
			},
		},
		{
			name:           "error case - GraphQL error",
			authenticated:  true,
			responseBody:   `{"errors":[{"message":"Something went wrong while executing your query."}]}`,
			expectedErrMsg: "failed to execute GraphQL query for contribution calendar",
		},
		{
			name:          "error case - unknown user",
			authenticated: true,
			responseBody:  `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User with the login of 'naka'."}]}`,
			expectedErr:   domain.ErrNotFound,
		},
		{
			name:          "error case - bad credentials",
			authenticated: true,
			status:        http.StatusUnauthorized,
			responseBody:  `{"message":"Bad credentials","documentation_url":"https://docs.github.com/graphql"}`,
			expectedErr:   domain.ErrUnauthorized,
		},
		{
			name:          "error case - rate limited",
			authenticated: true,
			responseBody:  `{"errors":[{"type":"RATE_LIMITED","message":"API rate limit exceeded for user ID 1."}]}`,
			expectedErr:   domain.ErrRateLimited,
		},
		{
			name:          "error case - secondary rate limit status",
			authenticated: true,
			status:        http.StatusForbidden,
			responseBody:  `{"message":"You have exceeded a secondary rate limit."}`,
			expectedErr:   domain.ErrRateLimited,
		},
		{
			name:        "error case - anonymous gateway",
			expectedErr: domain.ErrAuthRequired,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "contributionsCollection")
				assert.Contains(t, string(body), `"login":"naka"`)
				status := tc.status
				if status == 0 {
					status = http.StatusOK
				}
				w.WriteHeader(status)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()
			gateway.authenticated = tc.authenticated

			days, err := gateway.FetchContributionCalendar(context.Background(), "naka", 2024)
			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
				if errors.Is(tc.expectedErr, domain.ErrRateLimited) {
					var rateLimitErr *domain.RateLimitError
					assert.ErrorAs(t, err, &rateLimitErr)
				}
			case tc.expectedErrMsg != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, days)
			}
		})
	}
}

func TestNewGitHubGateway_SharedPacer(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	pacer, err := NewPacer(2, logger)
	require.NoError(t, err)
	assert.Equal(t, rate.Limit(2), pacer.limiter.Limit())

	first, err := NewGitHubGateway("token-a", logger, Options{Pacer: pacer})
	require.NoError(t, err)
	second, err := NewGitHubGateway("", logger, Options{Pacer: pacer})
	require.NoError(t, err)
	assert.Same(t, first.(*GitHubGateway).limiter, second.(*GitHubGateway).limiter)

	own, err := NewGitHubGateway("token-a", logger, Options{RequestsPerSecond: 2})
	require.NoError(t, err)
	assert.NotSame(t, first.(*GitHubGateway).limiter, own.(*GitHubGateway).limiter)

	unlimited, err := NewPacer(0, logger)
	require.NoError(t, err)
	assert.Equal(t, rate.Inf, unlimited.limiter.Limit())
}
