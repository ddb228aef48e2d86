// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

const perPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchLogin(ctx context.Context) (string, error)
	// FetchRepositories lists the repositories of user, or of the authenticated user when user is empty.
	FetchRepositories(ctx context.Context, user string) ([]domain.Repository, error)
	// FetchCommits lists the commits of a repository (owner/name) authored by author
	// between since and until, each enriched with its stats and changed files.
	FetchCommits(ctx context.Context, repoFullName, author string, since, until time.Time) ([]domain.Commit, error)
	FetchPullRequests(ctx context.Context, user string) ([]domain.PullRequest, error)
	FetchIssues(ctx context.Context, user string) ([]domain.Issue, error)
	FetchContributionCalendar(ctx context.Context, user string, year int) ([]domain.ContributionDay, error)
}

// Options tunes the request rate of the gateway.
type Options struct {
	// RequestsPerSecond caps REST requests issued by the gateway. Ignored when Pacer is set.
	RequestsPerSecond float64
	// Pacer is shared by gateways whose requests are paced together.
	Pacer *Pacer
	// DetailConcurrency is the number of commit detail requests in flight per repository.
	DetailConcurrency int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient        *github.Client
	graphqlClient     *githubv4.Client
	limiter           *rate.Limiter
	detailConcurrency int
	authenticated     bool
	logger            *logrus.Logger
}

// contributionCalendarQuery fetches the contribution calendar of a user.
type contributionCalendarQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// Pacer paces the requests of every gateway built with it: a client-side
// request rate and a waiter sleeping through GitHub's secondary rate limits.
type Pacer struct {
	limiter   *rate.Limiter
	transport http.RoundTripper
}

// NewPacer creates a Pacer allowing requestsPerSecond REST requests, unlimited when not positive.
func NewPacer(requestsPerSecond float64, logger *logrus.Logger) (*Pacer, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil),
		github_ratelimit.WithLimitDetectedCallback(func(cbCtx *github_ratelimit.CallbackContext) {
			logger.WithField("sleep_until", cbCtx.SleepUntil).Warn("Secondary rate limit detected, waiting")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Pacer{
		limiter:   rate.NewLimiter(limit, 1),
		transport: rateLimitWaiter,
	}, nil
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token makes anonymous requests, which GitHub limits to 60 per hour
// and which cannot use the GraphQL API.
func NewGitHubGateway(token string, logger *logrus.Logger, opts Options) (Fetcher, error) {
	pacer := opts.Pacer
	if pacer == nil {
		var err error
		if pacer, err = NewPacer(opts.RequestsPerSecond, logger); err != nil {
			return nil, err
		}
	}

	transport := pacer.transport
	if token != "" {
		transport = &oauth2.Transport{
			Base:   pacer.transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	detailConcurrency := opts.DetailConcurrency
	if detailConcurrency <= 0 {
		detailConcurrency = 1
	}

	return &GitHubGateway{
		restClient:        github.NewClient(httpClient),
		graphqlClient:     githubv4.NewClient(httpClient),
		limiter:           pacer.limiter,
		detailConcurrency: detailConcurrency,
		authenticated:     token != "",
		logger:            logger,
	}, nil
}

// FetchLogin returns the login of the authenticated user.
func (g *GitHubGateway) FetchLogin(ctx context.Context) (string, error) {
	if !g.authenticated {
		return "", fmt.Errorf("authenticated user: %w", domain.ErrAuthRequired)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", classify(err))
	}
	return user.GetLogin(), nil
}

func (g *GitHubGateway) FetchRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	list := func(page int) ([]*github.Repository, *github.Response, error) {
		listOpts := github.ListOptions{PerPage: perPage, Page: page}
		if user == "" {
			return g.restClient.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
				Affiliation: "owner,collaborator",
				Sort:        "updated",
				ListOptions: listOpts,
			})
		}
		return g.restClient.Repositories.ListByUser(ctx, user, &github.RepositoryListByUserOptions{
			Sort:        "updated",
			ListOptions: listOpts,
		})
	}

	var repos []domain.Repository
	for page := 1; ; {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		result, resp, err := list(page)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", classify(err))
		}
		for _, r := range result {
			repos = append(repos, domain.Repository{
				FullName:  r.GetFullName(),
				Language:  r.GetLanguage(),
				Stars:     r.GetStargazersCount(),
				CreatedAt: r.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
		g.logger.WithField("page", page).Debug("Fetching next page of repositories...")
	}
	return repos, nil
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, repoFullName, author string, since, until time.Time) ([]domain.Commit, error) {
	owner, name, ok := strings.Cut(repoFullName, "/")
	if !ok {
		return nil, fmt.Errorf("%w: repository %q is not owner/name", domain.ErrInvalidArgument, repoFullName)
	}

	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var listed []*github.RepositoryCommit
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		result, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			if isEmptyRepository(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list commits of %s: %w", repoFullName, classify(err))
		}
		listed = append(listed, result...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.WithField("repository", repoFullName).Debug("Fetching next page of commits...")
	}

	// The list endpoint carries no stats or files, each commit is fetched again for them.
	commits := make([]domain.Commit, len(listed))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.detailConcurrency)
	for i, rc := range listed {
		commits[i] = toCommit(rc, repoFullName)
		eg.Go(func() error {
			if err := g.limiter.Wait(egCtx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			detail, _, err := g.restClient.Repositories.GetCommit(egCtx, owner, name, rc.GetSHA(), nil)
			if err != nil {
				err = classify(err)
				if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnauthorized) {
					return fmt.Errorf("failed to get commit %s: %w", rc.GetSHA(), err)
				}
				g.logger.WithError(err).WithFields(logrus.Fields{
					"repository": repoFullName,
					"sha":        rc.GetSHA(),
				}).Warn("Could not fetch commit detail, keeping it without stats")
				return nil
			}
			commits[i] = toCommit(detail, repoFullName)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

func (g *GitHubGateway) FetchPullRequests(ctx context.Context, user string) ([]domain.PullRequest, error) {
	var prs []domain.PullRequest
	err := g.searchIssues(ctx, fmt.Sprintf("author:%s type:pr", user), func(is *github.Issue) {
		pr := domain.PullRequest{CreatedAt: is.GetCreatedAt().Time}
		if mergedAt := is.GetPullRequestLinks().GetMergedAt(); !mergedAt.IsZero() {
			pr.MergedAt = &mergedAt.Time
		}
		prs = append(prs, pr)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}
	return prs, nil
}

func (g *GitHubGateway) FetchIssues(ctx context.Context, user string) ([]domain.Issue, error) {
	var issues []domain.Issue
	err := g.searchIssues(ctx, fmt.Sprintf("author:%s type:issue", user), func(is *github.Issue) {
		issue := domain.Issue{CreatedAt: is.GetCreatedAt().Time}
		if closedAt := is.GetClosedAt(); !closedAt.IsZero() {
			issue.ClosedAt = &closedAt.Time
		}
		issues = append(issues, issue)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	return issues, nil
}

// searchIssues pages through the issue search API, which returns at most 1000 results.
func (g *GitHubGateway) searchIssues(ctx context.Context, query string, visit func(*github.Issue)) error {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		result, resp, err := g.restClient.Search.Issues(ctx, query, opts)
		if err != nil {
			return classify(err)
		}
		for _, is := range result.Issues {
			visit(is)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.WithField("query", query).Debug("Fetching next page of search results...")
	}
	return nil
}

// FetchContributionCalendar fetches GitHub's contribution calendar of user for year.
func (g *GitHubGateway) FetchContributionCalendar(ctx context.Context, user string, year int) ([]domain.ContributionDay, error) {
	if !g.authenticated {
		return nil, fmt.Errorf("contribution calendar: %w", domain.ErrAuthRequired)
	}
	variables := map[string]interface{}{
		"login": githubv4.String(user),
		"from":  githubv4.DateTime{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)},
		"to":    githubv4.DateTime{Time: time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)},
	}
	var q contributionCalendarQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for contribution calendar: %w", classifyGraphQL(err))
	}

	var days []domain.ContributionDay
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, d := range week.ContributionDays {
			days = append(days, domain.ContributionDay{Date: d.Date, Count: d.ContributionCount})
		}
	}
	return days, nil
}

func toCommit(rc *github.RepositoryCommit, repoFullName string) domain.Commit {
	c := domain.Commit{
		SHA:        rc.GetSHA(),
		Message:    rc.GetCommit().GetMessage(),
		AuthoredAt: rc.GetCommit().GetAuthor().GetDate().Time,
		Repository: repoFullName,
	}
	if rc.Stats != nil {
		c.Stats = &domain.CommitStats{
			Additions: rc.Stats.GetAdditions(),
			Deletions: rc.Stats.GetDeletions(),
		}
	}
	if rc.Files != nil {
		c.Files = make([]domain.CommitFile, 0, len(rc.Files))
		for _, f := range rc.Files {
			c.Files = append(c.Files, domain.CommitFile{
				Filename:  f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
	}
	return c
}
