// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-wrapped/internal/calc"
	"github.com/naka-gawa/github-wrapped/internal/domain"
	"github.com/naka-gawa/github-wrapped/internal/gateway"
)

// ProgressFunc receives progress reports. total is 0 when unknown.
// Calls are serialized.
type ProgressFunc func(current, total int, message string)

// PartialFunc receives statistics as they become available.
type PartialFunc func(domain.PartialYearlyStats)

// Settings bounds the amount of work done for one request.
type Settings struct {
	// MaxRepos is the number of repositories whose commits are fetched.
	MaxRepos int
	// CommitConcurrency is the number of repositories fetched at the same time.
	CommitConcurrency int
}

// YearlyRequest asks for the statistics of a year. An empty User means the authenticated user.
type YearlyRequest struct {
	User     string
	Year     int
	Progress ProgressFunc
	Partial  PartialFunc
}

// MonthlyRequest asks for the statistics of a month. Month is 1 to 12.
type MonthlyRequest struct {
	User     string
	Year     int
	Month    int
	Progress ProgressFunc
}

// activity is everything fetched for one period.
type activity struct {
	repos   []domain.Repository
	commits []domain.Commit
	prs     []domain.PullRequest
	issues  []domain.Issue
}

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching of data and hands it to the calculator.
type Aggregator struct {
	fetcher    gateway.Fetcher
	calculator *calc.Calculator
	settings   Settings
	logger     *logrus.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, calculator *calc.Calculator, settings Settings, logger *logrus.Logger) *Aggregator {
	if settings.MaxRepos <= 0 {
		settings.MaxRepos = 50
	}
	if settings.CommitConcurrency <= 0 {
		settings.CommitConcurrency = 1
	}
	return &Aggregator{
		fetcher:    fetcher,
		calculator: calculator,
		settings:   settings,
		logger:     logger,
	}
}

// Yearly fetches the user's activity of a year and computes its statistics.
// Totals are reported through req.Partial as soon as the commits are known,
// the complete statistics once everything is fetched.
func (a *Aggregator) Yearly(ctx context.Context, req YearlyRequest) (domain.YearlyStats, error) {
	a.logger.WithField("year", req.Year).Info("Usecase: Starting yearly aggregation...")
	progress := a.progressOrLog(req.Progress)

	user, err := a.resolveUser(ctx, req.User)
	if err != nil {
		return domain.YearlyStats{}, err
	}

	loc := a.calculator.Location()
	since := time.Date(req.Year, time.January, 1, 0, 0, 0, 0, loc)
	until := time.Date(req.Year, time.December, 31, 23, 59, 59, 0, loc)

	repos, commits, err := a.fetchReposAndCommits(ctx, req.User, user, since, until, progress)
	if err != nil {
		return domain.YearlyStats{}, err
	}

	yearCommits := a.calculator.FilterCommitsByYear(commits, req.Year)
	if req.Partial != nil {
		req.Partial(a.basicStats(req.Year, yearCommits))
	}

	progress(0, 0, "Fetching pull requests and issues...")
	prs, issues, err := a.fetchPRsAndIssues(ctx, user)
	if err != nil {
		return domain.YearlyStats{}, err
	}

	stats := a.calculator.Yearly(req.Year, yearCommits, prs, issues, repos)
	if req.Partial != nil {
		req.Partial(domain.PartialFromYearly(stats))
	}
	a.logger.WithFields(logrus.Fields{
		"year":    req.Year,
		"commits": stats.TotalCommits,
	}).Info("Usecase: Aggregation complete.")
	return stats, nil
}

// Monthly fetches the user's activity of a month and computes its statistics.
func (a *Aggregator) Monthly(ctx context.Context, req MonthlyRequest) (domain.MonthlyStats, error) {
	if req.Month < 1 || req.Month > 12 {
		return domain.MonthlyStats{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", domain.ErrInvalidArgument, req.Month)
	}
	a.logger.WithFields(logrus.Fields{"year": req.Year, "month": req.Month}).Info("Usecase: Starting monthly aggregation...")
	progress := a.progressOrLog(req.Progress)

	user, err := a.resolveUser(ctx, req.User)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	loc := a.calculator.Location()
	since := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, loc)
	until := since.AddDate(0, 1, 0).Add(-time.Second)

	repos, commits, err := a.fetchReposAndCommits(ctx, req.User, user, since, until, progress)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	progress(0, 0, "Fetching pull requests and issues...")
	prs, issues, err := a.fetchPRsAndIssues(ctx, user)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	return a.calculator.Monthly(req.Year, req.Month-1, commits, prs, issues, repos), nil
}

// Calendar returns GitHub's own contribution calendar of year as heatmap days.
func (a *Aggregator) Calendar(ctx context.Context, user string, year int) ([]domain.HeatmapDay, error) {
	user, err := a.resolveUser(ctx, user)
	if err != nil {
		return nil, err
	}
	days, err := a.fetcher.FetchContributionCalendar(ctx, user, year)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(days))
	for _, d := range days {
		counts[d.Date] += d.Count
	}
	return calc.HeatmapFromCounts(year, counts), nil
}

func (a *Aggregator) resolveUser(ctx context.Context, user string) (string, error) {
	if user != "" {
		return user, nil
	}
	login, err := a.fetcher.FetchLogin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}
	return login, nil
}

// fetchReposAndCommits lists the repositories, then the commits of the first
// MaxRepos of them. reposOf is the user whose repositories are listed (empty for
// the authenticated user), author the login commits are filtered on.
// Commits keep the order of their repositories.
func (a *Aggregator) fetchReposAndCommits(ctx context.Context, reposOf, author string, since, until time.Time, progress ProgressFunc) ([]domain.Repository, []domain.Commit, error) {
	progress(0, 0, "Fetching repositories...")
	repos, err := a.fetcher.FetchRepositories(ctx, reposOf)
	if err != nil {
		return nil, nil, err
	}
	progress(len(repos), len(repos), fmt.Sprintf("Repositories fetched: %d", len(repos)))

	toProcess := repos
	if len(toProcess) > a.settings.MaxRepos {
		toProcess = toProcess[:a.settings.MaxRepos]
	}

	perRepo := make([][]domain.Commit, len(toProcess))
	var mu sync.Mutex
	done := 0
	report := func(message string) {
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(done, len(toProcess), message)
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.settings.CommitConcurrency)
	for i, repo := range toProcess {
		eg.Go(func() error {
			commits, err := a.fetcher.FetchCommits(egCtx, repo.FullName, author, since, until)
			if err != nil {
				if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUnauthorized) || egCtx.Err() != nil {
					return err
				}
				a.logger.WithError(err).WithField("repository", repo.FullName).Warn("Skipping repository")
				report(fmt.Sprintf("Error for %s", repo.FullName))
				return nil
			}
			perRepo[i] = commits
			report(fmt.Sprintf("%s: %d commits fetched", repo.FullName, len(commits)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	var commits []domain.Commit
	for _, c := range perRepo {
		commits = append(commits, c...)
	}
	a.logger.WithField("commits", len(commits)).Info("Usecase: Commits fetched successfully.")
	return repos, commits, nil
}

// fetchPRsAndIssues fetches pull requests and issues concurrently.
func (a *Aggregator) fetchPRsAndIssues(ctx context.Context, user string) ([]domain.PullRequest, []domain.Issue, error) {
	var prs []domain.PullRequest
	var issues []domain.Issue

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		prs, err = a.fetcher.FetchPullRequests(egCtx, user)
		return err
	})
	eg.Go(func() error {
		var err error
		issues, err = a.fetcher.FetchIssues(egCtx, user)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return prs, issues, nil
}

// basicStats is the first partial result: what the commits alone tell.
func (a *Aggregator) basicStats(year int, yearCommits []domain.Commit) domain.PartialYearlyStats {
	additions, deletions := calc.LineTotals(yearCommits)
	total := len(yearCommits)
	activeDays := a.calculator.ActiveDays(yearCommits)
	return domain.PartialYearlyStats{
		Year:           &year,
		TotalCommits:   &total,
		TotalAdditions: &additions,
		TotalDeletions: &deletions,
		ActiveDays:     &activeDays,
	}
}

// progressOrLog returns fn, or a reporter writing to the debug log when fn is nil.
func (a *Aggregator) progressOrLog(fn ProgressFunc) ProgressFunc {
	if fn != nil {
		return fn
	}
	return func(current, total int, message string) {
		a.logger.WithFields(logrus.Fields{"current": current, "total": total}).Debug(message)
	}
}
