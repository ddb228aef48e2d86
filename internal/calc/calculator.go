// Package calc is the statistics aggregation engine. It turns already fetched
// GitHub activity into monthly and yearly statistics.
//
// Every computation is a pure function of its arguments: nothing is fetched,
// logged or cached, and a Calculator can be shared between goroutines.
// Calendar fields (year, month, day, hour, weekday) are evaluated in the
// Calculator's location.
package calc

import (
	"time"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	topN       = 10
)

// Calculator computes statistics in a fixed time zone.
type Calculator struct {
	loc *time.Location
}

// New creates a Calculator evaluating calendar fields in loc.
// A nil loc means time.Local.
func New(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{loc: loc}
}

// Location returns the time zone of the calculator.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

func (c *Calculator) local(t time.Time) time.Time {
	return t.In(c.loc)
}

func (c *Calculator) dateKey(t time.Time) string {
	return c.local(t).Format(dateLayout)
}

func (c *Calculator) inYear(t time.Time, year int) bool {
	return c.local(t).Year() == year
}

func (c *Calculator) inMonth(t time.Time, year, month int) bool {
	lt := c.local(t)
	return lt.Year() == year && int(lt.Month())-1 == month
}

// FilterCommitsByYear returns the commits authored during year.
func (c *Calculator) FilterCommitsByYear(commits []domain.Commit, year int) []domain.Commit {
	return filter(commits, func(cm domain.Commit) bool { return c.inYear(cm.AuthoredAt, year) })
}

// FilterPullRequestsByYear returns the pull requests created during year.
func (c *Calculator) FilterPullRequestsByYear(prs []domain.PullRequest, year int) []domain.PullRequest {
	return filter(prs, func(pr domain.PullRequest) bool { return c.inYear(pr.CreatedAt, year) })
}

// FilterIssuesByYear returns the issues created during year.
func (c *Calculator) FilterIssuesByYear(issues []domain.Issue, year int) []domain.Issue {
	return filter(issues, func(is domain.Issue) bool { return c.inYear(is.CreatedAt, year) })
}

// LineTotals sums the additions and deletions of commits. Commits without stats count as zero.
func LineTotals(commits []domain.Commit) (additions, deletions int) {
	for _, cm := range commits {
		if cm.Stats == nil {
			continue
		}
		additions += cm.Stats.Additions
		deletions += cm.Stats.Deletions
	}
	return additions, deletions
}

// ActiveDays returns the number of distinct calendar days with at least one commit.
func (c *Calculator) ActiveDays(commits []domain.Commit) int {
	days := make(map[string]struct{}, len(commits))
	for _, cm := range commits {
		days[c.dateKey(cm.AuthoredAt)] = struct{}{}
	}
	return len(days)
}

func countMergedPRs(prs []domain.PullRequest) int {
	n := 0
	for _, pr := range prs {
		if pr.Merged() {
			n++
		}
	}
	return n
}

func countClosedIssues(issues []domain.Issue) int {
	n := 0
	for _, is := range issues {
		if is.Closed() {
			n++
		}
	}
	return n
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
