package calc

import "github.com/naka-gawa/github-wrapped/internal/domain"

// Monthly computes the statistics of one month. month is the zero-based month index.
// The activity collections are filtered to the month here, the repository list is not:
// languages describe the whole repository snapshot.
func (c *Calculator) Monthly(year, month int, commits []domain.Commit, prs []domain.PullRequest, issues []domain.Issue, repos []domain.Repository) domain.MonthlyStats {
	monthCommits := filter(commits, func(cm domain.Commit) bool { return c.inMonth(cm.AuthoredAt, year, month) })
	monthPRs := filter(prs, func(pr domain.PullRequest) bool { return c.inMonth(pr.CreatedAt, year, month) })
	monthIssues := filter(issues, func(is domain.Issue) bool { return c.inMonth(is.CreatedAt, year, month) })

	additions, deletions := LineTotals(monthCommits)

	return domain.MonthlyStats{
		Month:              month,
		Year:               year,
		Commits:            len(monthCommits),
		Additions:          additions,
		Deletions:          deletions,
		PullRequests:       len(monthPRs),
		PullRequestsMerged: countMergedPRs(monthPRs),
		Issues:             len(monthIssues),
		IssuesClosed:       countClosedIssues(monthIssues),
		Repositories:       monthRepositories(monthCommits, repos),
		Languages:          languageCounts(repos).counts,
		ActiveDays:         c.ActiveDays(monthCommits),
	}
}

// monthRepositories ranks repositories by commit count in the month.
// NOTE: when no commit carries a repository, every distinct repository is
// returned without the top 10 cap. Kept as is; the month view lists them all.
// Both branches use owner/name full names, not short names, so that forks and
// same-named repositories of different owners stay distinct.
func monthRepositories(commits []domain.Commit, repos []domain.Repository) []string {
	byRepo := repoCommitTally(commits)
	if byRepo.len() > 0 {
		names := make([]string, 0, topN)
		for _, e := range byRepo.top(topN) {
			names = append(names, e.key)
		}
		return names
	}

	seen := make(map[string]struct{}, len(repos))
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		if _, ok := seen[r.FullName]; ok {
			continue
		}
		seen[r.FullName] = struct{}{}
		names = append(names, r.FullName)
	}
	return names
}

func repoCommitTally(commits []domain.Commit) *tally {
	t := newTally()
	for _, cm := range commits {
		if cm.Repository != "" {
			t.add(cm.Repository, 1)
		}
	}
	return t
}

func languageCounts(repos []domain.Repository) *tally {
	t := newTally()
	for _, r := range repos {
		if r.Language != "" {
			t.add(r.Language, 1)
		}
	}
	return t
}
