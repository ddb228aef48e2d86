package calc

import "github.com/naka-gawa/github-wrapped/internal/domain"

// Yearly computes the statistics of one calendar year.
//
// The commits, pull requests and issues may span any period; they are filtered
// to year here. The repository list is used as a whole.
func (c *Calculator) Yearly(year int, commits []domain.Commit, prs []domain.PullRequest, issues []domain.Issue, repos []domain.Repository) domain.YearlyStats {
	yearCommits := c.FilterCommitsByYear(commits, year)
	yearPRs := c.FilterPullRequestsByYear(prs, year)
	yearIssues := c.FilterIssuesByYear(issues, year)

	additions, deletions := LineTotals(yearCommits)

	monthly := make([]domain.MonthlyStats, 12)
	for m := range monthly {
		monthly[m] = c.Monthly(year, m, commits, prs, issues, repos)
	}

	return domain.YearlyStats{
		Year:                    year,
		TotalCommits:            len(yearCommits),
		TotalAdditions:          additions,
		TotalDeletions:          deletions,
		TotalPullRequests:       len(yearPRs),
		TotalPullRequestsMerged: countMergedPRs(yearPRs),
		TotalIssues:             len(yearIssues),
		TotalIssuesClosed:       countClosedIssues(yearIssues),
		TopLanguages:            TopLanguages(repos),
		TopRepositories:         TopRepositories(yearCommits),
		MonthlyStats:            monthly,
		MostActiveMonth:         MostActiveMonth(monthly),
		ActiveDays:              c.ActiveDays(yearCommits),
		TimeStats:               c.TimePatterns(yearCommits),
		CodeQualityStats:        CodeQuality(yearCommits, additions, deletions),
		ContributionStats:       c.Provenance(yearPRs, yearIssues, repos, year, yearCommits),
		FunStats:                Fun(yearCommits),
		ContributionHeatmap:     c.Heatmap(year, yearCommits),
		HourlyDistribution:      c.HourlyDistribution(yearCommits),
		WeeklyDistribution:      c.WeeklyDistribution(yearCommits),
	}
}

// TopLanguages returns the ten most used languages across repos. The percentage
// is relative to the number of repositories that declare a language.
func TopLanguages(repos []domain.Repository) []domain.LanguageCount {
	langs := languageCounts(repos)
	tagged := langs.total()

	out := make([]domain.LanguageCount, 0, topN)
	for _, e := range langs.top(topN) {
		out = append(out, domain.LanguageCount{
			Name:       e.key,
			Count:      e.count,
			Percentage: percentage(e.count, tagged),
		})
	}
	return out
}

// TopRepositories returns the ten repositories with the most commits.
// Commits without a repository are ignored.
func TopRepositories(commits []domain.Commit) []domain.RepoCommits {
	out := make([]domain.RepoCommits, 0, topN)
	for _, e := range repoCommitTally(commits).top(topN) {
		out = append(out, domain.RepoCommits{Name: e.key, Commits: e.count})
	}
	return out
}

// MostActiveMonth returns the index of the month with the most commits.
// Ties go to the earliest month.
func MostActiveMonth(months []domain.MonthlyStats) int {
	best := 0
	for i := range months {
		if months[i].Commits > months[best].Commits {
			best = i
		}
	}
	return best
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
