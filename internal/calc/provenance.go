package calc

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// Provenance classifies the year's contributions.
//
// prs, issues and commits are expected to be filtered to year already. repos is
// the user's full repository list: it decides which commits went to the user's
// own repositories.
func (c *Calculator) Provenance(prs []domain.PullRequest, issues []domain.Issue, repos []domain.Repository, year int, commits []domain.Commit) domain.ContributionStats {
	own := make(map[string]struct{}, len(repos))
	for _, r := range repos {
		own[strings.ToLower(r.FullName)] = struct{}{}
	}

	var ownCount, openSource int
	for _, cm := range commits {
		if cm.Repository == "" {
			continue
		}
		if _, ok := own[strings.ToLower(cm.Repository)]; ok {
			ownCount++
		} else {
			openSource++
		}
	}

	return domain.ContributionStats{
		TopStarredRepos:            c.topStarred(repos, year),
		OpenSourceContributions:    openSource,
		OwnReposContributions:      ownCount,
		PRMergeRate:                MergeRate(len(prs), countMergedPRs(prs)),
		AverageIssueResolutionTime: averageResolutionHours(issues),
		NewReposCreated:            c.reposCreatedIn(repos, year),
	}
}

// MergeRate returns the percentage of merged pull requests, 0 without pull requests.
func MergeRate(total, merged int) float64 {
	return percentage(merged, total)
}

// topStarred ranks the repositories that existed during year by stars.
func (c *Calculator) topStarred(repos []domain.Repository, year int) []domain.StarredRepo {
	existing := filter(repos, func(r domain.Repository) bool {
		return c.local(r.CreatedAt).Year() <= year
	})
	sort.SliceStable(existing, func(i, j int) bool {
		return existing[i].Stars > existing[j].Stars
	})
	if len(existing) > topN {
		existing = existing[:topN]
	}

	out := make([]domain.StarredRepo, 0, len(existing))
	for _, r := range existing {
		out = append(out, domain.StarredRepo{Name: r.FullName, Stars: r.Stars})
	}
	return out
}

func (c *Calculator) reposCreatedIn(repos []domain.Repository, year int) int {
	n := 0
	for _, r := range repos {
		if c.inYear(r.CreatedAt, year) {
			n++
		}
	}
	return n
}

func averageResolutionHours(issues []domain.Issue) float64 {
	var hours []float64
	for _, is := range issues {
		if is.ClosedAt != nil {
			hours = append(hours, is.ClosedAt.Sub(is.CreatedAt).Hours())
		}
	}
	mean, err := stats.Mean(hours)
	if err != nil {
		return 0
	}
	return mean
}
