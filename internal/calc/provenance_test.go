package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

func TestMergeRate(t *testing.T) {
	assert.Zero(t, MergeRate(0, 0))
	assert.InDelta(t, 25.0, MergeRate(4, 1), 1e-9)
	assert.InDelta(t, 100.0, MergeRate(3, 3), 1e-9)
}

func TestCalculator_Provenance(t *testing.T) {
	c := New(time.UTC)
	created := mustTime(t, "2024-04-01T00:00:00Z")
	closedAfter2h := created.Add(2 * time.Hour)
	closedAfter4h := created.Add(4 * time.Hour)
	merged := mustTime(t, "2024-04-02T00:00:00Z")

	repos := []domain.Repository{
		{FullName: "Naka/alpha", Stars: 5, CreatedAt: mustTime(t, "2020-01-01T00:00:00Z")},
		{FullName: "naka/beta", Stars: 50, CreatedAt: mustTime(t, "2024-02-01T00:00:00Z")},
		{FullName: "naka/gamma", Stars: 100, CreatedAt: mustTime(t, "2025-02-01T00:00:00Z")},
	}
	commits := []domain.Commit{
		{Repository: "naka/ALPHA"},
		{Repository: "other/lib"},
		{Repository: "other/lib"},
		{},
	}
	prs := []domain.PullRequest{
		{CreatedAt: created, MergedAt: &merged},
		{CreatedAt: created},
		{CreatedAt: created},
		{CreatedAt: created},
	}
	issues := []domain.Issue{
		{CreatedAt: created, ClosedAt: &closedAfter2h},
		{CreatedAt: created, ClosedAt: &closedAfter4h},
		{CreatedAt: created},
	}

	got := c.Provenance(prs, issues, repos, 2024, commits)

	assert.Equal(t, []domain.StarredRepo{
		{Name: "naka/beta", Stars: 50},
		{Name: "Naka/alpha", Stars: 5},
	}, got.TopStarredRepos)
	assert.Equal(t, 1, got.OwnReposContributions)
	assert.Equal(t, 2, got.OpenSourceContributions)
	assert.InDelta(t, 25.0, got.PRMergeRate, 1e-9)
	assert.InDelta(t, 3.0, got.AverageIssueResolutionTime, 1e-9)
	assert.Equal(t, 1, got.NewReposCreated)
}

func TestCalculator_Provenance_Empty(t *testing.T) {
	got := New(time.UTC).Provenance(nil, nil, nil, 2024, nil)
	assert.Empty(t, got.TopStarredRepos)
	assert.Zero(t, got.PRMergeRate)
	assert.Zero(t, got.AverageIssueResolutionTime)
	assert.Zero(t, got.OwnReposContributions)
	assert.Zero(t, got.OpenSourceContributions)
}

func TestCalculator_Provenance_TopStarredCap(t *testing.T) {
	var repos []domain.Repository
	for i := 0; i < 15; i++ {
		repos = append(repos, domain.Repository{
			FullName:  string(rune('a'+i)) + "/repo",
			Stars:     i,
			CreatedAt: mustTime(t, "2021-01-01T00:00:00Z"),
		})
	}
	got := New(time.UTC).Provenance(nil, nil, repos, 2024, nil)
	assert.Len(t, got.TopStarredRepos, 10)
	assert.Equal(t, 14, got.TopStarredRepos[0].Stars)
	assert.Equal(t, 5, got.TopStarredRepos[9].Stars)
	// The input order is left untouched.
	assert.Equal(t, "a/repo", repos[0].FullName)
}
