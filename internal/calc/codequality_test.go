package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

func TestAdditionDeletionRatio(t *testing.T) {
	testCases := []struct {
		name      string
		additions int
		deletions int
		expected  float64
	}{
		{name: "only additions", additions: 100, deletions: 0, expected: math.Inf(1)},
		{name: "nothing changed", additions: 0, deletions: 0, expected: 0},
		{name: "regular ratio", additions: 50, deletions: 25, expected: 2.0},
		{name: "only deletions", additions: 0, deletions: 10, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, float64(AdditionDeletionRatio(tc.additions, tc.deletions)))
		})
	}
}

func TestCodeQuality(t *testing.T) {
	commits := []domain.Commit{
		{
			Stats: &domain.CommitStats{Additions: 30, Deletions: 10},
			Files: []domain.CommitFile{
				{Filename: "main.go"},
				{Filename: "README.md"},
				{Filename: "Makefile"},
				{Filename: "package-lock.json"},
			},
		},
		{
			Stats: &domain.CommitStats{Additions: 20, Deletions: 0},
			Files: []domain.CommitFile{
				{Filename: "main.go"},
				{Filename: "cmd/root.go"},
				{Filename: "web/App.TSX"},
				{Filename: "web/.dockerignore"},
			},
		},
		{Stats: &domain.CommitStats{Additions: 1, Deletions: 5}},
	}
	additions, deletions := LineTotals(commits)

	got := CodeQuality(commits, additions, deletions)

	assert.InDelta(t, 22.0, got.AverageCommitSize, 1e-9)
	assert.InDelta(t, 51.0/15, float64(got.AdditionDeletionRatio), 1e-9)
	assert.Equal(t, 7, got.TotalFilesModified)
	require.Len(t, got.TopFileExtensions, 2)
	assert.Equal(t, domain.ExtensionCount{Extension: "go", Count: 3, Percentage: 75}, got.TopFileExtensions[0])
	assert.Equal(t, domain.ExtensionCount{Extension: "tsx", Count: 1, Percentage: 25}, got.TopFileExtensions[1])
}

func TestCodeQuality_NoCommits(t *testing.T) {
	got := CodeQuality(nil, 0, 0)
	assert.Zero(t, got.AverageCommitSize)
	assert.Zero(t, got.AdditionDeletionRatio)
	assert.Zero(t, got.TotalFilesModified)
	assert.Empty(t, got.TopFileExtensions)
}

func TestFileExtension(t *testing.T) {
	testCases := map[string]string{
		"main.go":          "go",
		"src/Index.HTML":   "html",
		"yarn.lock":        "",
		"notes.txt":        "",
		"CHANGELOG.md":     "",
		".github/ci.yml":   "",
		"config.yaml":      "",
		"tsconfig.json":    "",
		"Dockerfile":       "",
		"archive.tar.gz":   "gz",
		"schema.graphql":   "",
		"v1.2/binary":      "",
		"styles/site.scss": "scss",
	}
	for filename, expected := range testCases {
		t.Run(filename, func(t *testing.T) {
			assert.Equal(t, expected, fileExtension(filename))
		})
	}
}

func TestRatio_JSON(t *testing.T) {
	data, err := json.Marshal(domain.CodeQualityStats{AdditionDeletionRatio: AdditionDeletionRatio(5, 0)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"addition_deletion_ratio":"Infinity"`)

	var decoded domain.CodeQualityStats
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, math.IsInf(float64(decoded.AdditionDeletionRatio), 1))

	data, err = json.Marshal(AdditionDeletionRatio(50, 25))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}
