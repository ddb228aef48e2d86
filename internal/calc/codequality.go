package calc

import (
	"math"
	"path"
	"strings"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// maxExtensionLength drops long suffixes that are not really extensions (e.g. "dockerignore").
const maxExtensionLength = 5

var ignoredExtensions = map[string]bool{
	"lock": true,
	"txt":  true,
	"md":   true,
	"json": true,
	"yml":  true,
	"yaml": true,
}

// CodeQuality computes commit size and file statistics. additions and deletions
// are the line totals of commits, as returned by LineTotals.
// Only commits carrying file detail contribute to the file figures.
func CodeQuality(commits []domain.Commit, additions, deletions int) domain.CodeQualityStats {
	if len(commits) == 0 {
		return domain.CodeQualityStats{TopFileExtensions: []domain.ExtensionCount{}}
	}

	files := make(map[string]struct{})
	exts := newTally()
	for _, cm := range commits {
		for _, f := range cm.Files {
			files[f.Filename] = struct{}{}
			if ext := fileExtension(f.Filename); ext != "" {
				exts.add(ext, 1)
			}
		}
	}

	occurrences := exts.total()
	top := make([]domain.ExtensionCount, 0, topN)
	for _, e := range exts.top(topN) {
		top = append(top, domain.ExtensionCount{
			Extension:  e.key,
			Count:      e.count,
			Percentage: percentage(e.count, occurrences),
		})
	}

	return domain.CodeQualityStats{
		AverageCommitSize:     float64(additions+deletions) / float64(len(commits)),
		AdditionDeletionRatio: AdditionDeletionRatio(additions, deletions),
		TotalFilesModified:    len(files),
		TopFileExtensions:     top,
	}
}

// AdditionDeletionRatio returns additions/deletions. It is +Inf when only lines
// were added and 0 when nothing changed.
func AdditionDeletionRatio(additions, deletions int) domain.Ratio {
	if deletions == 0 {
		if additions == 0 {
			return 0
		}
		return domain.Ratio(math.Inf(1))
	}
	return domain.Ratio(float64(additions) / float64(deletions))
}

// fileExtension returns the lower-cased extension of filename, or "" when it has
// none or it is not one worth reporting.
func fileExtension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || len(ext) > maxExtensionLength || ignoredExtensions[ext] {
		return ""
	}
	return ext
}
