package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

const messageWidth = 60

// YearlyText writes a terminal summary of ys.
func YearlyText(w io.Writer, ys domain.YearlyStats) error {
	p := newPrinter(w)

	p.title(fmt.Sprintf("GitHub Wrapped %d", ys.Year))
	p.field("Commits", number(ys.TotalCommits))
	p.field("Lines", fmt.Sprintf("+%s / -%s", number(ys.TotalAdditions), number(ys.TotalDeletions)))
	p.field("Pull requests", fmt.Sprintf("%s (%s merged, %s%%)",
		number(ys.TotalPullRequests), number(ys.TotalPullRequestsMerged), decimal(ys.ContributionStats.PRMergeRate)))
	p.field("Issues", fmt.Sprintf("%s (%s closed)", number(ys.TotalIssues), number(ys.TotalIssuesClosed)))
	p.field("Active days", number(ys.ActiveDays))
	p.field("Longest streak", fmt.Sprintf("%s days", number(ys.TimeStats.LongestStreak)))
	if ys.TotalCommits > 0 {
		p.field("Most active month", monthName(ys.MostActiveMonth))
		p.field("Most active time", fmt.Sprintf("%ss at %02d:00",
			weekdayName(ys.TimeStats.MostActiveDayOfWeek), ys.TimeStats.MostActiveHour))
		p.field("Time between commits", fmt.Sprintf("%s hours", decimal(ys.TimeStats.AverageTimeBetweenCommits)))
	}
	p.line("")

	p.title("Top languages")
	if len(ys.TopLanguages) == 0 {
		p.empty("No languages")
	}
	for _, l := range ys.TopLanguages {
		p.line("  %-16s %4s  %5s%%", l.Name, number(l.Count), decimal(l.Percentage))
	}
	p.line("")

	p.title("Top repositories")
	if len(ys.TopRepositories) == 0 {
		p.empty("No commits")
	}
	for _, r := range ys.TopRepositories {
		p.line("  %-32s %s commits", r.Name, number(r.Commits))
	}
	p.line("")

	p.title("Monthly commits")
	maxCommits := 0
	for _, m := range ys.MonthlyStats {
		maxCommits = max(maxCommits, m.Commits)
	}
	for _, m := range ys.MonthlyStats {
		p.line("  %s %s %s", monthName(m.Month)[:3], p.bar(m.Commits, maxCommits), number(m.Commits))
	}
	p.line("")

	cq := ys.CodeQualityStats
	p.title("Code")
	p.field("Average commit size", fmt.Sprintf("%s lines", decimal(cq.AverageCommitSize)))
	p.field("Additions/deletions", ratio(float64(cq.AdditionDeletionRatio)))
	p.field("Files modified", number(cq.TotalFilesModified))
	if len(cq.TopFileExtensions) > 0 {
		exts := make([]string, 0, len(cq.TopFileExtensions))
		for _, e := range cq.TopFileExtensions {
			exts = append(exts, fmt.Sprintf("%s (%s)", e.Extension, number(e.Count)))
		}
		p.field("Top extensions", strings.Join(exts, ", "))
	}
	p.line("")

	cs := ys.ContributionStats
	p.title("Contributions")
	p.field("Own repositories", number(cs.OwnReposContributions))
	p.field("Open source", number(cs.OpenSourceContributions))
	p.field("New repositories", number(cs.NewReposCreated))
	p.field("Issue resolution", fmt.Sprintf("%s hours", decimal(cs.AverageIssueResolutionTime)))
	for i, r := range cs.TopStarredRepos {
		label := ""
		if i == 0 {
			label = "Top starred"
		}
		p.field(label, fmt.Sprintf("%s ★ %s", r.Name, number(r.Stars)))
	}
	p.line("")

	fs := ys.FunStats
	p.title("Fun")
	if ys.TotalCommits == 0 {
		p.empty("No commit messages")
	} else {
		p.field("Longest message", fmt.Sprintf("%q", truncate(fs.LongestCommitMessage, messageWidth)))
		p.field("Shortest message", fmt.Sprintf("%q", truncate(fs.ShortestCommitMessage, messageWidth)))
		p.field("Average length", fmt.Sprintf("%s characters", decimal(fs.AverageCommitMessageLength)))
	}
	if len(fs.TopEmojis) > 0 {
		emojis := make([]string, 0, len(fs.TopEmojis))
		for _, e := range fs.TopEmojis {
			emojis = append(emojis, fmt.Sprintf("%s %s", e.Emoji, number(e.Count)))
		}
		p.field("Top emojis", strings.Join(emojis, "  "))
	}
	if len(fs.TopCommitKeywords) > 0 {
		keywords := make([]string, 0, len(fs.TopCommitKeywords))
		for _, k := range fs.TopCommitKeywords {
			keywords = append(keywords, fmt.Sprintf("%s (%s)", k.Keyword, number(k.Count)))
		}
		p.field("Top keywords", strings.Join(keywords, ", "))
	}

	if p.err != nil {
		return p.err
	}
	if len(ys.ContributionHeatmap) > 0 {
		p.line("")
		if p.err != nil {
			return p.err
		}
		return HeatmapText(w, ys.ContributionHeatmap)
	}
	return nil
}

// MonthlyText writes a terminal summary of ms.
func MonthlyText(w io.Writer, ms domain.MonthlyStats) error {
	p := newPrinter(w)

	p.title(fmt.Sprintf("%s %d", monthName(ms.Month), ms.Year))
	p.field("Commits", number(ms.Commits))
	p.field("Lines", fmt.Sprintf("+%s / -%s", number(ms.Additions), number(ms.Deletions)))
	p.field("Pull requests", fmt.Sprintf("%s (%s merged)", number(ms.PullRequests), number(ms.PullRequestsMerged)))
	p.field("Issues", fmt.Sprintf("%s (%s closed)", number(ms.Issues), number(ms.IssuesClosed)))
	p.field("Active days", number(ms.ActiveDays))
	p.line("")

	p.title("Repositories")
	if len(ms.Repositories) == 0 {
		p.empty("No repositories")
	}
	for _, r := range ms.Repositories {
		p.line("  %s", r)
	}
	return p.err
}
