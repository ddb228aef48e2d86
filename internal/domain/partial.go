package domain

// PartialYearlyStats is a YearlyStats whose fields may be missing. Nil pointers and
// nil slices mean "not computed yet". It lets callers display statistics as they
// become available.
type PartialYearlyStats struct {
	Year                    *int               `json:"year,omitempty"`
	TotalCommits            *int               `json:"total_commits,omitempty"`
	TotalAdditions          *int               `json:"total_additions,omitempty"`
	TotalDeletions          *int               `json:"total_deletions,omitempty"`
	TotalPullRequests       *int               `json:"total_pull_requests,omitempty"`
	TotalPullRequestsMerged *int               `json:"total_pull_requests_merged,omitempty"`
	TotalIssues             *int               `json:"total_issues,omitempty"`
	TotalIssuesClosed       *int               `json:"total_issues_closed,omitempty"`
	TopLanguages            []LanguageCount    `json:"top_languages,omitempty"`
	TopRepositories         []RepoCommits      `json:"top_repositories,omitempty"`
	MonthlyStats            []MonthlyStats     `json:"monthly_stats,omitempty"`
	MostActiveMonth         *int               `json:"most_active_month,omitempty"`
	ActiveDays              *int               `json:"active_days,omitempty"`
	TimeStats               *TimeStats         `json:"time_stats,omitempty"`
	CodeQualityStats        *CodeQualityStats  `json:"code_quality_stats,omitempty"`
	ContributionStats       *ContributionStats `json:"contribution_stats,omitempty"`
	FunStats                *FunStats          `json:"fun_stats,omitempty"`
	ContributionHeatmap     []HeatmapDay       `json:"contribution_heatmap,omitempty"`
	HourlyDistribution      []HourCount        `json:"hourly_distribution,omitempty"`
	WeeklyDistribution      []WeekdayCount     `json:"weekly_distribution,omitempty"`
}

// PartialFromYearly returns a partial with every field of ys present.
func PartialFromYearly(ys YearlyStats) PartialYearlyStats {
	return PartialYearlyStats{
		Year:                    &ys.Year,
		TotalCommits:            &ys.TotalCommits,
		TotalAdditions:          &ys.TotalAdditions,
		TotalDeletions:          &ys.TotalDeletions,
		TotalPullRequests:       &ys.TotalPullRequests,
		TotalPullRequestsMerged: &ys.TotalPullRequestsMerged,
		TotalIssues:             &ys.TotalIssues,
		TotalIssuesClosed:       &ys.TotalIssuesClosed,
		TopLanguages:            nonNil(ys.TopLanguages),
		TopRepositories:         nonNil(ys.TopRepositories),
		MonthlyStats:            nonNil(ys.MonthlyStats),
		MostActiveMonth:         &ys.MostActiveMonth,
		ActiveDays:              &ys.ActiveDays,
		TimeStats:               &ys.TimeStats,
		CodeQualityStats:        &ys.CodeQualityStats,
		ContributionStats:       &ys.ContributionStats,
		FunStats:                &ys.FunStats,
		ContributionHeatmap:     nonNil(ys.ContributionHeatmap),
		HourlyDistribution:      nonNil(ys.HourlyDistribution),
		WeeklyDistribution:      nonNil(ys.WeeklyDistribution),
	}
}

// MergePartial returns base with every field present in update replacing the
// corresponding field of base. Neither argument is modified.
func MergePartial(base, update PartialYearlyStats) PartialYearlyStats {
	merged := base
	mergePtr(&merged.Year, update.Year)
	mergePtr(&merged.TotalCommits, update.TotalCommits)
	mergePtr(&merged.TotalAdditions, update.TotalAdditions)
	mergePtr(&merged.TotalDeletions, update.TotalDeletions)
	mergePtr(&merged.TotalPullRequests, update.TotalPullRequests)
	mergePtr(&merged.TotalPullRequestsMerged, update.TotalPullRequestsMerged)
	mergePtr(&merged.TotalIssues, update.TotalIssues)
	mergePtr(&merged.TotalIssuesClosed, update.TotalIssuesClosed)
	mergeSlice(&merged.TopLanguages, update.TopLanguages)
	mergeSlice(&merged.TopRepositories, update.TopRepositories)
	mergeSlice(&merged.MonthlyStats, update.MonthlyStats)
	mergePtr(&merged.MostActiveMonth, update.MostActiveMonth)
	mergePtr(&merged.ActiveDays, update.ActiveDays)
	mergePtr(&merged.TimeStats, update.TimeStats)
	mergePtr(&merged.CodeQualityStats, update.CodeQualityStats)
	mergePtr(&merged.ContributionStats, update.ContributionStats)
	mergePtr(&merged.FunStats, update.FunStats)
	mergeSlice(&merged.ContributionHeatmap, update.ContributionHeatmap)
	mergeSlice(&merged.HourlyDistribution, update.HourlyDistribution)
	mergeSlice(&merged.WeeklyDistribution, update.WeeklyDistribution)
	return merged
}

// Complete reports whether every field is present.
func (p PartialYearlyStats) Complete() bool {
	return p.Year != nil && p.TotalCommits != nil && p.TotalAdditions != nil &&
		p.TotalDeletions != nil && p.TotalPullRequests != nil && p.TotalPullRequestsMerged != nil &&
		p.TotalIssues != nil && p.TotalIssuesClosed != nil && p.TopLanguages != nil &&
		p.TopRepositories != nil && p.MonthlyStats != nil && p.MostActiveMonth != nil &&
		p.ActiveDays != nil && p.TimeStats != nil && p.CodeQualityStats != nil &&
		p.ContributionStats != nil && p.FunStats != nil && p.ContributionHeatmap != nil &&
		p.HourlyDistribution != nil && p.WeeklyDistribution != nil
}

// mergePtr copies a fresh copy of *src into *dst so the result never aliases update.
func mergePtr[T any](dst **T, src *T) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

func mergeSlice[T any](dst *[]T, src []T) {
	if src == nil {
		return
	}
	*dst = append(make([]T, 0, len(src)), src...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
