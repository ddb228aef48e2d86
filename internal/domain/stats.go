package domain

import (
	"encoding/json"
	"math"
)

// MonthlyStats holds the activity of one calendar month.
// Month is the zero-based month index (0 = January).
type MonthlyStats struct {
	Month              int            `json:"month"`
	Year               int            `json:"year"`
	Commits            int            `json:"commits"`
	Additions          int            `json:"additions"`
	Deletions          int            `json:"deletions"`
	PullRequests       int            `json:"pull_requests"`
	PullRequestsMerged int            `json:"pull_requests_merged"`
	Issues             int            `json:"issues"`
	IssuesClosed       int            `json:"issues_closed"`
	Repositories       []string       `json:"repositories"`
	Languages          map[string]int `json:"languages"`
	ActiveDays         int            `json:"active_days"`
}

// LanguageCount is a language with the number of repositories using it.
type LanguageCount struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RepoCommits is a repository with the number of commits made to it.
type RepoCommits struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// TimeStats describes when the user commits.
type TimeStats struct {
	MostActiveHour            int     `json:"most_active_hour"`
	MostActiveDayOfWeek       int     `json:"most_active_day_of_week"`
	LongestStreak             int     `json:"longest_streak"`
	AverageTimeBetweenCommits float64 `json:"average_time_between_commits_hours"`
}

// Ratio is a float that may be +Inf. It is encoded in JSON as the string "Infinity"
// when infinite since JSON numbers cannot represent it.
type Ratio float64

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == `"Infinity"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// ExtensionCount is a file extension with its number of occurrences in changed files.
type ExtensionCount struct {
	Extension  string  `json:"extension"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CodeQualityStats describes the size and shape of the user's commits.
type CodeQualityStats struct {
	AverageCommitSize     float64          `json:"average_commit_size"`
	AdditionDeletionRatio Ratio            `json:"addition_deletion_ratio"`
	TotalFilesModified    int              `json:"total_files_modified"`
	TopFileExtensions     []ExtensionCount `json:"top_file_extensions"`
}

// StarredRepo is a repository with its star count.
type StarredRepo struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

// ContributionStats classifies where the user's work went.
type ContributionStats struct {
	TopStarredRepos            []StarredRepo `json:"top_starred_repos"`
	OpenSourceContributions    int           `json:"open_source_contributions"`
	OwnReposContributions      int           `json:"own_repos_contributions"`
	PRMergeRate                float64       `json:"pr_merge_rate"`
	AverageIssueResolutionTime float64       `json:"average_issue_resolution_time_hours"`
	NewReposCreated            int           `json:"new_repos_created"`
}

// EmojiCount is an emoji with its number of occurrences in commit messages.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// KeywordCount is a conventional commit keyword with the number of messages containing it.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// FunStats is mined from commit messages.
type FunStats struct {
	LongestCommitMessage       string         `json:"longest_commit_message"`
	ShortestCommitMessage      string         `json:"shortest_commit_message"`
	AverageCommitMessageLength float64        `json:"average_commit_message_length"`
	TopEmojis                  []EmojiCount   `json:"top_emojis"`
	TopCommitKeywords          []KeywordCount `json:"top_commit_keywords"`
}

// HeatmapDay is one cell of the contribution heatmap. Level is the intensity from 0 to 4.
type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// HourCount is the number of commits made during an hour of the day.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayCount is the number of commits made on a day of the week (0 = Sunday).
type WeekdayCount struct {
	DayOfWeek int `json:"day_of_week"`
	Count     int `json:"count"`
}

// YearlyStats is the complete statistics of one calendar year.
type YearlyStats struct {
	Year                    int               `json:"year"`
	TotalCommits            int               `json:"total_commits"`
	TotalAdditions          int               `json:"total_additions"`
	TotalDeletions          int               `json:"total_deletions"`
	TotalPullRequests       int               `json:"total_pull_requests"`
	TotalPullRequestsMerged int               `json:"total_pull_requests_merged"`
	TotalIssues             int               `json:"total_issues"`
	TotalIssuesClosed       int               `json:"total_issues_closed"`
	TopLanguages            []LanguageCount   `json:"top_languages"`
	TopRepositories         []RepoCommits     `json:"top_repositories"`
	MonthlyStats            []MonthlyStats    `json:"monthly_stats"`
	MostActiveMonth         int               `json:"most_active_month"`
	ActiveDays              int               `json:"active_days"`
	TimeStats               TimeStats         `json:"time_stats"`
	CodeQualityStats        CodeQualityStats  `json:"code_quality_stats"`
	ContributionStats       ContributionStats `json:"contribution_stats"`
	FunStats                FunStats          `json:"fun_stats"`
	ContributionHeatmap     []HeatmapDay      `json:"contribution_heatmap"`
	HourlyDistribution      []HourCount       `json:"hourly_distribution"`
	WeeklyDistribution      []WeekdayCount    `json:"weekly_distribution"`
}
