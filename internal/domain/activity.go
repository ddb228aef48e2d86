// Package domain contains the core data structures of the application:
// the GitHub activity records fetched by the gateway and the statistics
// derived from them.
package domain

import "time"

// CommitStats holds the line counts GitHub reports for a commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitFile is a single file changed by a commit.
type CommitFile struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Commit is a commit authored by the user.
// Stats and Files are nil when the API did not return commit detail.
// Repository is the owning repository full name (owner/repo), empty when unknown.
type Commit struct {
	SHA        string       `json:"sha"`
	Message    string       `json:"message"`
	AuthoredAt time.Time    `json:"authored_at"`
	Stats      *CommitStats `json:"stats,omitempty"`
	Files      []CommitFile `json:"files,omitempty"`
	Repository string       `json:"repository,omitempty"`
}

// Repository is a repository owned by or shared with the user.
type Repository struct {
	FullName  string    `json:"full_name"`
	Language  string    `json:"language,omitempty"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

// PullRequest is a pull request opened by the user. MergedAt is nil when it was not merged.
type PullRequest struct {
	CreatedAt time.Time  `json:"created_at"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
}

// Merged reports whether the pull request was merged.
func (p PullRequest) Merged() bool { return p.MergedAt != nil }

// Issue is an issue opened by the user. ClosedAt is nil while it is open.
type Issue struct {
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Closed reports whether the issue was closed.
func (i Issue) Closed() bool { return i.ClosedAt != nil }

// ContributionDay is one day of GitHub's own contribution calendar.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
