// internal/model/models.go
package model

import (
	"strings"
	"time"
)

// Relevance classifies how closely a project relates to the Model Context Protocol.
type Relevance string

const (
	RelevanceOfficial Relevance = "official"
	RelevanceHigh     Relevance = "high"
	RelevanceMedium   Relevance = "medium"
	RelevanceLow      Relevance = "low"
)

// Project is one indexed GitHub repository.
type Project struct {
	ID            int64     `json:"id"`
	GithubID      int64     `json:"github_id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	HTMLURL       string    `json:"html_url"`
	Homepage      string    `json:"homepage,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"open_issues"`
	Language      string    `json:"language,omitempty"`
	Topics        []string  `json:"topics"`
	ReadmeExcerpt string    `json:"readme_excerpt,omitempty"`
	Relevance     Relevance `json:"relevance"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	RepoCreatedAt time.Time `json:"repo_created_at"`
	RepoUpdatedAt time.Time `json:"repo_updated_at"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
	Placeholder   bool      `json:"placeholder,omitempty"`
}

// Slug returns the URL-safe composite identifier, e.g. "octo--mcp-server".
func (p Project) Slug() string {
	return p.Owner + "--" + p.Name
}

// RepoSummary is a search hit as returned by the remote source, before details are fetched.
type RepoSummary struct {
	GithubID    int64
	Owner       string
	Name        string
	Description string
	Stars       int
}

// SyncOutcome is the recorded result of a sync run.
type SyncOutcome string

const (
	OutcomeNone      SyncOutcome = ""
	OutcomeSuccess   SyncOutcome = "success"
	OutcomePartial   SyncOutcome = "partial"
	OutcomeFailed    SyncOutcome = "failed"
	OutcomeSkipped   SyncOutcome = "skipped"
	OutcomeExhausted SyncOutcome = "exhausted"
	OutcomeReset     SyncOutcome = "reset"
)

// Succeeded reports whether the outcome counts towards the staleness check.
func (o SyncOutcome) Succeeded() bool {
	return o == OutcomeSuccess || o == OutcomePartial || o == OutcomeExhausted
}

// SyncPosition is the singleton cursor into the candidate list.
type SyncPosition struct {
	Offset       int         `json:"offset"`
	LastGithubID int64       `json:"last_github_id"`
	LastRunAt    time.Time   `json:"last_run_at"`
	LastOutcome  SyncOutcome `json:"last_outcome"`
	Revision     int64       `json:"revision"`
}

// SyncSource names what triggered a run.
type SyncSource string

const (
	SourceManual SyncSource = "manual"
	SourceCron   SyncSource = "cron"
)

// ParseSyncSource accepts "manual" or "cron" in any case. Empty means manual.
func ParseSyncSource(raw string) (SyncSource, bool) {
	switch SyncSource(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SourceManual:
		return SourceManual, true
	case SourceCron:
		return SourceCron, true
	}
	return "", false
}

// SyncRunReport summarizes one RunSync invocation.
type SyncRunReport struct {
	ID          string        `json:"id"`
	Source      SyncSource    `json:"source"`
	Success     bool          `json:"success"`
	Skipped     bool          `json:"skipped"`
	SkipReason  string        `json:"skip_reason,omitempty"`
	Outcome     SyncOutcome   `json:"outcome"`
	Seen        int           `json:"seen"`
	Inserted    int           `json:"inserted"`
	Updated     int           `json:"updated"`
	Errors      int           `json:"errors"`
	ErrorDetail []string      `json:"error_detail,omitempty"`
	StartOffset int           `json:"start_offset"`
	EndOffset   int           `json:"end_offset"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Message     string        `json:"message"`
}

// SyncStatus is the read-only view served to operators.
type SyncStatus struct {
	LastRunAt        *time.Time   `json:"last_run_at"`
	LastSuccessAt    *time.Time   `json:"last_success_at"`
	NextScheduledRun *time.Time   `json:"next_scheduled_run"`
	LastOutcome      SyncOutcome  `json:"last_outcome"`
	Position         SyncPosition `json:"position"`
	Running          bool         `json:"running"`
}
