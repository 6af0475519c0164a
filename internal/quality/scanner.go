// Package quality reports gaps in the stored project data.
package quality

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mcphubs/internal/database"
)

// Issue names a class of data problem.
type Issue string

const (
	MissingDescription Issue = "missing_description"
	MissingReadme      Issue = "missing_readme"
	MissingLanguage    Issue = "missing_language"
	Stale              Issue = "stale"
	Incomplete         Issue = "incomplete"
)

var issues = []Issue{MissingDescription, MissingReadme, MissingLanguage, Stale, Incomplete}

// maxIDsPerIssue bounds the ids listed for one issue.
const maxIDsPerIssue = 100

// Finding is the tally for one issue.
type Finding struct {
	Count int     `json:"count"`
	IDs   []int64 `json:"ids"`
}

// Report summarizes a scan.
type Report struct {
	ScannedAt time.Time         `json:"scanned_at"`
	Total     int               `json:"total"`
	Healthy   int               `json:"healthy"`
	Issues    map[Issue]Finding `json:"issues"`
}

// Store reads every project.
type Store interface {
	ListAllProjects(ctx context.Context) ([]database.Project, error)
}

// Scanner checks stored projects.
type Scanner struct {
	store      Store
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewScanner(store Store, staleAfter time.Duration, logger *slog.Logger) *Scanner {
	return &Scanner{store: store, staleAfter: staleAfter, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Scan reads all projects and tallies each issue.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	rows, err := s.store.ListAllProjects(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list projects: %w", err)
	}

	now := s.now()
	report := Report{ScannedAt: now, Total: len(rows), Issues: make(map[Issue]Finding, len(issues))}
	for _, issue := range issues {
		report.Issues[issue] = Finding{IDs: []int64{}}
	}

	for _, p := range rows {
		found := s.check(p, now)
		if len(found) == 0 {
			report.Healthy++
			continue
		}
		for _, issue := range found {
			f := report.Issues[issue]
			f.Count++
			if len(f.IDs) < maxIDsPerIssue {
				f.IDs = append(f.IDs, p.ID)
			}
			report.Issues[issue] = f
		}
	}

	s.logger.Info("Data quality scan finished", "total", report.Total, "healthy", report.Healthy)
	return report, nil
}

func (s *Scanner) check(p database.Project, now time.Time) []Issue {
	var found []Issue
	if strings.TrimSpace(p.Description) == "" {
		found = append(found, MissingDescription)
	}
	if strings.TrimSpace(p.ReadmeExcerpt) == "" {
		found = append(found, MissingReadme)
	}
	if p.Language == "" {
		found = append(found, MissingLanguage)
	}
	if s.staleAfter > 0 && now.Sub(p.LastSyncedAt) > s.staleAfter {
		found = append(found, Stale)
	}
	if strings.TrimSpace(p.Owner) == "" || strings.TrimSpace(p.Name) == "" || p.GithubID == 0 {
		found = append(found, Incomplete)
	}
	return found
}
