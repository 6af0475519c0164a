package quality

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcphubs/internal/database"
	"mcphubs/internal/database/dbtest"
)

func TestScanner_Scan(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	mem := dbtest.NewMemory()
	healthy := mem.SeedProject(database.Project{
		GithubID: 1, Owner: "acme", Name: "good", Description: "MCP server", ReadmeExcerpt: "# Good",
		Language: "Go", LastSyncedAt: now.Add(-time.Hour),
	})
	bare := mem.SeedProject(database.Project{
		GithubID: 2, Owner: "acme", Name: "bare", LastSyncedAt: now.Add(-time.Hour),
	})
	stale := mem.SeedProject(database.Project{
		GithubID: 3, Owner: "acme", Name: "old", Description: "d", ReadmeExcerpt: "r", Language: "Go",
		LastSyncedAt: now.Add(-30 * 24 * time.Hour),
	})
	broken := mem.SeedProject(database.Project{
		GithubID: 4, Description: "d", ReadmeExcerpt: "r", Language: "Go", LastSyncedAt: now,
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	scanner := NewScanner(mem, 7*24*time.Hour, logger)
	scanner.now = func() time.Time { return now }

	report, err := scanner.Scan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Healthy)
	assert.Equal(t, Finding{Count: 1, IDs: []int64{bare.ID}}, report.Issues[MissingDescription])
	assert.Equal(t, Finding{Count: 1, IDs: []int64{bare.ID}}, report.Issues[MissingReadme])
	assert.Equal(t, Finding{Count: 1, IDs: []int64{bare.ID}}, report.Issues[MissingLanguage])
	assert.Equal(t, Finding{Count: 1, IDs: []int64{stale.ID}}, report.Issues[Stale])
	assert.Equal(t, Finding{Count: 1, IDs: []int64{broken.ID}}, report.Issues[Incomplete])
	assert.NotContains(t, report.Issues[Stale].IDs, healthy.ID)
}

func TestScanner_EmptyAndErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mem := dbtest.NewMemory()
	scanner := NewScanner(mem, 0, logger)

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Len(t, report.Issues, 5)
	assert.NotNil(t, report.Issues[Stale].IDs)

	mem.FailOn("ListAllProjects", errors.New("db down"))
	_, err = scanner.Scan(context.Background())
	assert.ErrorContains(t, err, "db down")
}
