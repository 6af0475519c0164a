package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mcphubs/internal/database"
	"mcphubs/internal/model"
)

// syncItem fetches one candidate's details and stores it. It reports whether a new
// row was inserted.
func (s *Syncer) syncItem(ctx context.Context, item model.RepoSummary) (bool, error) {
	itemCtx, cancel := context.WithTimeout(ctx, s.settings.ItemTimeout)
	defer cancel()

	project, err := s.remote.GetRepositoryDetails(itemCtx, item.Owner, item.Name)
	if err != nil {
		return false, err
	}
	if project.GithubID == 0 || project.Owner == "" || project.Name == "" {
		return false, fmt.Errorf("incomplete repository record for %s/%s", item.Owner, item.Name)
	}
	project.Relevance = model.ClassifyRelevance(*project)
	project.LastSyncedAt = s.now()

	var inserted bool
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		_, inserted, err = s.upsertProject(ctx, q, project)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("store project: %w", err)
	}
	return inserted, nil
}

// upsertProject creates or updates a project keyed by its GitHub id.
func (s *Syncer) upsertProject(ctx context.Context, q database.Querier, p *model.Project) (database.Project, bool, error) {
	existing, err := q.GetProjectByGithubID(ctx, p.GithubID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug("Project not found in DB, creating new entry", "github_id", p.GithubID, "full_name", p.FullName)
		created, err := q.CreateProject(ctx, database.CreateProjectParams{
			GithubID:      p.GithubID,
			Owner:         p.Owner,
			Name:          p.Name,
			FullName:      p.FullName,
			Description:   p.Description,
			HtmlUrl:       p.HTMLURL,
			Homepage:      p.Homepage,
			Stars:         int32(p.Stars),
			Forks:         int32(p.Forks),
			OpenIssues:    int32(p.OpenIssues),
			Language:      p.Language,
			Topics:        topics(p.Topics),
			ReadmeExcerpt: p.ReadmeExcerpt,
			Relevance:     string(p.Relevance),
			AvatarUrl:     p.AvatarURL,
			ImageUrl:      p.ImageURL,
			RepoCreatedAt: p.RepoCreatedAt,
			RepoUpdatedAt: p.RepoUpdatedAt,
			LastSyncedAt:  p.LastSyncedAt,
		})
		return created, err == nil, err
	} else if err != nil {
		return database.Project{}, false, err
	}

	s.logger.Debug("Project found in DB, updating metadata", "id", existing.ID, "full_name", p.FullName)
	updated, err := q.UpdateProject(ctx, database.UpdateProjectParams{
		ID:            existing.ID,
		Owner:         p.Owner,
		Name:          p.Name,
		FullName:      p.FullName,
		Description:   p.Description,
		HtmlUrl:       p.HTMLURL,
		Homepage:      p.Homepage,
		Stars:         int32(p.Stars),
		Forks:         int32(p.Forks),
		OpenIssues:    int32(p.OpenIssues),
		Language:      p.Language,
		Topics:        topics(p.Topics),
		ReadmeExcerpt: p.ReadmeExcerpt,
		Relevance:     string(p.Relevance),
		AvatarUrl:     p.AvatarURL,
		ImageUrl:      p.ImageURL,
		RepoUpdatedAt: p.RepoUpdatedAt,
		LastSyncedAt:  p.LastSyncedAt,
	})
	return updated, false, err
}

func topics(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}
