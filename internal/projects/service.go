// Package projects serves indexed projects to readers, with a per-strategy TTL cache and
// live and placeholder fallbacks so reads always produce a well-formed answer.
package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"mcphubs/internal/config"
	"mcphubs/internal/database"
	"mcphubs/internal/events"
	"mcphubs/internal/github"
	"mcphubs/internal/metrics"
	"mcphubs/internal/model"
)

// Strategy selects where GetProjects reads from.
type Strategy string

const (
	StrategyDatabaseFirst Strategy = "database-first"
	StrategyLive          Strategy = "live"
)

// Sources reported on results.
const (
	SourceDatabase    = "database"
	SourceLive        = "live"
	SourcePlaceholder = "placeholder"
	SourceNone        = "none"
)

const (
	defaultListLimit   = 500
	liveListPageSize   = 100
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ReadConfig controls a GetProjects call.
type ReadConfig struct {
	Strategy        Strategy
	CacheTimeout    time.Duration
	FallbackEnabled bool
}

// ReadConfigFromConfig returns the service-wide read defaults.
func ReadConfigFromConfig(cfg *config.Config) ReadConfig {
	return ReadConfig{
		Strategy:        Strategy(cfg.ReadStrategy),
		CacheTimeout:    cfg.ReadCacheTimeout,
		FallbackEnabled: cfg.ReadFallbackEnabled,
	}
}

// Stats aggregates a project list.
type Stats struct {
	Total      int            `json:"total"`
	TotalStars int            `json:"total_stars"`
	Languages  map[string]int `json:"languages"`
	Official   int            `json:"official"`
}

// ProjectList is the result of GetProjects.
type ProjectList struct {
	Projects  []model.Project `json:"projects"`
	Source    string          `json:"source"`
	Cached    bool            `json:"cached"`
	Timestamp time.Time       `json:"timestamp"`
	Stats     Stats           `json:"stats"`
}

// ProjectDetail is the result of GetProjectDetails.
type ProjectDetail struct {
	Project model.Project `json:"project"`
	Source  string        `json:"source"`
}

// Store is the read side of project storage.
type Store interface {
	ListProjects(ctx context.Context, arg database.ListProjectsParams) ([]database.Project, error)
	GetProjectByGithubID(ctx context.Context, githubID int64) (database.Project, error)
	GetProjectByOwnerAndName(ctx context.Context, arg database.GetProjectByOwnerAndNameParams) (database.Project, error)
	SearchProjects(ctx context.Context, arg database.SearchProjectsParams) ([]database.Project, error)
}

// LiveSource fetches straight from GitHub.
type LiveSource interface {
	SearchRepositories(ctx context.Context, query string, page, perPage int) (github.SearchPage, error)
	GetRepositoryDetails(ctx context.Context, owner, name string) (*model.Project, error)
	GetRepositoryByID(ctx context.Context, id int64) (*model.Project, error)
}

type cacheEntry struct {
	list    ProjectList
	expires time.Time
}

// Service reads projects.
type Service struct {
	store     Store
	live      LiveSource
	logger    *slog.Logger
	defaults  ReadConfig
	liveQuery string
	now       func() time.Time

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
	group singleflight.Group
}

// NewService creates a Service. liveQuery is the GitHub search used for live listings.
func NewService(store Store, live LiveSource, defaults ReadConfig, liveQuery string, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		live:      live,
		logger:    logger,
		defaults:  defaults,
		liveQuery: liveQuery,
		now:       func() time.Time { return time.Now().UTC() },
		cache:     make(map[cacheKey]cacheEntry),
	}
}

// Defaults returns the configured read settings.
func (s *Service) Defaults() ReadConfig {
	return s.defaults
}

// GetProjects returns the project list for cfg.Strategy. Only an unknown strategy is an error;
// storage and upstream failures degrade to a fallback source or an empty list.
func (s *Service) GetProjects(ctx context.Context, cfg ReadConfig) (ProjectList, error) {
	if cfg.Strategy != StrategyDatabaseFirst && cfg.Strategy != StrategyLive {
		return ProjectList{}, fmt.Errorf("unknown read strategy %q", cfg.Strategy)
	}

	key := keyFor(cfg)
	if list, ok := s.cached(key); ok {
		metrics.CacheHits.WithLabelValues(string(cfg.Strategy)).Inc()
		return list, nil
	}
	metrics.CacheMisses.WithLabelValues(string(cfg.Strategy)).Inc()

	v, _, _ := s.group.Do(key.String(), func() (any, error) {
		if list, ok := s.cached(key); ok {
			return list, nil
		}
		list, cacheable := s.load(ctx, cfg)
		if cfg.CacheTimeout > 0 && cacheable {
			s.mu.Lock()
			s.cache[key] = cacheEntry{list: list, expires: s.now().Add(cfg.CacheTimeout)}
			s.mu.Unlock()
		}
		return list, nil
	})
	return v.(ProjectList), nil
}

// cacheKey identifies a cached list. Fallback only matters for database-first reads.
type cacheKey struct {
	strategy Strategy
	fallback bool
}

func keyFor(cfg ReadConfig) cacheKey {
	return cacheKey{strategy: cfg.Strategy, fallback: cfg.Strategy == StrategyDatabaseFirst && cfg.FallbackEnabled}
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s/fallback=%t", k.strategy, k.fallback)
}

func (s *Service) cached(key cacheKey) (ProjectList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[key]
	if !ok || !s.now().Before(entry.expires) {
		return ProjectList{}, false
	}
	list := entry.list
	list.Cached = true
	return list, true
}

// load reads the list for cfg. The flag reports whether the result may be cached:
// lists produced while storage or GitHub was failing are not.
func (s *Service) load(ctx context.Context, cfg ReadConfig) (ProjectList, bool) {
	if cfg.Strategy == StrategyDatabaseFirst {
		rows, err := s.store.ListProjects(ctx, database.ListProjectsParams{Limit: defaultListLimit, Offset: 0})
		if err == nil && len(rows) > 0 {
			return s.newList(fromRows(rows), SourceDatabase), true
		}
		if err != nil {
			s.logger.Error("Failed to read projects from database", "error", err)
		}
		if !cfg.FallbackEnabled {
			return s.newList([]model.Project{}, SourceDatabase), err == nil
		}
		s.logger.Info("Falling back to live project listing", "db_error", err != nil)
		metrics.ReadFallbacks.WithLabelValues(SourceLive).Inc()
	}

	projects, err := s.fetchLive(ctx, s.liveQuery, liveListPageSize)
	if err != nil {
		s.logger.Error("Failed to fetch live projects", "error", err)
		return s.newList([]model.Project{}, SourceNone), false
	}
	return s.newList(projects, SourceLive), true
}

func (s *Service) fetchLive(ctx context.Context, query string, limit int) ([]model.Project, error) {
	page, err := s.live.SearchRepositories(ctx, query, 1, limit)
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(page.Items))
	for _, item := range page.Items {
		p := model.Project{
			GithubID:    item.GithubID,
			Owner:       item.Owner,
			Name:        item.Name,
			FullName:    item.Owner + "/" + item.Name,
			Description: item.Description,
			HTMLURL:     "https://github.com/" + item.Owner + "/" + item.Name,
			Stars:       item.Stars,
			Topics:      []string{},
		}
		p.Relevance = model.ClassifyRelevance(p)
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *Service) newList(projects []model.Project, source string) ProjectList {
	return ProjectList{
		Projects:  projects,
		Source:    source,
		Timestamp: s.now(),
		Stats:     computeStats(projects),
	}
}

func computeStats(projects []model.Project) Stats {
	st := Stats{Total: len(projects), Languages: map[string]int{}}
	for _, p := range projects {
		st.TotalStars += p.Stars
		if p.Language != "" {
			st.Languages[p.Language]++
		}
		if p.Relevance == model.RelevanceOfficial {
			st.Official++
		}
	}
	return st
}

// Invalidate drops every cached list.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[cacheKey]cacheEntry)
}

// HandleProjectsSynced invalidates the cache when a sync commits changes.
func (s *Service) HandleProjectsSynced(ev events.ProjectsSynced) {
	s.logger.Info("Invalidating project cache", "run_id", ev.RunID, "inserted", ev.Inserted, "updated", ev.Updated)
	s.Invalidate()
}

// GetProjectDetails resolves a project by numeric id, "owner/name" or "owner--name".
// Lookups go to storage, then GitHub, then yield a placeholder regardless of the list
// fallback setting. Only a malformed id fails.
func (s *Service) GetProjectDetails(ctx context.Context, raw string) (ProjectDetail, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return ProjectDetail{}, err
	}
	logger := s.logger.With("project", id.String())

	row, err := s.lookup(ctx, id)
	if err == nil {
		return ProjectDetail{Project: fromRow(row), Source: SourceDatabase}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("Failed to read project from database", "error", err)
	}

	p, err := s.fetchLiveDetail(ctx, id)
	if err == nil {
		metrics.ReadFallbacks.WithLabelValues(SourceLive).Inc()
		p.Relevance = model.ClassifyRelevance(*p)
		return ProjectDetail{Project: *p, Source: SourceLive}, nil
	}
	logger.Info("Live project lookup failed, serving placeholder", "error", err)

	metrics.ReadFallbacks.WithLabelValues(SourcePlaceholder).Inc()
	return ProjectDetail{Project: placeholder(id), Source: SourcePlaceholder}, nil
}

func (s *Service) lookup(ctx context.Context, id Identifier) (database.Project, error) {
	if id.GithubID != 0 {
		return s.store.GetProjectByGithubID(ctx, id.GithubID)
	}
	return s.store.GetProjectByOwnerAndName(ctx, database.GetProjectByOwnerAndNameParams{Owner: id.Owner, Name: id.Name})
}

func (s *Service) fetchLiveDetail(ctx context.Context, id Identifier) (*model.Project, error) {
	if id.GithubID != 0 {
		return s.live.GetRepositoryByID(ctx, id.GithubID)
	}
	return s.live.GetRepositoryDetails(ctx, id.Owner, id.Name)
}

func placeholder(id Identifier) model.Project {
	p := model.Project{
		GithubID:    id.GithubID,
		Owner:       id.Owner,
		Name:        id.Name,
		Description: "This project has not been indexed yet.",
		Topics:      []string{},
		Relevance:   model.RelevanceLow,
		Placeholder: true,
	}
	if id.Owner != "" {
		p.FullName = id.Owner + "/" + id.Name
		p.HTMLURL = "https://github.com/" + p.FullName
	} else {
		p.Name = "project-" + id.String()
		p.FullName = p.Name
	}
	return p
}

// SearchProjects matches q against stored names, descriptions and topics. When storage is
// unavailable and fallback is enabled it searches GitHub instead.
func (s *Service) SearchProjects(ctx context.Context, q string, limit int) ([]model.Project, string, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if q == "" {
		return []model.Project{}, SourceDatabase, nil
	}

	rows, err := s.store.SearchProjects(ctx, database.SearchProjectsParams{Query: q, MaxResults: int32(limit)})
	if err == nil {
		return fromRows(rows), SourceDatabase, nil
	}
	s.logger.Error("Failed to search projects in database", "query", q, "error", err)
	if !s.defaults.FallbackEnabled {
		return []model.Project{}, SourceNone, nil
	}

	projects, err := s.fetchLive(ctx, q+" "+s.liveQuery, limit)
	if err != nil {
		s.logger.Error("Failed to search projects live", "query", q, "error", err)
		return []model.Project{}, SourceNone, nil
	}
	metrics.ReadFallbacks.WithLabelValues(SourceLive).Inc()
	return projects, SourceLive, nil
}

func fromRows(rows []database.Project) []model.Project {
	out := make([]model.Project, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out
}

func fromRow(r database.Project) model.Project {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return model.Project{
		ID:            r.ID,
		GithubID:      r.GithubID,
		Owner:         r.Owner,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		HTMLURL:       r.HtmlUrl,
		Homepage:      r.Homepage,
		Stars:         int(r.Stars),
		Forks:         int(r.Forks),
		OpenIssues:    int(r.OpenIssues),
		Language:      r.Language,
		Topics:        topics,
		ReadmeExcerpt: r.ReadmeExcerpt,
		Relevance:     model.Relevance(r.Relevance),
		AvatarURL:     r.AvatarUrl,
		ImageURL:      r.ImageUrl,
		RepoCreatedAt: r.RepoCreatedAt,
		RepoUpdatedAt: r.RepoUpdatedAt,
		LastSyncedAt:  r.LastSyncedAt,
	}
}
