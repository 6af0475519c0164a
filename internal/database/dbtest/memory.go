// Package dbtest provides an in-memory database.Store for tests.
package dbtest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"mcphubs/internal/database"
)

// Memory implements database.Store and database.Locker. It has no rollback:
// ExecTx applies writes as they happen.
type Memory struct {
	mu sync.Mutex

	nextProjectID int64
	projects      map[int64]database.Project // keyed by github id
	position      *database.SyncPosition
	runs          []database.SyncRun
	servers       map[string]database.RemoteServer // keyed by name
	clients       map[string]database.Client
	submissions   map[uuid.UUID]database.Submission
	locked        map[int64]bool

	failures map[string]error
	writes   int
}

var (
	_ database.Store  = (*Memory)(nil)
	_ database.Locker = (*Memory)(nil)
)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		projects:    make(map[int64]database.Project),
		servers:     make(map[string]database.RemoteServer),
		clients:     make(map[string]database.Client),
		submissions: make(map[uuid.UUID]database.Submission),
		locked:      make(map[int64]bool),
		failures:    make(map[string]error),
	}
}

// FailOn makes every call to the named Querier method return err. A nil err clears it.
func (m *Memory) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// Writes counts successful mutating calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Projects returns a snapshot ordered by id.
func (m *Memory) Projects() []database.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedProjects()
}

// SeedProject inserts p directly, assigning an id.
func (m *Memory) SeedProject(p database.Project) database.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProjectID++
	p.ID = m.nextProjectID
	m.projects[p.GithubID] = p
	return p
}

func (m *Memory) fail(method string) error {
	return m.failures[method]
}

func (m *Memory) sortedProjects() []database.Project {
	out := make([]database.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m)
}

func (m *Memory) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[key] {
		return nil, false, nil
	}
	m.locked[key] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locked, key)
	}, true, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Ping"); err != nil {
		return err
	}
	return ctx.Err()
}

// Projects

func (m *Memory) CreateProject(ctx context.Context, arg database.CreateProjectParams) (database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateProject"); err != nil {
		return database.Project{}, err
	}
	if _, exists := m.projects[arg.GithubID]; exists {
		return database.Project{}, &uniqueViolation{column: "github_id"}
	}
	now := time.Now().UTC()
	m.nextProjectID++
	p := database.Project{
		ID:            m.nextProjectID,
		GithubID:      arg.GithubID,
		Owner:         arg.Owner,
		Name:          arg.Name,
		FullName:      arg.FullName,
		Description:   arg.Description,
		HtmlUrl:       arg.HtmlUrl,
		Homepage:      arg.Homepage,
		Stars:         arg.Stars,
		Forks:         arg.Forks,
		OpenIssues:    arg.OpenIssues,
		Language:      arg.Language,
		Topics:        slices.Clone(arg.Topics),
		ReadmeExcerpt: arg.ReadmeExcerpt,
		Relevance:     arg.Relevance,
		AvatarUrl:     arg.AvatarUrl,
		ImageUrl:      arg.ImageUrl,
		RepoCreatedAt: arg.RepoCreatedAt,
		RepoUpdatedAt: arg.RepoUpdatedAt,
		LastSyncedAt:  arg.LastSyncedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.projects[p.GithubID] = p
	m.writes++
	return p, nil
}

func (m *Memory) UpdateProject(ctx context.Context, arg database.UpdateProjectParams) (database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateProject"); err != nil {
		return database.Project{}, err
	}
	for gid, p := range m.projects {
		if p.ID != arg.ID {
			continue
		}
		p.Owner = arg.Owner
		p.Name = arg.Name
		p.FullName = arg.FullName
		p.Description = arg.Description
		p.HtmlUrl = arg.HtmlUrl
		p.Homepage = arg.Homepage
		p.Stars = arg.Stars
		p.Forks = arg.Forks
		p.OpenIssues = arg.OpenIssues
		p.Language = arg.Language
		p.Topics = slices.Clone(arg.Topics)
		p.ReadmeExcerpt = arg.ReadmeExcerpt
		p.Relevance = arg.Relevance
		p.AvatarUrl = arg.AvatarUrl
		p.ImageUrl = arg.ImageUrl
		p.RepoUpdatedAt = arg.RepoUpdatedAt
		p.LastSyncedAt = arg.LastSyncedAt
		p.UpdatedAt = time.Now().UTC()
		m.projects[gid] = p
		m.writes++
		return p, nil
	}
	return database.Project{}, pgx.ErrNoRows
}

func (m *Memory) GetProjectByGithubID(ctx context.Context, githubID int64) (database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProjectByGithubID"); err != nil {
		return database.Project{}, err
	}
	p, ok := m.projects[githubID]
	if !ok {
		return database.Project{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *Memory) GetProjectByOwnerAndName(ctx context.Context, arg database.GetProjectByOwnerAndNameParams) (database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProjectByOwnerAndName"); err != nil {
		return database.Project{}, err
	}
	var (
		best  database.Project
		found bool
	)
	for _, p := range m.projects {
		if !strings.EqualFold(p.Owner, arg.Owner) || !strings.EqualFold(p.Name, arg.Name) {
			continue
		}
		if !found || p.LastSyncedAt.After(best.LastSyncedAt) ||
			(p.LastSyncedAt.Equal(best.LastSyncedAt) && p.ID > best.ID) {
			best, found = p, true
		}
	}
	if !found {
		return database.Project{}, pgx.ErrNoRows
	}
	return best, nil
}

func (m *Memory) ListProjects(ctx context.Context, arg database.ListProjectsParams) ([]database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListProjects"); err != nil {
		return nil, err
	}
	all := m.sortedProjects()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Stars > all[j].Stars })
	return window(all, int(arg.Offset), int(arg.Limit)), nil
}

func (m *Memory) ListAllProjects(ctx context.Context) ([]database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListAllProjects"); err != nil {
		return nil, err
	}
	return m.sortedProjects(), nil
}

func (m *Memory) SearchProjects(ctx context.Context, arg database.SearchProjectsParams) ([]database.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SearchProjects"); err != nil {
		return nil, err
	}
	q := strings.ToLower(arg.Query)
	var out []database.Project
	for _, p := range m.sortedProjects() {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			slices.Contains(p.Topics, q) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	return window(out, 0, int(arg.MaxResults)), nil
}

func window(ps []database.Project, offset, limit int) []database.Project {
	if offset >= len(ps) {
		return nil
	}
	ps = ps[offset:]
	if limit >= 0 && limit < len(ps) {
		ps = ps[:limit]
	}
	return ps
}

// Sync position and runs

func (m *Memory) InitSyncPosition(ctx context.Context) (database.SyncPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InitSyncPosition"); err != nil {
		return database.SyncPosition{}, err
	}
	if m.position == nil {
		m.position = &database.SyncPosition{ID: 1}
	}
	return *m.position, nil
}

func (m *Memory) GetSyncPosition(ctx context.Context) (database.SyncPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetSyncPosition"); err != nil {
		return database.SyncPosition{}, err
	}
	if m.position == nil {
		return database.SyncPosition{}, pgx.ErrNoRows
	}
	return *m.position, nil
}

func (m *Memory) AdvanceSyncPosition(ctx context.Context, arg database.AdvanceSyncPositionParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AdvanceSyncPosition"); err != nil {
		return 0, err
	}
	if m.position == nil || m.position.Revision != arg.ExpectedRevision || m.position.Offset > arg.NewOffset {
		return 0, nil
	}
	m.position.Offset = arg.NewOffset
	m.position.LastGithubID = arg.LastGithubID
	m.position.LastRunAt = arg.LastRunAt
	m.position.LastOutcome = arg.LastOutcome
	m.position.Revision++
	m.writes++
	return 1, nil
}

func (m *Memory) ResetSyncPosition(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ResetSyncPosition"); err != nil {
		return err
	}
	if m.position == nil {
		return nil
	}
	m.position.Offset = 0
	m.position.LastGithubID = 0
	m.position.LastOutcome = "reset"
	m.position.Revision++
	m.writes++
	return nil
}

// SetPositionRevision bumps the stored revision, simulating a concurrent writer.
func (m *Memory) SetPositionRevision(rev int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.position == nil {
		m.position = &database.SyncPosition{ID: 1}
	}
	m.position.Revision = rev
}

func (m *Memory) CreateSyncRun(ctx context.Context, arg database.CreateSyncRunParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateSyncRun"); err != nil {
		return err
	}
	m.runs = append(m.runs, database.SyncRun{
		ID:          arg.ID,
		Source:      arg.Source,
		Outcome:     arg.Outcome,
		SkipReason:  arg.SkipReason,
		Seen:        arg.Seen,
		Inserted:    arg.Inserted,
		Updated:     arg.Updated,
		Errors:      arg.Errors,
		StartOffset: arg.StartOffset,
		EndOffset:   arg.EndOffset,
		Message:     arg.Message,
		StartedAt:   arg.StartedAt,
		FinishedAt:  arg.FinishedAt,
	})
	return nil
}

// SeedSyncRun appends a run record directly.
func (m *Memory) SeedSyncRun(r database.SyncRun) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, r)
}

func (m *Memory) latestRun(match func(database.SyncRun) bool) (database.SyncRun, error) {
	var best *database.SyncRun
	for i := range m.runs {
		r := &m.runs[i]
		if !match(*r) {
			continue
		}
		if best == nil || !r.StartedAt.Before(best.StartedAt) {
			best = r
		}
	}
	if best == nil {
		return database.SyncRun{}, pgx.ErrNoRows
	}
	return *best, nil
}

func (m *Memory) GetLatestSyncRun(ctx context.Context) (database.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestRun(func(r database.SyncRun) bool { return r.Outcome != "skipped" })
}

func (m *Memory) GetLastSuccessfulSyncRun(ctx context.Context) (database.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestRun(func(r database.SyncRun) bool {
		return r.Outcome == "success" || r.Outcome == "partial" || r.Outcome == "exhausted"
	})
}

func (m *Memory) ListSyncRuns(ctx context.Context, limit int32) ([]database.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.runs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Catalog

func (m *Memory) UpsertRemoteServer(ctx context.Context, arg database.UpsertRemoteServerParams) (database.RemoteServer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertRemoteServer"); err != nil {
		return database.RemoteServer{}, err
	}
	now := time.Now().UTC()
	s, ok := m.servers[arg.Name]
	if !ok {
		s = database.RemoteServer{ID: arg.ID, Name: arg.Name, CreatedAt: now}
	}
	s.Url = arg.Url
	s.Transport = arg.Transport
	s.AuthType = arg.AuthType
	s.Status = arg.Status
	s.Description = arg.Description
	s.UpdatedAt = now
	m.servers[arg.Name] = s
	m.writes++
	return s, nil
}

func (m *Memory) GetRemoteServer(ctx context.Context, id uuid.UUID) (database.RemoteServer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.servers {
		if s.ID == id {
			return s, nil
		}
	}
	return database.RemoteServer{}, pgx.ErrNoRows
}

func (m *Memory) ListRemoteServers(ctx context.Context) ([]database.RemoteServer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListRemoteServers"); err != nil {
		return nil, err
	}
	out := make([]database.RemoteServer, 0, len(m.servers))
	for _, s := range m.servers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpsertClient(ctx context.Context, arg database.UpsertClientParams) (database.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertClient"); err != nil {
		return database.Client{}, err
	}
	now := time.Now().UTC()
	c, ok := m.clients[arg.Name]
	if !ok {
		c = database.Client{ID: arg.ID, Name: arg.Name, CreatedAt: now}
	}
	c.Homepage = arg.Homepage
	c.Platforms = slices.Clone(arg.Platforms)
	c.Status = arg.Status
	c.Description = arg.Description
	c.UpdatedAt = now
	m.clients[arg.Name] = c
	m.writes++
	return c, nil
}

func (m *Memory) ListClients(ctx context.Context) ([]database.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]database.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateSubmission(ctx context.Context, arg database.CreateSubmissionParams) (database.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateSubmission"); err != nil {
		return database.Submission{}, err
	}
	s := database.Submission{
		ID:             arg.ID,
		Kind:           arg.Kind,
		Name:           arg.Name,
		Url:            arg.Url,
		SubmitterEmail: arg.SubmitterEmail,
		Notes:          arg.Notes,
		Status:         "pending",
		CreatedAt:      time.Now().UTC(),
	}
	m.submissions[s.ID] = s
	m.writes++
	return s, nil
}

func (m *Memory) GetSubmission(ctx context.Context, id uuid.UUID) (database.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return database.Submission{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *Memory) ListSubmissionsByStatus(ctx context.Context, status string) ([]database.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Submission
	for _, s := range m.submissions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateSubmissionStatus(ctx context.Context, arg database.UpdateSubmissionStatusParams) (database.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[arg.ID]
	if !ok || s.Status != "pending" {
		return database.Submission{}, pgx.ErrNoRows
	}
	s.Status = arg.Status
	s.ApprovedAt = arg.ApprovedAt
	s.RejectedAt = arg.RejectedAt
	s.RejectionReason = arg.RejectionReason
	m.submissions[arg.ID] = s
	m.writes++
	return s, nil
}

// Timestamptz is a small helper for building nullable timestamps in tests.
func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

type uniqueViolation struct {
	column string
}

func (e *uniqueViolation) Error() string {
	return "duplicate key value violates unique constraint on " + e.column
}
