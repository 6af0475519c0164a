// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/go-github/v62/github"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/metrics"
	"mcphubs/internal/model"
)

const (
	// maxRetries is the number of attempts made for a retryable upstream failure.
	maxRetries = 3

	// searchResultCap is the number of results GitHub's search API will page through.
	searchResultCap = 1000

	readmeExcerptRunes = 500

	breakerName = "github-api"
)

// SearchPage is one page of repository search results.
type SearchPage struct {
	Items    []model.RepoSummary
	Total    int
	NextPage int // 0 when this is the last page
}

// Client is a wrapper around the go-github client with rate limiting, retries and a circuit breaker.
type Client struct {
	gh      *github.Client
	logger  *slog.Logger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]

	configured       bool
	retryBackoff     time.Duration
	maxRateLimitWait time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		if u, err := url.Parse(rawURL); err == nil {
			c.gh.BaseURL = u
		}
	}
}

// WithRetryBackoff sets the base delay between attempts on 5xx responses.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.retryBackoff = d }
}

// WithMaxRateLimitWait caps how long a call will sleep for a rate-limit reset before giving up.
func WithMaxRateLimitWait(d time.Duration) Option {
	return func(c *Client) { c.maxRateLimitWait = d }
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client; an empty token leaves
// the client unconfigured and every call fails with a ConfigError.
func NewClient(token string, requestsPerMinute int, logger *slog.Logger, opts ...Option) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
		burst = requestsPerMinute
	}

	c := &Client{
		gh:               github.NewClient(httpClient),
		logger:           logger,
		limiter:          rate.NewLimiter(limit, burst),
		configured:       token != "",
		retryBackoff:     500 * time.Millisecond,
		maxRateLimitWait: 10 * time.Second,
	}
	c.breaker = newBreaker(logger)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only outages trip the breaker; a 404 or a rejected query is still an answer.
		IsSuccessful: func(err error) bool {
			return !apperrors.IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// SearchRepositories returns one page of repositories matching query, most starred first.
func (c *Client) SearchRepositories(ctx context.Context, query string, page, perPage int) (SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if (page-1)*perPage >= searchResultCap {
		return SearchPage{}, nil
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	var (
		result *github.RepositoriesSearchResult
		resp   *github.Response
	)
	err := c.call(ctx, "search_repositories", func(ctx context.Context) error {
		var err error
		result, resp, err = c.gh.Search.Repositories(ctx, query, opts)
		return err
	})
	if err != nil {
		return SearchPage{}, err
	}

	c.logger.Debug("Fetched search page", "query", query, "page", page, "count", len(result.Repositories))

	out := SearchPage{Total: result.GetTotal()}
	for _, r := range result.Repositories {
		out.Items = append(out.Items, toRepoSummary(r))
	}
	if resp != nil && page*perPage < searchResultCap {
		out.NextPage = resp.NextPage
	}
	return out, nil
}

// GetRepositoryDetails fetches a repository with its README excerpt.
func (c *Client) GetRepositoryDetails(ctx context.Context, owner, name string) (*model.Project, error) {
	var repo *github.Repository
	err := c.call(ctx, "get_repository", func(ctx context.Context) error {
		var err error
		repo, _, err = c.gh.Repositories.Get(ctx, owner, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.withReadme(ctx, repo)
}

// GetRepositoryByID fetches a repository by its numeric GitHub id.
func (c *Client) GetRepositoryByID(ctx context.Context, id int64) (*model.Project, error) {
	var repo *github.Repository
	err := c.call(ctx, "get_repository_by_id", func(ctx context.Context) error {
		var err error
		repo, _, err = c.gh.Repositories.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.withReadme(ctx, repo)
}

func (c *Client) withReadme(ctx context.Context, repo *github.Repository) (*model.Project, error) {
	owner, name := repo.GetOwner().GetLogin(), repo.GetName()

	var content *github.RepositoryContent
	err := c.call(ctx, "get_readme", func(ctx context.Context) error {
		var err error
		content, _, err = c.gh.Repositories.GetReadme(ctx, owner, name, nil)
		return err
	})

	readme := ""
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.logger.Debug("Repository has no README", "owner", owner, "repo", name)
	case err != nil:
		return nil, err
	default:
		text, decodeErr := content.GetContent()
		if decodeErr != nil {
			c.logger.Warn("Could not decode README", "owner", owner, "repo", name, "error", decodeErr)
		}
		readme = text
	}

	return toProject(repo, readme), nil
}

// call runs fn under the circuit breaker with retries and classifies its error.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if !c.configured {
		metrics.GithubRequests.WithLabelValues(op, "config").Inc()
		return &apperrors.ConfigError{Setting: "GITHUB_TOKEN"}
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.withRetry(ctx, op, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &apperrors.TransientError{Op: op, Err: fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)}
	}

	metrics.GithubRequests.WithLabelValues(op, resultClass(err)).Inc()
	return err
}

func (c *Client) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return &apperrors.TransientError{Op: op, Err: waitErr}
		}

		err = classify(op, fn(ctx))
		if err == nil || attempt == maxRetries {
			return err
		}

		delay, retry := c.retryDelay(err, attempt)
		if !retry {
			return err
		}
		c.logger.Warn("Retrying GitHub request", "op", op, "attempt", attempt, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &apperrors.TransientError{Op: op, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	return err
}

// retryDelay decides whether a classified error is worth another attempt inside this call.
func (c *Client) retryDelay(err error, attempt int) (time.Duration, bool) {
	var te *apperrors.TransientError
	if !errors.As(err, &te) {
		return 0, false
	}
	switch {
	case te.RetryAfter > 0:
		if te.RetryAfter > c.maxRateLimitWait {
			return 0, false
		}
		return te.RetryAfter, true
	case te.StatusCode >= 500:
		return c.retryBackoff * time.Duration(1<<(attempt-1)), true
	case te.StatusCode == 0:
		// Network failure; a context deadline has already been reported by fn.
		if errors.Is(te.Err, context.DeadlineExceeded) || errors.Is(te.Err, context.Canceled) {
			return 0, false
		}
		return c.retryBackoff, true
	default:
		return 0, false
	}
}

// classify maps go-github errors onto the application error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time)
		if wait <= 0 {
			wait = time.Millisecond
		}
		return &apperrors.TransientError{Op: op, StatusCode: http.StatusForbidden, RetryAfter: wait, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &apperrors.TransientError{Op: op, StatusCode: http.StatusForbidden, RetryAfter: abuseErr.GetRetryAfter(), Err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		switch {
		case status == http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		case status == http.StatusUnauthorized, status == http.StatusForbidden,
			status == http.StatusTooManyRequests, status >= 500:
			return &apperrors.TransientError{Op: op, StatusCode: status, Err: err}
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	// Timeouts, resets and DNS failures.
	return &apperrors.TransientError{Op: op, Err: err}
}

func resultClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.IsConfig(err):
		return "config"
	case apperrors.IsTransient(err):
		return "transient"
	default:
		return "error"
	}
}

// toRepoSummary translates a search hit to our internal model.RepoSummary.
func toRepoSummary(r *github.Repository) model.RepoSummary {
	return model.RepoSummary{
		GithubID:    r.GetID(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
	}
}

// toProject translates a github.Repository object to our internal model.Project.
// Missing optional fields become empty values.
func toProject(r *github.Repository, readme string) *model.Project {
	owner := r.GetOwner().GetLogin()
	fullName := r.GetFullName()
	if fullName == "" {
		fullName = owner + "/" + r.GetName()
	}
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return &model.Project{
		GithubID:      r.GetID(),
		Owner:         owner,
		Name:          r.GetName(),
		FullName:      fullName,
		Description:   r.GetDescription(),
		HTMLURL:       r.GetHTMLURL(),
		Homepage:      r.GetHomepage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Language:      r.GetLanguage(),
		Topics:        topics,
		ReadmeExcerpt: Excerpt(readme, readmeExcerptRunes),
		AvatarURL:     r.GetOwner().GetAvatarURL(),
		ImageURL:      fmt.Sprintf("https://opengraph.githubassets.com/1/%s", fullName),
		RepoCreatedAt: r.GetCreatedAt().Time,
		RepoUpdatedAt: r.GetUpdatedAt().Time,
	}
}

// Excerpt returns the first n runes of s, trimmed, without splitting a rune.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
