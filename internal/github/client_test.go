package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcphubs/internal/errors"
)

// setupTestClient creates a httptest server and a client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewClient("test-token", 0, logger,
		WithBaseURL(server.URL),
		WithRetryBackoff(time.Millisecond),
	)
}

const repoJSON = `{"id": 1, "name": "repo", "full_name": "test/repo", "owner": {"login": "test", "avatar_url": "https://avatars.example/test"},
	"description": "An MCP server", "stargazers_count": 42, "forks_count": 3, "language": "Go", "topics": ["mcp"]}`

func readmeJSON(body string) string {
	return fmt.Sprintf(`{"type": "file", "encoding": "base64", "content": %q}`, base64.StdEncoding.EncodeToString([]byte(body)))
}

func TestClient_GetRepositoryDetails_Retry(t *testing.T) {
	t.Run("succeeds on first try", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			switch r.URL.Path {
			case "/repos/test/repo":
				fmt.Fprintln(w, repoJSON)
			case "/repos/test/repo/readme":
				fmt.Fprintln(w, readmeJSON("# Repo\n\nHello"))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})
		client := setupTestClient(t, handler)

		repo, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
		assert.Equal(t, "repo", repo.Name)
		assert.Equal(t, "test", repo.Owner)
		assert.Equal(t, int64(1), repo.GithubID)
		assert.Equal(t, 42, repo.Stars)
		assert.Equal(t, []string{"mcp"}, repo.Topics)
		assert.Equal(t, "# Repo\n\nHello", repo.ReadmeExcerpt)
		assert.Equal(t, "https://avatars.example/test", repo.AvatarURL)
	})

	t.Run("retries on 503 server error and succeeds", func(t *testing.T) {
		var repoRequests int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/test/repo/readme" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			count := atomic.AddInt32(&repoRequests, 1)
			if count == 1 {
				w.WriteHeader(http.StatusServiceUnavailable) // Fail first time
				return
			}
			fmt.Fprintln(w, repoJSON)
		})
		client := setupTestClient(t, handler)

		repo, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&repoRequests), "should have made two requests")
		assert.Empty(t, repo.ReadmeExcerpt)
	})

	t.Run("handles rate limit error", func(t *testing.T) {
		var repoRequests int32
		resetTime := time.Now().Add(time.Second)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/test/repo/readme" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			count := atomic.AddInt32(&repoRequests, 1)
			if count == 1 {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
				return
			}
			fmt.Fprintln(w, repoJSON)
		})
		client := setupTestClient(t, handler)

		_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&repoRequests))
	})

	t.Run("gives up when the rate limit resets too far ahead", func(t *testing.T) {
		var repoRequests int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&repoRequests, 1)
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
		})
		client := setupTestClient(t, handler)

		_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&repoRequests))
	})

	t.Run("fails after max retries on persistent server error", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client := setupTestClient(t, handler)

		_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))
		var ghErr *github.ErrorResponse
		assert.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusInternalServerError, ghErr.Response.StatusCode)
		assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&requestCount))
	})
}

func TestClient_ErrorClasses(t *testing.T) {
	t.Run("404 is not found, not transient", func(t *testing.T) {
		client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		}))

		_, err := client.GetRepositoryDetails(context.Background(), "ghost", "repo")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.False(t, apperrors.IsTransient(err))
	})

	t.Run("401 is transient and not retried", func(t *testing.T) {
		var requestCount int32
		client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"message": "Bad credentials"}`)
		}))

		_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

		var te *apperrors.TransientError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("missing token is a configuration error", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		client := NewClient("", 0, logger)

		_, err := client.SearchRepositories(context.Background(), "mcp", 1, 10)

		var ce *apperrors.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "GITHUB_TOKEN", ce.Setting)
	})

	t.Run("per-call deadline surfaces as transient", func(t *testing.T) {
		client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.GetRepositoryDetails(ctx, "slow", "repo")

		assert.True(t, apperrors.IsTransient(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var requestCount int32
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	for i := 0; i < 5; i++ {
		_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")
		require.Error(t, err)
	}
	before := atomic.LoadInt32(&requestCount)

	_, err := client.GetRepositoryDetails(context.Background(), "test", "repo")

	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, before, atomic.LoadInt32(&requestCount), "open breaker must not reach the server")
}

func TestClient_SearchRepositories(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "mcp", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		w.Header().Set("Link", `<https://api.github.com/search/repositories?q=mcp&page=3>; rel="next"`)
		fmt.Fprintln(w, `{"total_count": 5, "items": [
			{"id": 10, "name": "a", "owner": {"login": "o1"}, "stargazers_count": 9},
			{"id": 11, "name": "b", "owner": {"login": "o2"}}
		]}`)
	}))

	page, err := client.SearchRepositories(context.Background(), "mcp", 2, 2)

	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.NextPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(10), page.Items[0].GithubID)
	assert.Equal(t, "o1", page.Items[0].Owner)
	assert.Equal(t, 9, page.Items[0].Stars)
	assert.Empty(t, page.Items[1].Description)
}

func TestClient_SearchRepositories_BeyondResultCap(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	page, err := client.SearchRepositories(context.Background(), "mcp", 11, 100)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.NextPage)
}

func TestClient_GetRepositoryByID_DefaultsMissingFields(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repositories/77":
			fmt.Fprintln(w, `{"id": 77, "name": "bare", "owner": {"login": "o"}}`)
		case strings.HasSuffix(r.URL.Path, "/readme"):
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))

	p, err := client.GetRepositoryByID(context.Background(), 77)

	require.NoError(t, err)
	assert.Equal(t, "o/bare", p.FullName)
	assert.Empty(t, p.Description)
	assert.NotNil(t, p.Topics)
	assert.Empty(t, p.Topics)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "abc", Excerpt("  abc  ", 10))
	assert.Equal(t, "héll", Excerpt("héllo", 4))
	assert.Equal(t, "", Excerpt("", 4))
}
