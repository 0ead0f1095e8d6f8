package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRepos_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created:asc", r.URL.Query().Get("sort"))
		assert.Equal(t, "id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("client_secret"))
		assert.Equal(t, "devconnect-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"name":"hello-world"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", ClientID: "id", ClientSecret: "secret", UserAgent: "devconnect-test"}, nil)
	status, body, err := c.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, string(body))
}

func TestListRepos_UpstreamStatusPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "tok"}, nil)
	status, _, err := c.ListRepos(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListRepos_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil)
	_, _, err := c.ListRepos(context.Background(), "octocat")
	assert.Error(t, err)
}

func TestListRepos_WaitsForSlot(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		started <- struct{}{}
		<-release
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL, MaxConcurrent: 1}, nil)
	go c.ListRepos(context.Background(), "first") //nolint:errcheck
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := c.ListRepos(ctx, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
