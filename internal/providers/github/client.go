// Package github is a thin read-only client for the public GitHub REST API.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// ReposPageSize and ReposSort are fixed by the profile page: the five
	// oldest repositories.
	ReposPageSize = 5
	ReposSort     = "created:asc"

	maxBodyBytes = 4 << 20
)

// Config holds the optional credentials and transport settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Token        string
	UserAgent    string
	Timeout      time.Duration // zero means no client-side timeout

	// MaxConcurrent bounds in-flight upstream calls; zero means unbounded.
	MaxConcurrent int64
}

// Client issues unauthenticated or app-authenticated reads.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sem        *semaphore.Weighted
}

// New creates a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "devconnect"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{cfg: cfg, httpClient: httpClient}
	if cfg.MaxConcurrent > 0 {
		c.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return c
}

// ListRepos fetches a user's repositories. Any upstream status is returned
// to the caller untouched together with the raw body; err is set only when
// the request could not be completed.
func (c *Client) ListRepos(ctx context.Context, username string) (int, []byte, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return 0, nil, fmt.Errorf("wait for slot: %w", err)
		}
		defer c.sem.Release(1)
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(ReposPageSize))
	params.Set("sort", ReposSort)
	if c.cfg.ClientID != "" && c.cfg.ClientSecret != "" {
		params.Set("client_id", c.cfg.ClientID)
		params.Set("client_secret", c.cfg.ClientSecret)
	}

	u := c.cfg.BaseURL + "/users/" + url.PathEscape(username) + "/repos?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}
