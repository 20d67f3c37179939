// Package github fetches a user's public repositories from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devconnector/devconnector-go/internal/cache"
)

// ErrNotFound is returned when GitHub answers with anything other than 200.
var ErrNotFound = errors.New("github profile not found")

const cacheTTL = 10 * time.Minute

// Client lists repositories for a GitHub username.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *cache.Cache
}

// NewClient creates a Client against baseURL. token is optional; cache may be nil.
func NewClient(baseURL, token string, c *cache.Cache) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   c,
	}
}

// Repos returns the five oldest-created public repositories of username as
// the raw GitHub JSON array.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	var repos json.RawMessage
	err := c.cache.Aside(ctx, "github:repos:"+username, &repos, cacheTTL, func() error {
		body, err := c.fetch(ctx, username)
		if err != nil {
			return err
		}
		repos = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) fetch(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=asc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("github returned invalid JSON")
	}
	return body, nil
}
