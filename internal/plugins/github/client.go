// Package github creates GitHub gists from local files.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub gists client.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client configured from GITHUB_API_KEY.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      os.Getenv("GITHUB_API_KEY"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type gistFile struct {
	Content string `json:"content"`
}

type gistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	HTMLURL string `json:"html_url"`
}

// CreateGist creates a gist from the given filename to content mapping and
// returns its URL.
func (c *Client) CreateGist(ctx context.Context, description string, public bool, files map[string]string) (string, error) {
	if c.Token == "" {
		return "", fmt.Errorf("no GitHub token, set GITHUB_API_KEY")
	}
	if len(files) == 0 {
		return "", fmt.Errorf("gist needs at least one file")
	}

	payload := gistRequest{
		Description: description,
		Public:      public,
		Files:       make(map[string]gistFile, len(files)),
	}
	for name, content := range files {
		payload.Files[name] = gistFile{Content: content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding gist: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/gists", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("creating gist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("github returned %d: %s", resp.StatusCode, detail)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed gistResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	return parsed.HTMLURL, nil
}
