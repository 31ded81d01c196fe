// Package books searches and discovers books through the ISBNdb API.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "https://api2.isbndb.com"

// Book is one ISBNdb result.
type Book struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Date      string   `json:"date_published,omitempty"`
	ISBN13    string   `json:"isbn13,omitempty"`
	Synopsis  string   `json:"synopsis,omitempty"`
}

// Client is a minimal ISBNdb API client.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client configured from ISBNDB_API_KEY.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      os.Getenv("ISBNDB_API_KEY"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchResponse struct {
	Total int    `json:"total"`
	Books []Book `json:"books"`
}

// SearchBooks searches by general query.
func (c *Client) SearchBooks(ctx context.Context, query string, page, pageSize int) ([]Book, error) {
	return c.search(ctx, "/books/"+url.PathEscape(query), page, pageSize)
}

// SearchBySubject searches by subject.
func (c *Client) SearchBySubject(ctx context.Context, subject string, page, pageSize int) ([]Book, error) {
	return c.search(ctx, "/subject/"+url.PathEscape(subject), page, pageSize)
}

// SearchByAuthor searches by author name.
func (c *Client) SearchByAuthor(ctx context.Context, author string, page, pageSize int) ([]Book, error) {
	return c.search(ctx, "/author/"+url.PathEscape(author), page, pageSize)
}

func (c *Client) search(ctx context.Context, endpoint string, page, pageSize int) ([]Book, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("no ISBNdb token, set ISBNDB_API_KEY")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("pageSize", fmt.Sprint(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying isbndb: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil // no matches
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("isbndb returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return parsed.Books, nil
}
