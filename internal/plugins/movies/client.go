// Package movies discovers movies through the TMDB API.
package movies

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

const defaultBaseURL = "https://api.themoviedb.org/3"

// Movie is one TMDB discover result.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	Overview    string  `json:"overview,omitempty"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
}

// DiscoverOptions filters the TMDB discover endpoint. Zero values are
// omitted from the query. Range filters map to TMDB's dot notation
// (e.g., MinRating becomes vote_average.gte).
type DiscoverOptions struct {
	Genres       string
	ReleaseAfter string
	MinRating    float64
	MinVotes     int
	MinRuntime   int
	MaxRuntime   int
	SortBy       string
}

// Client is a minimal TMDB API client.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client configured from TMDB_API_KEY.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		APIKey:     os.Getenv("TMDB_API_KEY"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type discoverResponse struct {
	Results []Movie `json:"results"`
}

// Discover queries /discover/movie with the given filters.
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) ([]Movie, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("no TMDB key, set TMDB_API_KEY")
	}

	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("include_adult", "false")
	q.Set("include_video", "false")
	q.Set("language", "en-US")
	q.Set("page", "1")

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	q.Set("sort_by", sortBy)

	if opts.Genres != "" {
		q.Set("with_genres", opts.Genres)
	}
	if opts.ReleaseAfter != "" {
		q.Set("release_date.gte", opts.ReleaseAfter)
	}
	if opts.MinRating > 0 {
		q.Set("vote_average.gte", fmt.Sprint(opts.MinRating))
	}
	if opts.MinVotes > 0 {
		q.Set("vote_count.gte", fmt.Sprint(opts.MinVotes))
	}
	if opts.MinRuntime > 0 {
		q.Set("with_runtime.gte", fmt.Sprint(opts.MinRuntime))
	}
	if opts.MaxRuntime > 0 {
		q.Set("with_runtime.lte", fmt.Sprint(opts.MaxRuntime))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/discover/movie?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying tmdb: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var parsed discoverResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return parsed.Results, nil
}
