// Package arxiv searches academic papers through the arXiv API and
// distributes digests of the results.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://export.arxiv.org/api/query"

// Paper is one arXiv search result.
type Paper struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Published       string   `json:"published"`
	URL             string   `json:"url"`
	PDFURL          string   `json:"pdf_url,omitempty"`
	PrimaryCategory string   `json:"primary_category,omitempty"`
	Categories      []string `json:"categories,omitempty"`
}

// SearchOptions control a paper search.
type SearchOptions struct {
	Query      string
	Start      int
	MaxResults int
	SortBy     string // relevance, lastUpdatedDate, submittedDate
	SortOrder  string // ascending, descending
}

// Client queries the arXiv Atom API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with defaults.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// atom mirrors the subset of the Atom feed the search needs.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	} `xml:"link"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Search runs a paper search and returns the parsed results.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]Paper, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "relevance"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "descending"
	}

	q := url.Values{}
	q.Set("search_query", opts.Query)
	q.Set("start", fmt.Sprint(opts.Start))
	q.Set("max_results", fmt.Sprint(opts.MaxResults))
	q.Set("sortBy", opts.SortBy)
	q.Set("sortOrder", opts.SortOrder)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing atom feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		p := Paper{
			Title:           clean(entry.Title),
			Abstract:        clean(entry.Summary),
			Published:       entry.Published,
			PrimaryCategory: entry.PrimaryCategory.Term,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		for _, cat := range entry.Categories {
			p.Categories = append(p.Categories, cat.Term)
		}
		for _, link := range entry.Links {
			switch {
			case link.Title == "pdf":
				p.PDFURL = link.Href
			case link.Type == "text/html" || p.URL == "":
				p.URL = link.Href
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// clean collapses the whitespace arXiv wraps long fields with.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
