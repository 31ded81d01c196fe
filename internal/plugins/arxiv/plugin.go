package arxiv

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

// Plugin returns the arxiv plugin descriptor. The digest flow mails and
// posts results, so the plugin requires the email and slack plugins.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:         "arxiv",
		Version:      "v1.1.0",
		Dependencies: []string{"email", "slack"},
		Tasks: func(b *plugin.Binder) error {
			b.Register("arxiv_search", search)
			return nil
		},
		Flows: func(b *plugin.Binder) error {
			b.Register("arxiv_digest_workflow", digestWorkflow)
			return nil
		},
	}
}

// optionsFrom builds SearchOptions from merged parameters.
func optionsFrom(merged map[string]string) (SearchOptions, error) {
	opts := SearchOptions{
		Query:     merged["query"],
		SortBy:    merged["sort_by"],
		SortOrder: merged["sort_order"],
	}
	if opts.Query == "" {
		return opts, fmt.Errorf("no query specified, provide --param query='all:electron'")
	}
	if v := merged["max_results"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid max_results %q: %w", v, err)
		}
		opts.MaxResults = n
	}
	if v := merged["start"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid start %q: %w", v, err)
		}
		opts.Start = n
	}
	return opts, nil
}

// search queries arXiv and returns the results as JSON.
func search(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("arxiv")
	if err != nil {
		return "", err
	}
	opts, err := optionsFrom(cfg.Merge(params))
	if err != nil {
		return "", err
	}

	papers, err := NewClient().Search(ctx, opts)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(map[string]any{
		"query":         opts.Query,
		"total_results": len(papers),
		"papers":        papers,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	return string(out), nil
}
