package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

// now is replaced in tests to pin the year-based date window.
var now = time.Now

// Plugin returns the movies plugin descriptor.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "movies",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("discover_movies", discoverMovies)
			return nil
		},
	}
}

// optionsFrom builds discover filters from merged parameters. The release
// window starts at start_year (or the current year minus years_back,
// defaulting to the current year).
func optionsFrom(merged map[string]string) (DiscoverOptions, int, error) {
	opts := DiscoverOptions{
		Genres:   merged["genres"],
		SortBy:   merged["sort_by"],
		MinVotes: 100,
	}

	startYear := now().Year()
	if v := merged["start_year"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, 0, fmt.Errorf("invalid start_year %q: %w", v, err)
		}
		startYear = n
	} else if v := merged["years_back"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, 0, fmt.Errorf("invalid years_back %q: %w", v, err)
		}
		startYear -= n
	}
	opts.ReleaseAfter = fmt.Sprintf("%d-01-01", startYear)

	if v := merged["min_rating"]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, 0, fmt.Errorf("invalid min_rating %q: %w", v, err)
		}
		opts.MinRating = f
	}

	for _, f := range []struct {
		key string
		dst *int
	}{
		{"min_votes", &opts.MinVotes},
		{"min_runtime", &opts.MinRuntime},
		{"max_runtime", &opts.MaxRuntime},
	} {
		if v := merged[f.key]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, 0, fmt.Errorf("invalid %s %q: %w", f.key, v, err)
			}
			*f.dst = n
		}
	}
	if opts.MinRuntime == 0 {
		opts.MinRuntime = 60
	}

	limit := 0
	if v := merged["limit"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, 0, fmt.Errorf("invalid limit %q: %w", v, err)
		}
		limit = n
	}
	return opts, limit, nil
}

// discoverMovies returns matching movies as JSON.
func discoverMovies(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("movies")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	opts, limit, err := optionsFrom(merged)
	if err != nil {
		return "", err
	}

	results, err := NewClient().Discover(ctx, opts)
	if err != nil {
		return "", err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out, err := json.MarshalIndent(map[string]any{
		"movies":        results,
		"total_results": len(results),
		"criteria": map[string]any{
			"genres":        opts.Genres,
			"min_rating":    opts.MinRating,
			"min_votes":     opts.MinVotes,
			"release_after": opts.ReleaseAfter,
		},
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	return string(out), nil
}
