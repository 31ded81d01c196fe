package movies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_BuildsDotNotationQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "28,878", q.Get("with_genres"))
		assert.Equal(t, "2024-01-01", q.Get("release_date.gte"))
		assert.Equal(t, "7.5", q.Get("vote_average.gte"))
		assert.Equal(t, "200", q.Get("vote_count.gte"))
		assert.Equal(t, "90", q.Get("with_runtime.gte"))
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))
		assert.Equal(t, "false", q.Get("include_adult"))
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"title":"Dune: Part Two","vote_average":8.2,"vote_count":5000},
			{"id":2,"title":"Civil War","vote_average":7.0,"vote_count":1200}
		]}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "secret", HTTPClient: srv.Client()}
	results, err := c.Discover(context.Background(), DiscoverOptions{
		Genres:       "28,878",
		ReleaseAfter: "2024-01-01",
		MinRating:    7.5,
		MinVotes:     200,
		MinRuntime:   90,
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Dune: Part Two", results[0].Title)
	assert.InDelta(t, 8.2, results[0].VoteAverage, 0.001)
}

func TestDiscover_NoKey(t *testing.T) {
	c := &Client{BaseURL: "http://unused", HTTPClient: http.DefaultClient}
	_, err := c.Discover(context.Background(), DiscoverOptions{})
	assert.ErrorContains(t, err, "TMDB_API_KEY")
}

func TestDiscover_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "bad", HTTPClient: srv.Client()}
	_, err := c.Discover(context.Background(), DiscoverOptions{})
	assert.ErrorContains(t, err, "tmdb returned 401")
}

func TestOptionsFrom_Defaults(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	opts, limit, err := optionsFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", opts.ReleaseAfter)
	assert.Equal(t, 100, opts.MinVotes)
	assert.Equal(t, 60, opts.MinRuntime)
	assert.Zero(t, limit)
}

func TestOptionsFrom_YearsBack(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	opts, limit, err := optionsFrom(map[string]string{"years_back": "2", "limit": "5"})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", opts.ReleaseAfter)
	assert.Equal(t, 5, limit)
}

func TestOptionsFrom_StartYearWinsOverYearsBack(t *testing.T) {
	opts, _, err := optionsFrom(map[string]string{"start_year": "2020", "years_back": "1"})
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", opts.ReleaseAfter)
}

func TestOptionsFrom_InvalidNumber(t *testing.T) {
	_, _, err := optionsFrom(map[string]string{"min_rating": "high"})
	assert.ErrorContains(t, err, "invalid min_rating")
}

func TestPlugin_Descriptor(t *testing.T) {
	d := Plugin()
	assert.Equal(t, "movies", d.Name)
	assert.Empty(t, d.Dependencies)
	require.NotNil(t, d.Tasks)
	assert.Nil(t, d.Flows)
}
