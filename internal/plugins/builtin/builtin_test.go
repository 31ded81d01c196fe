package builtin

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/ports"
)

type nopRunner struct{}

func (nopRunner) Run(_ context.Context, _ string, _ ...string) (ports.CommandResult, error) {
	return ports.CommandResult{}, nil
}

func discoverAll(t *testing.T) *plugin.Result {
	t.Helper()
	d := plugin.NewDiscovery(plugin.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	res, err := d.Discover(All(nopRunner{}))
	require.NoError(t, err)
	return res
}

func TestAll_EveryPluginEnabled(t *testing.T) {
	res := discoverAll(t)

	assert.Equal(t, []string{
		"arxiv", "aws_s3", "books", "email", "github", "linear",
		"mallory", "movies", "share_file", "slack", "utilities",
	}, res.Plugins)
	assert.Empty(t, res.Disabled)
	assert.Empty(t, res.LoadErrors)
	assert.Empty(t, res.Collisions)
}

func TestAll_ExpectedCapabilities(t *testing.T) {
	res := discoverAll(t)

	assert.Equal(t, []string{
		"arxiv_search",
		"create_bucket",
		"create_gist_from_directory",
		"create_gist_from_file",
		"delete_bucket",
		"discover_movies",
		"entropy",
		"fetch_mallory_stories",
		"get_linear_tickets",
		"list_linear_states",
		"markdown_to_html",
		"read_file",
		"search_books",
		"send_email",
		"send_slack_hook",
		"share_file",
		"upload_file_to_s3",
		"write_file",
	}, res.Registry.ListTasks())

	// Workflow suffixes are stripped from flow names.
	assert.Equal(t, []string{
		"arxiv_digest", "books_digest", "linear_status_report", "mallory_stories",
	}, res.Registry.ListFlows())
}

func TestAll_DependenciesDeclared(t *testing.T) {
	res := discoverAll(t)

	assert.Equal(t, []string{"email", "slack"}, res.Dependencies["arxiv"])
	assert.Equal(t, []string{"email", "slack"}, res.Dependencies["linear"])
	assert.Equal(t, []string{"email", "slack"}, res.Dependencies["mallory"])
	assert.Equal(t, []string{"email"}, res.Dependencies["books"])
	assert.Equal(t, []string{"aws_s3"}, res.Dependencies["share_file"])
	assert.NotContains(t, res.Dependencies, "utilities")
}
