// Package builtin enumerates the plugins compiled into korben. The slice
// returned by All is the input to the discovery pass; order does not matter
// because discovery sorts by name.
package builtin

import (
	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/plugins/arxiv"
	"github.com/korben-sh/korben/internal/plugins/awss3"
	"github.com/korben-sh/korben/internal/plugins/books"
	"github.com/korben-sh/korben/internal/plugins/email"
	"github.com/korben-sh/korben/internal/plugins/github"
	"github.com/korben-sh/korben/internal/plugins/linear"
	"github.com/korben-sh/korben/internal/plugins/mallory"
	"github.com/korben-sh/korben/internal/plugins/movies"
	"github.com/korben-sh/korben/internal/plugins/sharefile"
	"github.com/korben-sh/korben/internal/plugins/slack"
	"github.com/korben-sh/korben/internal/plugins/utilities"
	"github.com/korben-sh/korben/internal/ports"
)

// All returns the descriptors of every built-in plugin.
func All(runner ports.CommandRunner) []plugin.Descriptor {
	return []plugin.Descriptor{
		arxiv.Plugin(),
		awss3.Plugin(runner),
		books.Plugin(),
		email.Plugin(),
		github.Plugin(),
		linear.Plugin(),
		mallory.Plugin(),
		movies.Plugin(),
		sharefile.Plugin(runner),
		slack.Plugin(),
		utilities.Plugin(),
	}
}
