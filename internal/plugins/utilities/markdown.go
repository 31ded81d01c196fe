package utilities

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// markdownToHTML converts markdown text to HTML, e.g. to prepare extracted
// notes for an HTML email.
func markdownToHTML(_ context.Context, params map[string]string) (string, error) {
	text, ok := params["text"]
	if !ok {
		return "", fmt.Errorf("no text specified, provide --param text=MARKDOWN")
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}
