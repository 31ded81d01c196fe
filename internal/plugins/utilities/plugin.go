// Package utilities provides generic reusable tasks for workflows, such as
// file I/O and markdown conversion.
package utilities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/korben-sh/korben/internal/domain/plugin"
)

// Plugin returns the utilities plugin descriptor.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "utilities",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("read_file", readFile)
			b.Register("write_file", writeFile)
			b.Register("markdown_to_html", markdownToHTML)
			b.Register("entropy", entropy)
			return nil
		},
	}
}

// tmpDir returns the scratch directory relative file paths resolve against.
func tmpDir() string {
	if dir := os.Getenv("KORBEN_TMP_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "korben")
}

// resolvePath makes relative paths relative to the scratch directory.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(tmpDir(), path)
}

func readFile(_ context.Context, params map[string]string) (string, error) {
	path := params["file_path"]
	if path == "" {
		return "", fmt.Errorf("no file_path specified, provide --param file_path=PATH")
	}

	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writeFile(_ context.Context, params map[string]string) (string, error) {
	path := params["file_path"]
	if path == "" {
		return "", fmt.Errorf("no file_path specified, provide --param file_path=PATH")
	}
	content, ok := params["content"]
	if !ok {
		return "", fmt.Errorf("no content specified, provide --param content=TEXT")
	}

	full := resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return fmt.Sprintf("Wrote %d bytes to %s", len(content), full), nil
}
