package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

const defaultDescription = "Gist created by Korben"

// Plugin returns the github plugin descriptor.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "github",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("create_gist_from_file", createGistFromFile)
			b.Register("create_gist_from_directory", createGistFromDirectory)
			return nil
		},
	}
}

// gistSettings resolves the description and visibility from merged
// parameters. Visibility defaults to public.
func gistSettings(merged map[string]string) (string, bool) {
	description := merged["description"]
	if description == "" {
		description = merged["default_description"]
	}
	if description == "" {
		description = defaultDescription
	}
	return description, merged["public"] != "false"
}

// expandHome resolves a leading ~/ against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func createGistFromFile(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("github")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	path := merged["file_path"]
	if path == "" {
		return "", fmt.Errorf("no file_path specified, provide --param file_path=PATH")
	}
	path = expandHome(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	description, public := gistSettings(merged)
	url, err := NewClient().CreateGist(ctx, description, public, map[string]string{
		filepath.Base(path): string(content),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Gist created successfully: %s", url), nil
}

// collectGistFiles reads the text files in dir. Binary files cannot go
// into a gist; anything that is not valid UTF-8 is skipped.
func collectGistFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		if !utf8.Valid(content) {
			continue
		}
		files[entry.Name()] = string(content)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no readable text files found in %s", dir)
	}
	return files, nil
}

func createGistFromDirectory(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("github")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	dir := merged["directory_path"]
	if dir == "" {
		return "", fmt.Errorf("no directory_path specified, provide --param directory_path=PATH")
	}
	dir = expandHome(dir)

	files, err := collectGistFiles(dir)
	if err != nil {
		return "", err
	}

	description, public := gistSettings(merged)
	url, err := NewClient().CreateGist(ctx, description, public, files)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Gist created successfully with %d files: %s", len(files), url), nil
}
