// Package fileutil provides markdown file discovery and output path
// helpers for the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file discovery.
var ErrNotMarkdown = errors.New("file must have .md or .markdown extension")

// IsMarkdown reports whether the path has a markdown extension.
func IsMarkdown(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// DiscoverMarkdown returns the markdown files under root. A file root
// must itself be markdown; a directory root is walked recursively and
// non-markdown files are skipped.
func DiscoverMarkdown(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !IsMarkdown(root) {
			return nil, fmt.Errorf("%w: got %q", ErrNotMarkdown, filepath.Ext(root))
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !IsMarkdown(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// OutputPath determines the HTML output path for a markdown file.
// With no output directory the fragment lands next to its source.
// With one, the source's path relative to baseInputDir is mirrored
// under it.
func OutputPath(inputPath, outDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(outDir, ".html") {
		return outDir
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outDir, filepath.Dir(rel), base+".html")
		}
	}

	return filepath.Join(outDir, base+".html")
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
