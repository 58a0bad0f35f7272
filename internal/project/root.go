// Package project locates the project root for a source file.
package project

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var errNoMarker = errors.New("no marker found up to filesystem root")

// languageMarkers lists the files whose presence identifies a project
// root for a language.
var languageMarkers = map[string][]string{
	"rust":       {"Cargo.toml"},
	"php":        {"composer.json"},
	"javascript": {"package.json"},
	"typescript": {"package.json"},
	"python":     {"__init__.py", "setup.py"},
	"java":       {".project", "pom.xml"},
}

var vcsMarkers = []string{".git", ".hg", ".svn"}

// Root returns the project root directory for the file at path. It
// walks ancestor directories looking for language-specific marker
// files, then for version-control directories, and finally falls back
// to the file's own directory with a logged warning.
func Root(path, languageID string) (string, error) {
	start := startDir(path)

	if root, err := languageRoot(start, languageID); err == nil {
		return root, nil
	}
	if root, err := traverseUp(start, hasAnyEntry(vcsMarkers...)); err == nil {
		return root, nil
	}

	slog.Warn("unknown project type, falling back to file directory",
		"path", path, "languageId", languageID)
	if start == "" {
		return "", errors.New("cannot determine directory of " + path)
	}
	return start, nil
}

func languageRoot(start, languageID string) (string, error) {
	switch languageID {
	case "cs":
		return traverseUp(start, isDotnetRoot)
	case "haskell":
		if root, err := traverseUp(start, hasAnyEntry("stack.yaml")); err == nil {
			return root, nil
		}
		return traverseUp(start, hasEntryWithExt(".cabal"))
	default:
		markers, ok := languageMarkers[languageID]
		if !ok {
			return "", errors.New("unknown languageId: " + languageID)
		}
		return traverseUp(start, hasAnyEntry(markers...))
	}
}

// traverseUp walks from dir to the filesystem root and returns the
// first directory satisfying the predicate.
func traverseUp(dir string, predicate func(dir string) bool) (string, error) {
	for dir != "" {
		if predicate(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errNoMarker
		}
		dir = parent
	}
	return "", errNoMarker
}

func hasAnyEntry(names ...string) func(string) bool {
	return func(dir string) bool {
		for _, name := range names {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return true
			}
		}
		return false
	}
}

func hasEntryWithExt(ext string) func(string) bool {
	return func(dir string) bool {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return false
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ext) {
				return true
			}
		}
		return false
	}
}

func isDotnetRoot(dir string) bool {
	if hasAnyEntry("project.json")(dir) {
		return true
	}
	return hasEntryWithExt(".csproj")(dir)
}

// startDir returns the directory to begin the walk from: path itself
// when it is a directory, its parent otherwise.
func startDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
