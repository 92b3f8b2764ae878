package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// PathMatcher matches repo-relative paths against gitignore-style exclusion patterns
type PathMatcher struct {
	matcher gitignore.Matcher
}

// NewPathMatcher creates a matcher from config patterns and, when useGitignore is set,
// the .gitignore files found under root
func NewPathMatcher(root string, patterns []string, useGitignore bool) *PathMatcher {
	var ps []gitignore.Pattern
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(p, nil))
	}

	if useGitignore {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(root), nil); err == nil {
				ps = append(ps, gitPatterns...)
			} else {
				Debug("Could not read .gitignore files under %s: %v", root, err)
			}
		}
	}

	if len(ps) == 0 {
		return &PathMatcher{}
	}
	return &PathMatcher{matcher: gitignore.NewMatcher(ps)}
}

// Matches reports whether a repo-relative path is excluded
func (m *PathMatcher) Matches(relPath string, isDir bool) bool {
	if m == nil || m.matcher == nil || relPath == "" || relPath == "." {
		return false
	}
	return m.matcher.Match(strings.Split(filepath.ToSlash(relPath), "/"), isDir)
}

// MatchAnyGlob reports whether name matches one of the glob patterns
func MatchAnyGlob(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// RelativePath converts a path reported by a tool or the filesystem into a
// repo-relative, slash-separated path. Absolute paths outside root collapse
// to their base name so the scan root never leaks. Returns "" for empty input.
func RelativePath(root, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	if filepath.IsAbs(path) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return filepath.Base(path)
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Base(path)
		}
		return filepath.ToSlash(rel)
	}

	rel := filepath.Clean(path)
	if rel == "." {
		return ""
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
