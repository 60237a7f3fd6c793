package indexer

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Settings controls which files are indexed and whether @custom-media rules
// are read
type Settings struct {
	// LookupFiles are globs, relative to a workspace root, of files to index
	LookupFiles []string `json:"lookupFiles" yaml:"lookupFiles"`
	// BlacklistFolders are globs of directories (and files) never indexed
	BlacklistFolders []string `json:"blacklistFolders" yaml:"blacklistFolders"`
	// EnableCustomMedia turns on @custom-media indexing
	EnableCustomMedia bool `json:"enableCustomMedia" yaml:"enableCustomMedia"`
	// FetchTimeout bounds each remote import fetch. Zero means no bound.
	FetchTimeout time.Duration `json:"-" yaml:"-"`
}

// DefaultLookupFiles are the stylesheet globs indexed when none are configured
var DefaultLookupFiles = []string{
	"**/*.less",
	"**/*.scss",
	"**/*.sass",
	"**/*.css",
}

// DefaultBlacklistFolders are the globs skipped when none are configured
var DefaultBlacklistFolders = []string{
	"**/.cache",
	"**/.DS_Store",
	"**/.git",
	"**/.hg",
	"**/.next",
	"**/.svn",
	"**/bower_components",
	"**/CVS",
	"**/dist",
	"**/node_modules",
	"**/tests",
	"**/tmp",
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		LookupFiles:      slices.Clone(DefaultLookupFiles),
		BlacklistFolders: slices.Clone(DefaultBlacklistFolders),
	}
}

// Validate checks every glob for syntax errors
func (s Settings) Validate() error {
	for _, pattern := range slices.Concat(s.LookupFiles, s.BlacklistFolders) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// Matches reports whether a path relative to a workspace root should be
// indexed: it matches a lookup glob, and neither it nor any parent directory
// matches a blacklist glob
func (s Settings) Matches(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	if !matchesAnyPattern(rel, s.LookupFiles) {
		return false
	}
	for dir := rel; dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		if matchesAnyPattern(dir, s.BlacklistFolders) {
			return false
		}
	}
	return true
}

// matchesAnyPattern checks if a slash path matches any of the given glob
// patterns. Invalid patterns never match.
func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}
