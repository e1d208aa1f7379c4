package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures the watcher behavior.
type Options struct {
	// IgnorePatterns are glob patterns matched against file base names.
	IgnorePatterns []string

	// SettleDelay is how long the directory must stay quiet before a
	// reload fires.
	SettleDelay time.Duration
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 500 * time.Millisecond
	}

	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			"*.tmp",
			"*.temp",
			"*.swp",
			".DS_Store",
		}
	}
}

// shouldIgnore checks if a path matches ignore patterns. Hidden files
// are always skipped since editors and atomic writers leave dotfiles
// behind mid-save.
func (o *Options) shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, pattern := range o.IgnorePatterns {
		matched, err := filepath.Match(pattern, base)
		if err == nil && matched {
			return true
		}
	}

	return false
}
