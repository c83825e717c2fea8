// Package crawl discovers candidate leadership and contact pages inside a
// target's own domain.
package crawl

import (
	"net/url"
	"path"
	"strings"
)

// fallbackBlocklist is used when config supplies no patterns. These paths
// never hold leadership or contact data.
var fallbackBlocklist = []string{
	"/blog/*",
	"/news/*",
	"/press/*",
	"/events/*",
	"/careers/*",
	"/jobs/*",
	"/privacy*",
	"/terms*",
	"/cookie*",
	"/login*",
	"/signup*",
}

// PathMatcher filters URLs by glob-style path patterns. Uses path.Match from
// stdlib, plus a segmented match so "/blog/*" also excludes multi-level
// paths like "/blog/deep/post".
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher from glob patterns (e.g. "/blog/*").
// Falls back to the default blocklist if none are provided.
func NewPathMatcher(patterns []string) *PathMatcher {
	if len(patterns) == 0 {
		patterns = fallbackBlocklist
	}
	return &PathMatcher{patterns: patterns}
}

// IsExcluded checks whether a URL matches any blocklist pattern. Unparsable
// URLs are excluded.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	urlPath := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if matchSegmented(strings.ToLower(pattern), urlPath) {
			return true
		}
	}
	return false
}

// matchSegmented performs glob matching where a pattern like "/blog/*"
// matches both "/blog/post" and "/blog/a/b/c".
func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	return false
}
