package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_Defaults(t *testing.T) {
	m := NewPathMatcher(nil)

	excluded := []string{
		"https://example.com/blog/why-we-love-widgets",
		"https://example.com/blog/2024/03/deep-post",
		"https://example.com/careers/openings",
		"https://example.com/privacy-policy",
		"https://example.com/login",
	}
	for _, u := range excluded {
		assert.True(t, m.IsExcluded(u), u)
	}

	allowed := []string{
		"https://example.com/",
		"https://example.com/team",
		"https://example.com/about/leadership",
		"https://example.com/contact-us",
	}
	for _, u := range allowed {
		assert.False(t, m.IsExcluded(u), u)
	}
}

func TestPathMatcher_CustomPatterns(t *testing.T) {
	m := NewPathMatcher([]string{"/shop/*"})
	assert.True(t, m.IsExcluded("https://example.com/shop/item-1"))
	assert.True(t, m.IsExcluded("https://example.com/shop"))
	assert.False(t, m.IsExcluded("https://example.com/blog/post"))
}

func TestPathMatcher_UnparsableURL(t *testing.T) {
	m := NewPathMatcher(nil)
	assert.True(t, m.IsExcluded("http://exa mple.com/%zz\x7f"))
}
