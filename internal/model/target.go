package model

import (
	"net/url"
	"strings"
	"time"
)

// Target is one company/website being processed in a single discovery run.
// Immutable after creation.
type Target struct {
	Website     string    `json:"website"`
	CompanyName string    `json:"company_name"`
	MaxLeaders  int       `json:"max_leaders"`
	Deadline    time.Time `json:"deadline"`
}

// NewTarget builds a Target with the website normalized and MaxLeaders
// clamped to 1..5. The deadline is budget from now.
func NewTarget(website, companyName string, maxLeaders int, budget time.Duration) Target {
	if maxLeaders < 1 {
		maxLeaders = 1
	}
	if maxLeaders > 5 {
		maxLeaders = 5
	}
	return Target{
		Website:     NormalizeURL(website),
		CompanyName: strings.TrimSpace(companyName),
		MaxLeaders:  maxLeaders,
		Deadline:    time.Now().Add(budget),
	}
}

// Remaining reports the wall-clock budget left for this target.
func (t Target) Remaining() time.Duration {
	d := time.Until(t.Deadline)
	if d < 0 {
		return 0
	}
	return d
}

// Host returns the normalized host of the target website, with any "www."
// prefix stripped. Empty when the website does not parse.
func (t Target) Host() string {
	return CanonicalHost(t.Website)
}

// Page is a discovered, normalized, same-domain URL with its crawl depth.
// Depth 0 is the home page.
type Page struct {
	URL   string `json:"url"`
	Depth int    `json:"depth"`
}

// FetchResult holds the outcome of fetching one Page. HTML is empty when the
// request errored, returned a client/server error status, or carried a
// non-HTML content type. JSONPayloads is only populated by dynamic rendering.
type FetchResult struct {
	Page         Page     `json:"page"`
	HTML         string   `json:"html,omitempty"`
	JSONPayloads []string `json:"json_payloads,omitempty"`
	Rendered     bool     `json:"rendered"`
}

// NormalizeURL trims the input, defaults the scheme to https, lowercases
// scheme and host, and drops fragments. Returns "" for unusable input.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(raw), "http://") && !strings.HasPrefix(strings.ToLower(raw), "https://") {
		raw = "https://" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	return u.String()
}

// CanonicalHost extracts the lowercased host from a URL, stripping a leading
// "www.". Used for same-domain checks and cache keys.
func CanonicalHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// SameDomain reports whether two URLs share a canonical host.
func SameDomain(a, b string) bool {
	ha, hb := CanonicalHost(a), CanonicalHost(b)
	return ha != "" && ha == hb
}
