package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/model"
)

// Kind selects which keyword set and seed paths drive discovery.
type Kind string

const (
	// KindLeadership looks for team/leadership/about pages.
	KindLeadership Kind = "leadership"
	// KindContact looks for contact/support pages.
	KindContact Kind = "contact"
)

// Well-known sub-paths probed at depth 1 before any links are followed.
var (
	leadershipSeeds = []string{
		"/team",
		"/leadership",
		"/management",
		"/board",
		"/about",
		"/people",
		"/our-team",
		"/our-leadership",
		"/administration",
		"/directors",
	}
	contactSeeds = []string{
		"/contact",
		"/contact-us",
		"/support",
		"/help",
	}
)

// Link keywords matched against the URL and the anchor text.
var (
	leadershipKeywords = []string{
		"team", "leadership", "management", "board", "people",
		"executive", "founder", "directors", "who-we-are", "about",
		"administration", "staff",
	}
	contactKeywords = []string{
		"contact", "contact-us", "reach-us", "support", "help",
		"enquiry", "inquiry", "admissions",
	}
)

// minDiscoveryBudget is the remaining-budget floor below which discovery
// stops enqueueing work.
const minDiscoveryBudget = time.Second

// Discoverer finds candidate pages via a breadth-bounded internal crawl.
type Discoverer struct {
	fetcher  *fetch.Static
	matcher  *PathMatcher
	maxPages int
	maxDepth int
}

// NewDiscoverer creates a Discoverer with limits from config.
func NewDiscoverer(fetcher *fetch.Static, matcher *PathMatcher, cfg config.DiscoveryConfig) *Discoverer {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 8
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 2
	}
	return &Discoverer{
		fetcher:  fetcher,
		matcher:  matcher,
		maxPages: maxPages,
		maxDepth: maxDepth,
	}
}

type crawlItem struct {
	url   string
	depth int
}

// Discover runs a BFS from the target's home page plus the kind's seed
// paths, following same-domain links whose URL or anchor text matches the
// kind's keyword set. Returns at most maxPages pages, deduplicated, all on
// the target's domain. Pages that 404 (missing seed paths) are dropped and
// do not count against the page budget; pages that fail any other way
// (blocked, timed out) are kept with empty HTML so the caller can still
// escalate them to a browser render. Stops early when the deadline is
// nearly exhausted.
func (d *Discoverer) Discover(ctx context.Context, target model.Target, kind Kind) []model.FetchResult {
	home := model.NormalizeURL(target.Website)
	if home == "" {
		return nil
	}

	keywords := leadershipKeywords
	seeds := leadershipSeeds
	if kind == KindContact {
		keywords = contactKeywords
		seeds = contactSeeds
	}

	seen := make(map[string]bool)
	var queue []crawlItem

	push := func(raw string, depth int) {
		u := model.NormalizeURL(raw)
		if u == "" || seen[u] {
			return
		}
		if !model.SameDomain(u, home) {
			return
		}
		if d.matcher.IsExcluded(u) {
			return
		}
		seen[u] = true
		queue = append(queue, crawlItem{url: u, depth: depth})
	}

	push(home, 0)
	homeParsed, err := url.Parse(home)
	if err != nil {
		return nil
	}
	for _, p := range seeds {
		ref, err := url.Parse(p)
		if err != nil {
			continue
		}
		push(homeParsed.ResolveReference(ref).String(), 1)
	}

	var results []model.FetchResult
	for len(queue) > 0 && len(results) < d.maxPages && target.Remaining() > minDiscoveryBudget {
		item := queue[0]
		queue = queue[1:]

		html, err := d.fetcher.Fetch(ctx, item.url, target.Remaining())
		if err != nil {
			zap.L().Debug("crawl: page fetch failed during discovery",
				zap.String("url", item.url),
				zap.Error(err),
			)
			if eris.Is(err, fetch.ErrNotFound) {
				continue
			}
			// A blocked or unreachable page may still render in a browser;
			// keep it with empty HTML so the caller can escalate it.
			results = append(results, model.FetchResult{
				Page: model.Page{URL: item.url, Depth: item.depth},
			})
			continue
		}
		results = append(results, model.FetchResult{
			Page: model.Page{URL: item.url, Depth: item.depth},
			HTML: html,
		})

		if item.depth >= d.maxDepth {
			continue
		}
		for _, link := range matchingLinks(html, item.url, keywords) {
			push(link, item.depth+1)
		}
	}

	return results
}

// matchingLinks extracts same-page anchors whose resolved URL or anchor text
// (text, aria-label, title) contains a keyword. Malformed anchors are
// skipped. Order follows document order.
func matchingLinks(html, pageURL string, keywords []string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)

		anchor := strings.Join([]string{
			sel.Text(),
			sel.AttrOr("aria-label", ""),
			sel.AttrOr("title", ""),
		}, " ")

		probe := strings.ToLower(resolved.String() + " " + anchor)
		for _, k := range keywords {
			if strings.Contains(probe, k) {
				links = append(links, resolved.String())
				return
			}
		}
	})
	return links
}
