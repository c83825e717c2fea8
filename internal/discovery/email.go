package discovery

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/crawl"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/model"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// preferredPrefixes rank generic inbox addresses above personal ones; earlier
// is better.
var preferredPrefixes = []string{
	"info@", "contact@", "admin@", "office@", "support@", "help@",
	"sales@", "hr@", "careers@", "admissions@", "enquiry@", "inquiry@",
}

// junkEmailFragments filter obvious non-contact matches such as asset
// filenames and tracker sentinels.
var junkEmailFragments = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
	"example.com", "yourdomain", "email@", "sentry", "wixpress",
}

// DiscoverContactEmail finds a single public contact email for the target
// website, preferring generic inboxes on contact-style pages. Returns ""
// when nothing credible is found; never errors.
func (e *Engine) DiscoverContactEmail(ctx context.Context, website, companyName string) string {
	target := model.NewTarget(website, companyName, 1, timeoutFor(e.cfg.TimeoutSecs))
	if target.Website == "" || target.Remaining() == 0 || ctx.Err() != nil {
		return ""
	}

	log := zap.L().With(zap.String("website", target.Website))

	pages := e.discoverer.Discover(ctx, target, crawl.KindContact)
	var all []string
	for _, page := range pages {
		if target.Remaining() < minPageBudget {
			break
		}
		html := page.HTML
		if fetch.LooksLikeShell(html) {
			html = e.renderForEmail(ctx, target, page.Page.URL, html, log)
		}
		found := extractEmails(html, target.Host())
		all = append(all, found...)

		// A generic inbox on a contact page is as good as it gets.
		if best := pickEmail(found); best != "" && hasPreferredPrefix(best) {
			return best
		}
	}
	return pickEmail(all)
}

// renderForEmail escalates one contact page to the headless browser when
// budget allows, falling back to whatever static HTML exists.
func (e *Engine) renderForEmail(ctx context.Context, target model.Target, pageURL, staticHTML string, log *zap.Logger) string {
	if e.dynamic == nil || e.dynamicDown.Load() || target.Remaining() < minDynamicBudget {
		return staticHTML
	}
	html, _, err := e.dynamic.Fetch(ctx, pageURL, target.Remaining())
	if err != nil {
		if eris.Is(err, fetch.ErrBrowserUnavailable) {
			e.dynamicDown.Store(true)
			log.Warn("browser runtime unavailable, continuing static-only for process lifetime")
		} else {
			log.Debug("dynamic fetch failed", zap.String("url", pageURL), zap.Error(err))
		}
		return staticHTML
	}
	if html == "" {
		return staticHTML
	}
	return html
}

// extractEmails pulls deduplicated plausible addresses from raw HTML,
// preferring those on the target's own domain. mailto: links are covered by
// the same regex since the address appears in the href.
func extractEmails(html, host string) []string {
	if html == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range emailRe.FindAllString(html, 50) {
		addr := strings.ToLower(strings.Trim(m, "."))
		if seen[addr] || isJunkEmail(addr) {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	// Same-domain addresses first, preserving order within each half.
	if host != "" {
		var own, other []string
		for _, addr := range out {
			if strings.HasSuffix(addr, "@"+host) || strings.HasSuffix(addr, "."+host) {
				own = append(own, addr)
			} else {
				other = append(other, addr)
			}
		}
		out = append(own, other...)
	}
	return out
}

// pickEmail returns the best address: the first with a preferred generic
// prefix, else the first found.
func pickEmail(addrs []string) string {
	if len(addrs) == 0 {
		return ""
	}
	for _, p := range preferredPrefixes {
		for _, addr := range addrs {
			if strings.HasPrefix(addr, p) {
				return addr
			}
		}
	}
	return addrs[0]
}

func hasPreferredPrefix(addr string) bool {
	for _, p := range preferredPrefixes {
		if strings.HasPrefix(addr, p) {
			return true
		}
	}
	return false
}

func isJunkEmail(addr string) bool {
	for _, frag := range junkEmailFragments {
		if strings.Contains(addr, frag) {
			return true
		}
	}
	return len(addr) > 254
}
