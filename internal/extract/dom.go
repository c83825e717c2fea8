package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leadscout/internal/model"
)

// containerSelector targets elements that typically wrap a person profile:
// semantic grouping tags plus class fragments used by team page templates.
const containerSelector = "article, section, li, " +
	"[class*='team'], [class*='member'], [class*='lead'], [class*='profile'], " +
	"[class*='staff'], [class*='card'], [class*='person'], [class*='director']"

// maxContainers caps how many containers are scanned per page.
const maxContainers = 420

// lineSplitRe separates visual lines inside a container's flattened text.
var lineSplitRe = regexp.MustCompile(`[\n|•·]+`)

// pairRe splits a short "Name — Role" style line on the first dash, comma,
// or colon separator.
var pairRe = regexp.MustCompile(`^(.{3,80}?)[\-\x{2013}\x{2014},:]\s*(.{3,100})$`)

// DOMHeuristic scans team/member/profile-shaped containers for a
// heading-like human name with a nearby role string, falling back to a
// "Name — Role" line split. Only candidates clearing the confidence gate are
// returned. Never errors on malformed HTML.
func DOMHeuristic(html, pageURL string, scorer *Scorer) []model.LeaderCandidate {
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	// Strip non-content elements before scanning.
	doc.Find("script, style, noscript, svg, form").Remove()

	var candidates []model.LeaderCandidate
	doc.Find(containerSelector).EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= maxContainers {
			return false
		}

		txt := Normalize(el.Text())
		if len(txt) < 12 || len(txt) > 420 {
			return true
		}

		if c, ok := headingPair(el, pageURL, scorer); ok {
			candidates = append(candidates, c)
			return true
		}

		lines := lineSplitRe.Split(txt, -1)
		for i, line := range lines {
			if i >= 10 {
				break
			}
			line = Normalize(line)
			name, role, ok := tightPair(line)
			if !ok {
				continue
			}
			conf := scorer.Score(pageURL, name, role, line)
			if conf >= scorer.MinConfidence() {
				candidates = append(candidates, model.LeaderCandidate{
					Name:       name,
					Role:       role,
					SourceURL:  pageURL,
					Evidence:   line,
					Confidence: conf,
				})
			}
		}
		return true
	})

	return candidates
}

// headingPair looks for a heading-like element holding a human name, then a
// nearby small text element holding a matching role.
func headingPair(el *goquery.Selection, pageURL string, scorer *Scorer) (model.LeaderCandidate, bool) {
	heading := el.Find("h1, h2, h3, h4, strong, b").First()
	name := Normalize(heading.Text())
	if !LooksLikeHumanName(name) {
		return model.LeaderCandidate{}, false
	}

	var role string
	el.Find("p, span, div, small").EachWithBreak(func(i int, node *goquery.Selection) bool {
		if i >= 10 {
			return false
		}
		t := Normalize(node.Text())
		if len(t) >= 3 && len(t) <= 100 && RoleMatches(t) {
			role = t
			return false
		}
		return true
	})
	if role == "" {
		return model.LeaderCandidate{}, false
	}

	evidence := name + " — " + role
	conf := scorer.Score(pageURL, name, role, evidence)
	if conf < scorer.MinConfidence() {
		return model.LeaderCandidate{}, false
	}
	return model.LeaderCandidate{
		Name:       name,
		Role:       role,
		SourceURL:  pageURL,
		Evidence:   evidence,
		Confidence: conf,
	}, true
}

// tightPair splits a short line into a (name, role) pair when both halves
// pass their shape tests.
func tightPair(line string) (name, role string, ok bool) {
	if len(line) < 8 || len(line) > 180 {
		return "", "", false
	}
	m := pairRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name = Normalize(m[1])
	role = Normalize(m[2])
	if !LooksLikeHumanName(name) || !RoleMatches(role) {
		return "", "", false
	}
	return name, role, true
}
