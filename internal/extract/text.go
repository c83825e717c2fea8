// Package extract pulls (name, role) leader candidates out of fetched pages
// using structured data, DOM heuristics, and captured API payloads, gated by
// a shared confidence scorer.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// roleKeywords is deliberately broad and domain-agnostic: it covers
// corporate, academic, and clinical leadership titles.
var roleKeywords = []string{
	"ceo", "chief executive",
	"cto", "chief technology",
	"coo", "chief operating",
	"cfo", "chief financial",
	"cmo", "chief marketing",
	"cio", "chief information",
	"chro", "chief human",
	"cpo", "chief product",
	"cro", "chief revenue",
	"cso", "chief strategy",
	"founder", "co-founder", "cofounder", "founding",
	"owner", "proprietor",
	"president",
	"vice president", "vp", "svp", "evp",
	"managing director", "director", "executive director",
	"partner", "managing partner", "principal",
	"chairman", "chairperson", "trustee",
	"dean", "registrar", "headmaster", "headmistress",
	"medical director", "clinical director",
	"head of", "department head",
}

var roleRe = func() *regexp.Regexp {
	quoted := make([]string, len(roleKeywords))
	for i, k := range roleKeywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}()

// nameRe matches 2-5 capitalized tokens with optional honorific, dotted
// initials, and Jr/Sr suffix.
var nameRe = regexp.MustCompile(
	`^(?:(?:Dr|Mr|Ms|Mrs)\.?\s+)?(?:[A-Z][a-z]+|[A-Z]\.)(?:\s+(?:[A-Z][a-z]+|[A-Z]\.)){1,4}(?:\s+(?:Jr\.?|Sr\.?))?$`,
)

// stopWords are navigation and section labels commonly mistaken for names.
var stopWords = map[string]struct{}{
	"team": {}, "leadership": {}, "management": {}, "board": {}, "about": {},
	"company": {}, "careers": {}, "privacy": {}, "terms": {}, "cookies": {},
	"support": {}, "contact": {}, "press": {}, "news": {}, "solutions": {},
	"services": {}, "products": {}, "pricing": {}, "blog": {}, "resources": {},
}

var wsRe = regexp.MustCompile(`\s+`)

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return wsRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// LooksLikeHumanName applies the name-shape test: 2-5 tokens, no digits, not
// a navigation stop word, at most 80 characters. Fully upper-cased alphabetic
// names (as some sites style them) are accepted without the case pattern.
func LooksLikeHumanName(name string) bool {
	name = Normalize(name)
	if name == "" || len(name) > 80 {
		return false
	}
	if strings.ContainsFunc(name, unicode.IsDigit) {
		return false
	}
	if _, bad := stopWords[strings.ToLower(name)]; bad {
		return false
	}
	tokens := strings.Fields(name)
	if len(tokens) < 2 || len(tokens) > 5 {
		return false
	}
	if name == strings.ToUpper(name) {
		allAlpha := true
		for _, t := range tokens {
			for _, r := range t {
				if !unicode.IsLetter(r) {
					allAlpha = false
				}
			}
		}
		if allAlpha {
			return true
		}
	}
	return nameRe.MatchString(name)
}

// RoleMatches reports whether role text contains a recognized leadership
// title keyword.
func RoleMatches(role string) bool {
	role = Normalize(role)
	if role == "" {
		return false
	}
	return roleRe.MatchString(role)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldKey lowercases and strips diacritics so "José Pérez" and "Jose Perez"
// dedupe to the same key.
func FoldKey(s string) string {
	folded, _, err := transform.String(stripMarks, Normalize(s))
	if err != nil {
		folded = Normalize(s)
	}
	return strings.ToLower(folded)
}
