package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leadscout/internal/model"
)

// maxWalkDepth bounds recursive traversal of untyped JSON trees so
// adversarial payloads cannot blow the stack.
const maxWalkDepth = 32

// personCollectionKeys are JSON-LD properties that commonly hold nested
// person records.
var personCollectionKeys = []string{
	"employee", "employees", "member", "members", "founder", "founders",
}

// StructuredData extracts person records from embedded JSON-LD script
// blocks. Malformed blocks are skipped; only candidates clearing the
// confidence gate are returned.
func StructuredData(html, pageURL string, scorer *Scorer) []model.LeaderCandidate {
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var found []model.LeaderCandidate
	doc.Find(`script[type*="ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		walkJSONLD(data, pageURL, scorer, 0, &found)
	})

	var accepted []model.LeaderCandidate
	for _, c := range found {
		if scorer.Accept(c) {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// walkJSONLD recursively visits a decoded JSON-LD tree, collecting Person
// nodes with a recognized role.
func walkJSONLD(node any, pageURL string, scorer *Scorer, depth int, out *[]model.LeaderCandidate) {
	if depth > maxWalkDepth || node == nil {
		return
	}
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkJSONLD(item, pageURL, scorer, depth+1, out)
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			walkJSONLD(graph, pageURL, scorer, depth+1, out)
		}

		if isPersonType(v["@type"]) {
			name := Normalize(stringValue(v["name"]))
			role := Normalize(stringValue(v["jobTitle"]))
			if role == "" {
				role = Normalize(stringValue(v["roleName"]))
			}
			if LooksLikeHumanName(name) && RoleMatches(role) {
				evidence := name + " — " + role
				*out = append(*out, model.LeaderCandidate{
					Name:       name,
					Role:       role,
					SourceURL:  pageURL,
					Evidence:   evidence,
					Confidence: scorer.Score(pageURL, name, role, evidence),
				})
			}
		}

		for _, k := range personCollectionKeys {
			if child, ok := v[k]; ok {
				walkJSONLD(child, pageURL, scorer, depth+1, out)
			}
		}
		// Remaining children; keys walked above are skipped so their
		// subtrees are not visited twice.
		for key, child := range v {
			if walkedExplicitly(key) {
				continue
			}
			switch child.(type) {
			case map[string]any, []any:
				walkJSONLD(child, pageURL, scorer, depth+1, out)
			}
		}
	}
}

// walkedExplicitly reports whether walkJSONLD already visited this key ahead
// of the generic child loop.
func walkedExplicitly(key string) bool {
	if key == "@graph" {
		return true
	}
	for _, k := range personCollectionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// isPersonType reports whether a JSON-LD @type value names a Person, either
// as a string or within a type list.
func isPersonType(t any) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, "person")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, "person") {
				return true
			}
		}
	}
	return false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
