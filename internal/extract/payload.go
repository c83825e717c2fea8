package extract

import (
	"encoding/json"

	"github.com/sells-group/leadscout/internal/model"
)

// Key sets treated as person records when both appear on one JSON object.
var (
	nameKeys = []string{"name", "fullName", "personName"}
	roleKeys = []string{"title", "jobTitle", "designation", "role", "position"}
)

// APIPayloads walks captured JSON response bodies for object nodes exposing
// both a name-like and a role-like key. Unparsable payloads are skipped;
// only candidates clearing the confidence gate are returned.
func APIPayloads(payloads []string, sourceURL string, scorer *Scorer) []model.LeaderCandidate {
	var accepted []model.LeaderCandidate
	for _, raw := range payloads {
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		var pairs []model.LeaderRef
		walkPayload(data, 0, &pairs)
		for _, p := range pairs {
			evidence := "[xhr] " + p.Name + " — " + p.Role
			conf := scorer.Score(sourceURL, p.Name, p.Role, evidence)
			if conf < scorer.MinConfidence() {
				continue
			}
			accepted = append(accepted, model.LeaderCandidate{
				Name:       p.Name,
				Role:       p.Role,
				SourceURL:  sourceURL,
				Evidence:   evidence,
				Confidence: conf,
			})
		}
	}
	return accepted
}

// walkPayload is a depth-bounded traversal over a decoded JSON tree. Both
// name and role must pass the shape tests before a node yields a pair.
func walkPayload(node any, depth int, out *[]model.LeaderRef) {
	if depth > maxWalkDepth || node == nil {
		return
	}
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkPayload(item, depth+1, out)
		}
	case map[string]any:
		name := firstString(v, nameKeys)
		role := firstString(v, roleKeys)
		if name != "" && role != "" && LooksLikeHumanName(name) && RoleMatches(role) {
			*out = append(*out, model.LeaderRef{Name: Normalize(name), Role: Normalize(role)})
		}
		for _, child := range v {
			switch child.(type) {
			case map[string]any, []any:
				walkPayload(child, depth+1, out)
			}
		}
	}
}

// firstString returns the first non-empty string value among the given keys.
func firstString(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if t := Normalize(s); t != "" {
				return t
			}
		}
	}
	return ""
}
