package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// DefaultMinConfidence is the acceptance threshold. It is the single
// mechanism keeping navigation text, slogans, and unrelated proper nouns out
// of the results; tune it, never remove it.
const DefaultMinConfidence = 0.65

// urlSignals are leadership-relevant URL fragments worth the largest score
// contribution.
var urlSignals = []string{
	"team", "leadership", "management", "board", "people",
	"administration", "directors",
}

// Evidence longer than this reads like prose, not a label.
const maxEvidenceChars = 220

var sentenceRe = regexp.MustCompile(`[.!?]+`)

// Scorer gates candidates by an additive weighted heuristic.
type Scorer struct {
	minConfidence float64
}

// NewScorer creates a Scorer; a non-positive threshold falls back to the
// default.
func NewScorer(minConfidence float64) *Scorer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Scorer{minConfidence: minConfidence}
}

// MinConfidence returns the acceptance threshold.
func (s *Scorer) MinConfidence() float64 { return s.minConfidence }

// Score computes a confidence in [0,1] for a (name, role) pair found on a
// page. Weights: +0.40 leadership keyword in the page URL, +0.25 name shape,
// +0.25 role keyword, -0.25 over-long evidence, -0.20 evidence spanning five
// or more sentences.
func (s *Scorer) Score(pageURL, name, role, evidence string) float64 {
	score := 0.0

	u := strings.ToLower(pageURL)
	for _, k := range urlSignals {
		if strings.Contains(u, k) {
			score += 0.40
			break
		}
	}
	if LooksLikeHumanName(name) {
		score += 0.25
	}
	if RoleMatches(role) {
		score += 0.25
	}

	ev := Normalize(evidence)
	if len(ev) > maxEvidenceChars {
		score -= 0.25
	}
	if len(sentenceRe.Split(ev, -1)) >= 5 {
		score -= 0.20
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Accept reports whether a candidate clears the confidence gate.
func (s *Scorer) Accept(c model.LeaderCandidate) bool {
	return c.Confidence >= s.minConfidence
}

// Dedupe ranks candidates by descending confidence and keeps the first
// occurrence of each case-insensitive, accent-folded (name, role) pair, up
// to maxN entries. Candidates with an empty name or role are dropped.
func Dedupe(candidates []model.LeaderCandidate, maxN int) []model.LeaderCandidate {
	if maxN <= 0 {
		maxN = 5
	}

	ranked := make([]model.LeaderCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	seen := make(map[string]struct{})
	var out []model.LeaderCandidate
	for _, c := range ranked {
		name := Normalize(c.Name)
		role := Normalize(c.Role)
		if name == "" || role == "" {
			continue
		}
		key := FoldKey(name) + "\x00" + FoldKey(role)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if len(out) >= maxN {
			break
		}
	}
	return out
}
