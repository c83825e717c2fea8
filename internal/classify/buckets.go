// Package classify buckets ranked leaders into the five fixed reporting
// categories.
package classify

import (
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// bucketRule pairs a category with the role keywords that map into it.
type bucketRule struct {
	bucket   model.Bucket
	keywords []string
}

// rules is the ordered category table, loaded once. Order matters: a role is
// assigned to the first category whose keyword set matches.
var rules = []bucketRule{
	{model.BucketExecutive, []string{
		"founder", "co-founder", "cofounder", "ceo", "chief executive",
		"managing director", "executive director", "director",
		"chairman", "chairperson", "president", "owner", "proprietor",
		"principal", "dean", "medical director", "clinical director",
	}},
	{model.BucketTechOps, []string{
		"cto", "chief technology", "cio", "chief information",
		"coo", "chief operating", "operations", "it", "technical",
		"head of operations", "plant head",
	}},
	{model.BucketFinance, []string{
		"cfo", "chief financial", "finance", "accounts", "controller",
		"treasurer", "admin", "administration", "hr", "human resources",
		"compliance",
	}},
	{model.BucketGrowth, []string{
		"business development", "bd", "growth", "strategy",
		"partnership", "sales", "revenue", "commercial",
		"admissions", "placement",
	}},
	{model.BucketMarketing, []string{
		"cmo", "chief marketing", "marketing", "brand",
		"communications", "pr", "digital marketing", "outreach",
		"social media",
	}},
}

// MapRole returns the first category whose keyword set matches the
// lower-cased role as a substring, or "" when no category matches.
// Strict: an unmatched role is never guessed into a bucket.
func MapRole(role string) model.Bucket {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return ""
	}
	for _, rule := range rules {
		for _, k := range rule.keywords {
			if strings.Contains(r, k) {
				return rule.bucket
			}
		}
	}
	return ""
}

// Leaders assigns ranked leaders to categories, one leader per category,
// first match wins. Later, possibly more specific, matches for a filled
// category are dropped: downstream reporting assumes single-valued
// categories, so this imprecision is deliberate and must be preserved.
func Leaders(leaders []model.LeaderRef) model.ManagementRecord {
	rec := model.EmptyManagementRecord()
	filled := make(map[model.Bucket]struct{})

	for _, l := range leaders {
		name := strings.TrimSpace(l.Name)
		role := strings.TrimSpace(l.Role)
		if name == "" || role == "" {
			continue
		}
		bucket := MapRole(role)
		if bucket == "" {
			continue
		}
		if _, taken := filled[bucket]; taken {
			continue
		}
		rec[bucket] = model.LeaderEntry{Name: name, Designation: role}
		filled[bucket] = struct{}{}
		if len(filled) == len(model.Buckets) {
			break
		}
	}
	return rec
}
