package model

import "strings"

// LeaderCandidate is an unconfirmed (name, role) extraction pending the
// confidence gate. Never mutated after creation.
type LeaderCandidate struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	SourceURL  string  `json:"source_url"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`
}

// LeaderRef is the minimal exported shape for a ranked leader.
type LeaderRef struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Bucket is one of the five fixed organizational categories used to
// normalize heterogeneous titles for reporting.
type Bucket string

const (
	BucketExecutive Bucket = "Executive Leadership"
	BucketTechOps   Bucket = "Technology / Operations"
	BucketFinance   Bucket = "Finance / Administration"
	BucketGrowth    Bucket = "Business Development / Growth"
	BucketMarketing Bucket = "Marketing / Branding"
)

// Buckets lists the categories in report order. The order is part of the
// export contract and must not change.
var Buckets = []Bucket{
	BucketExecutive,
	BucketTechOps,
	BucketFinance,
	BucketGrowth,
	BucketMarketing,
}

// BucketPrefix maps each bucket to its export column prefix.
var BucketPrefix = map[Bucket]string{
	BucketExecutive: "Executive",
	BucketTechOps:   "Tech/Ops",
	BucketFinance:   "Finance/Admin",
	BucketGrowth:    "Business/Growth",
	BucketMarketing: "Marketing/Brand",
}

// LeaderEntry is one populated bucket slot. A slot is populated only when
// both fields are non-empty.
type LeaderEntry struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
}

// Filled reports whether both name and designation are set.
func (e LeaderEntry) Filled() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.Designation) != ""
}

// ManagementRecord maps each of the five buckets to at most one leader.
// Always contains exactly the five fixed buckets.
type ManagementRecord map[Bucket]LeaderEntry

// EmptyManagementRecord returns a record with all five buckets present and
// unfilled. Callers rely on every bucket existing.
func EmptyManagementRecord() ManagementRecord {
	rec := make(ManagementRecord, len(Buckets))
	for _, b := range Buckets {
		rec[b] = LeaderEntry{}
	}
	return rec
}

// LeadershipFound reports whether the Executive Leadership bucket is fully
// populated. This is the strict rule used for the exported flag.
func (m ManagementRecord) LeadershipFound() bool {
	return m[BucketExecutive].Filled()
}

// Flatten returns the ten export cells (name, designation per bucket) in
// report order. Unfilled buckets yield empty strings so the export schema
// stays stable.
func (m ManagementRecord) Flatten() []string {
	cells := make([]string, 0, len(Buckets)*2)
	for _, b := range Buckets {
		e := m[b]
		cells = append(cells, e.Name, e.Designation)
	}
	return cells
}

// DiscoveryResult is the full output of one leadership discovery run. It is
// also the shape stored by the optional result cache.
type DiscoveryResult struct {
	Management      ManagementRecord `json:"management"`
	LeadershipFound bool             `json:"leadership_found"`
	Leaders         []LeaderRef      `json:"leaders"`
	Email           string           `json:"email,omitempty"`
}

// EmptyDiscoveryResult returns a well-formed result with all buckets present
// and nothing found. Used for invalid input and exhausted pipelines.
func EmptyDiscoveryResult() DiscoveryResult {
	return DiscoveryResult{
		Management: EmptyManagementRecord(),
		Leaders:    []LeaderRef{},
	}
}
