package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestScorer_Score(t *testing.T) {
	s := NewScorer(0)

	// Leadership URL + valid name + valid role = 0.90.
	conf := s.Score("https://example.com/team", "John Smith", "CEO", "John Smith — CEO")
	assert.InDelta(t, 0.90, conf, 0.001)

	// Without the URL signal the pair lands at 0.50, below the gate.
	conf = s.Score("https://example.com/widgets", "John Smith", "CEO", "John Smith — CEO")
	assert.InDelta(t, 0.50, conf, 0.001)
	assert.Less(t, conf, s.MinConfidence())

	// Bad name shape loses 0.25.
	conf = s.Score("https://example.com/team", "Solutions", "CEO", "short")
	assert.InDelta(t, 0.65, conf, 0.001)
}

func TestScorer_Score_EvidencePenalties(t *testing.T) {
	s := NewScorer(0)

	long := strings.Repeat("x", 250)
	conf := s.Score("https://example.com/team", "John Smith", "CEO", long)
	assert.InDelta(t, 0.65, conf, 0.001)

	prose := "One. Two. Three. Four. Five sentences of bio text."
	conf = s.Score("https://example.com/team", "John Smith", "CEO", prose)
	assert.InDelta(t, 0.70, conf, 0.001)
}

func TestScorer_Score_Clamped(t *testing.T) {
	s := NewScorer(0)
	long := strings.Repeat("a. ", 80) // both penalties, no bonuses
	conf := s.Score("https://example.com/x", "??", "??", long)
	assert.Equal(t, 0.0, conf)
}

func TestNewScorer_DefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultMinConfidence, NewScorer(0).MinConfidence())
	assert.Equal(t, 0.8, NewScorer(0.8).MinConfidence())
}

func TestDedupe(t *testing.T) {
	in := []model.LeaderCandidate{
		{Name: "John Smith", Role: "CEO", Confidence: 0.70},
		{Name: "JOSÉ PÉREZ", Role: "CTO", Confidence: 0.90},
		{Name: "Jose Perez", Role: "CTO", Confidence: 0.65}, // accent-folded dup
		{Name: "John Smith", Role: "ceo", Confidence: 0.95}, // case dup, higher conf wins
		{Name: "", Role: "CFO", Confidence: 0.99},           // dropped, empty name
	}

	out := Dedupe(in, 5)
	require.Len(t, out, 2)
	assert.Equal(t, 0.95, out[0].Confidence)
	assert.Equal(t, "JOSÉ PÉREZ", out[1].Name)
}

func TestDedupe_MaxN(t *testing.T) {
	in := []model.LeaderCandidate{
		{Name: "A One", Role: "CEO", Confidence: 0.9},
		{Name: "B Two", Role: "CTO", Confidence: 0.8},
		{Name: "C Three", Role: "CFO", Confidence: 0.7},
	}
	assert.Len(t, Dedupe(in, 2), 2)
	// Non-positive maxN falls back to 5.
	assert.Len(t, Dedupe(in, 0), 3)
}
