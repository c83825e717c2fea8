package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamPageURL = "https://example.com/team"

func TestStructuredData_PersonBlock(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@context": "https://schema.org", "@type": "Person", "name": "John Smith", "jobTitle": "CEO"}
	</script></head><body></body></html>`

	out := StructuredData(html, teamPageURL, NewScorer(0))
	require.Len(t, out, 1)
	assert.Equal(t, "John Smith", out[0].Name)
	assert.Equal(t, "CEO", out[0].Role)
	assert.Equal(t, teamPageURL, out[0].SourceURL)
	assert.GreaterOrEqual(t, out[0].Confidence, DefaultMinConfidence)
}

func TestStructuredData_GraphAndEmployees(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@graph": [
		{"@type": "Organization", "name": "Acme", "employees": [
			{"@type": ["Thing", "Person"], "name": "Maria Garcia", "jobTitle": "Chief Technology Officer"}
		]}
	]}
	</script>`

	out := StructuredData(html, teamPageURL, NewScorer(0))
	require.NotEmpty(t, out)
	assert.Equal(t, "Maria Garcia", out[0].Name)
	assert.Equal(t, "Chief Technology Officer", out[0].Role)
}

func TestStructuredData_GraphPersonsNotDuplicated(t *testing.T) {
	// Persons under @graph and person-collection keys must be emitted once,
	// not again via the generic child walk.
	html := `<script type="application/ld+json">
	{"@graph": [
		{"@type": "Person", "name": "John Smith", "jobTitle": "Chief Executive Officer"},
		{"@type": "Organization", "name": "Acme", "founders": [
			{"@type": "Person", "name": "Maria Garcia", "jobTitle": "Chief Technology Officer"}
		]}
	]}
	</script>`

	out := StructuredData(html, teamPageURL, NewScorer(0))
	require.Len(t, out, 2)

	names := map[string]int{}
	for _, c := range out {
		names[c.Name]++
	}
	assert.Equal(t, 1, names["John Smith"])
	assert.Equal(t, 1, names["Maria Garcia"])
}

func TestStructuredData_RoleNameFallback(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Person", "name": "Wei Chen", "roleName": "Managing Director"}
	</script>`

	out := StructuredData(html, teamPageURL, NewScorer(0))
	require.Len(t, out, 1)
	assert.Equal(t, "Managing Director", out[0].Role)
}

func TestStructuredData_SkipsBadBlocks(t *testing.T) {
	html := `<script type="application/ld+json">{not json</script>
	<script type="application/ld+json">
	{"@type": "Person", "name": "Nav Menu", "jobTitle": "Latest News"}
	</script>`

	out := StructuredData(html, teamPageURL, NewScorer(0))
	assert.Empty(t, out)
}

func TestStructuredData_EmptyInput(t *testing.T) {
	assert.Empty(t, StructuredData("", teamPageURL, NewScorer(0)))
	assert.Empty(t, StructuredData("<html><body>no scripts</body></html>", teamPageURL, NewScorer(0)))
}
