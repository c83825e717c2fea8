package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOMHeuristic_HeadingPair(t *testing.T) {
	html := `<html><body>
	<section class="team-grid">
		<div class="team-member">
			<h3>John Smith</h3>
			<p>Chief Executive Officer</p>
		</div>
		<div class="team-member">
			<h3>Maria Garcia</h3>
			<p>Chief Technology Officer</p>
		</div>
	</body></html>`

	out := DOMHeuristic(html, teamPageURL, NewScorer(0))
	require.NotEmpty(t, out)

	names := make(map[string]string)
	for _, c := range out {
		names[c.Name] = c.Role
	}
	assert.Equal(t, "Chief Executive Officer", names["John Smith"])
	assert.Equal(t, "Chief Technology Officer", names["Maria Garcia"])
}

func TestDOMHeuristic_TightPairLine(t *testing.T) {
	html := `<html><body>
	<ul><li>Priya Nair — Managing Director</li></ul>
	</body></html>`

	out := DOMHeuristic(html, teamPageURL, NewScorer(0))
	require.NotEmpty(t, out)
	assert.Equal(t, "Priya Nair", out[0].Name)
	assert.Equal(t, "Managing Director", out[0].Role)
}

func TestDOMHeuristic_IgnoresNonTeamContent(t *testing.T) {
	html := `<html><body>
	<section class="hero">
		<h1>Build Better Widgets</h1>
		<p>The leading platform for widget excellence since 1999.</p>
	</section>
	<script>var x = {"name": "John Smith", "title": "CEO"};</script>
	</body></html>`

	out := DOMHeuristic(html, "https://example.com/", NewScorer(0))
	assert.Empty(t, out)
}

func TestDOMHeuristic_EmptyInput(t *testing.T) {
	assert.Empty(t, DOMHeuristic("", teamPageURL, NewScorer(0)))
}
