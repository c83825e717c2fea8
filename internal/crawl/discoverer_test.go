package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/model"
)

func testDiscoverer(maxPages, maxDepth int) *Discoverer {
	return NewDiscoverer(
		fetch.NewStatic(config.FetchConfig{UserAgent: "test"}),
		NewPathMatcher(nil),
		config.DiscoveryConfig{MaxPages: maxPages, MaxDepth: maxDepth},
	)
}

func testTarget(website string) model.Target {
	return model.NewTarget(website, "Acme", 5, 30*time.Second)
}

func TestDiscoverer_FollowsLeadershipLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<a href="/our-people">Meet the team</a>
			<a href="/blog/post">Blog</a>
			<a href="https://twitter.com/acme/team">Twitter</a>
		</body></html>`)
	})
	mux.HandleFunc("/our-people", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Our People</h1></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	results := testDiscoverer(8, 2).Discover(context.Background(), testTarget(srv.URL), KindLeadership)
	require.NotEmpty(t, results)

	urls := make(map[string]int)
	for _, r := range results {
		urls[r.Page.URL] = r.Page.Depth
	}

	// Home page comes back at depth 0.
	depth, ok := urls[srv.URL+"/"]
	require.True(t, ok, "home page missing from results")
	assert.Equal(t, 0, depth)

	// The anchor-matched leadership page is found.
	_, ok = urls[srv.URL+"/our-people"]
	assert.True(t, ok, "linked people page missing from results")

	// Off-domain and blocklisted links never appear.
	for u := range urls {
		assert.NotContains(t, u, "twitter.com")
		assert.NotContains(t, u, "/blog/")
	}
}

func TestDiscoverer_FailedSeedsDoNotCountAgainstBudget(t *testing.T) {
	var hits int
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/" && r.URL.Path != "/team" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>content</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	results := testDiscoverer(8, 2).Discover(context.Background(), testTarget(srv.URL), KindLeadership)

	// Only the home page and the /team seed resolved.
	require.Len(t, results, 2)
	assert.Equal(t, srv.URL+"/", results[0].Page.URL)
	assert.Equal(t, srv.URL+"/team", results[1].Page.URL)
	assert.NotEmpty(t, results[0].HTML)
}

func TestDiscoverer_KeepsBlockedPagesWithEmptyHTML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><body><a href="/team">Meet the team</a></body></html>`)
		case "/team":
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	results := testDiscoverer(8, 2).Discover(context.Background(), testTarget(srv.URL), KindLeadership)

	var teamResult *model.FetchResult
	for i := range results {
		if results[i].Page.URL == srv.URL+"/team" {
			teamResult = &results[i]
		}
	}
	// The blocked leadership page must stay in the list so the caller can
	// escalate it to a browser render.
	require.NotNil(t, teamResult, "blocked /team page missing from results")
	assert.Empty(t, teamResult.HTML)
	assert.Equal(t, 1, teamResult.Page.Depth)
}

func TestDiscoverer_MaxPagesCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every page links to ever more team pages.
		fmt.Fprintf(w, `<html><body>
			<a href="/team-%d-a">team</a>
			<a href="/team-%d-b">leadership</a>
		</body></html>`, len(r.URL.Path), len(r.URL.Path))
	}))
	defer srv.Close()

	results := testDiscoverer(3, 5).Discover(context.Background(), testTarget(srv.URL), KindLeadership)
	assert.Len(t, results, 3)
}

func TestDiscoverer_EmptyWebsite(t *testing.T) {
	assert.Nil(t, testDiscoverer(8, 2).Discover(context.Background(), testTarget(""), KindLeadership))
}

func TestMatchingLinks(t *testing.T) {
	html := `<html><body>
		<a href="/about" aria-label="Leadership team">About</a>
		<a href="/products">Products</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="#section">Jump</a>
	</body></html>`

	links := matchingLinks(html, "https://example.com/", leadershipKeywords)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/about", links[0])
}
