package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func fastClient(baseURL string) Client {
	return NewClient("test-key",
		WithBaseURL(baseURL),
		WithRateLimit(rate.NewLimiter(rate.Inf, 1)),
	)
}

func TestTextSearch(t *testing.T) {
	var gotKey, gotMask string
	var gotBody textSearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchText", r.URL.Path)
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(TextSearchResponse{
			Places: []Place{{
				DisplayName:         DisplayName{Text: "Acme Dental"},
				FormattedAddress:    "1 Main St, Austin, TX",
				WebsiteURI:          "https://acmedental.com",
				NationalPhoneNumber: "(555) 010-0100",
			}},
		})
	}))
	defer srv.Close()

	resp, err := fastClient(srv.URL).TextSearch(context.Background(), "dental clinics in Austin", "")
	require.NoError(t, err)
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "Acme Dental", resp.Places[0].DisplayName.Text)
	assert.Equal(t, "(555) 010-0100", resp.Places[0].Phone())
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotMask, "places.websiteUri")
	assert.Equal(t, "dental clinics in Austin", gotBody.TextQuery)
	assert.Equal(t, maxPageSize, gotBody.PageSize)
}

func TestTextSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := fastClient(srv.URL).TextSearch(context.Background(), "anything", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestTextSearch_RetriesTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"error": "quota"}`, http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(TextSearchResponse{Places: []Place{{DisplayName: DisplayName{Text: "Acme"}}}})
	}))
	defer srv.Close()

	resp, err := fastClient(srv.URL).TextSearch(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, resp.Places, 1)
}

func TestSearchAll_Paginates(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req textSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := TextSearchResponse{
			Places: []Place{{DisplayName: DisplayName{Text: req.PageToken}}},
		}
		if req.PageToken == "" {
			resp.NextPageToken = "page-2"
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	out, err := fastClient(srv.URL).SearchAll(context.Background(), "clinics", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, out, 2)
	assert.Equal(t, "page-2", out[1].DisplayName.Text)
}

func TestSearchAll_TruncatesToMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := TextSearchResponse{NextPageToken: "more"}
		for i := 0; i < maxPageSize; i++ {
			resp.Places = append(resp.Places, Place{DisplayName: DisplayName{Text: "x"}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	out, err := fastClient(srv.URL).SearchAll(context.Background(), "clinics", 25)
	require.NoError(t, err)
	assert.Len(t, out, 25)
}

func TestNewClient_DefaultRateLimiter(t *testing.T) {
	start := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TextSearchResponse{})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.TextSearch(context.Background(), "q", "")
	require.NoError(t, err)
	// First call passes immediately under the default limiter.
	assert.Less(t, time.Since(start), 2*time.Second)
}
