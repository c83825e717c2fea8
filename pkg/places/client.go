// Package places wraps the Google Places v1 Text Search API for business
// listing lookups.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/resilience"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// maxPageSize is the API's per-page cap for Text Search.
const maxPageSize = 20

// Client performs Places API operations.
type Client interface {
	// TextSearch returns one page of results for a free-text query.
	TextSearch(ctx context.Context, query, pageToken string) (*TextSearchResponse, error)
	// SearchAll follows nextPageToken until maxResults listings are
	// collected or pages run out.
	SearchAll(ctx context.Context, query string, maxResults int) ([]Place, error)
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

// Place represents a place returned by the API.
type Place struct {
	DisplayName         DisplayName `json:"displayName"`
	FormattedAddress    string      `json:"formattedAddress"`
	WebsiteURI          string      `json:"websiteUri"`
	NationalPhoneNumber string      `json:"nationalPhoneNumber"`
	InternationalPhone  string      `json:"internationalPhoneNumber"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text string `json:"text"`
}

// Phone returns the best available phone number for the place.
func (p Place) Phone() string {
	if p.NationalPhoneNumber != "" {
		return p.NationalPhoneNumber
	}
	return p.InternationalPhone
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Places API client. Requests are rate limited to stay
// inside the default API quota.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchRequest struct {
	TextQuery string `json:"textQuery"`
	PageSize  int    `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

// TextSearch retries transient failures (quota trips, gateway errors) with
// backoff before giving up on a page.
func (c *httpClient) TextSearch(ctx context.Context, query, pageToken string) (*TextSearchResponse, error) {
	return resilience.Retry(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) (*TextSearchResponse, error) {
		return c.textSearchOnce(ctx, query, pageToken)
	})
}

func (c *httpClient) textSearchOnce(ctx context.Context, query, pageToken string) (*TextSearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit wait")
	}

	body, err := json.Marshal(textSearchRequest{
		TextQuery: query,
		PageSize:  maxPageSize,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask",
		"nextPageToken,places.displayName,places.formattedAddress,places.websiteUri,places.nationalPhoneNumber,places.internationalPhoneNumber")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result TextSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}

	return &result, nil
}

func (c *httpClient) SearchAll(ctx context.Context, query string, maxResults int) ([]Place, error) {
	if maxResults <= 0 {
		maxResults = maxPageSize
	}

	var (
		out   []Place
		token string
	)
	for len(out) < maxResults {
		page, err := c.TextSearch(ctx, query, token)
		if err != nil {
			// Partial results are better than none once a page succeeded.
			if len(out) > 0 {
				return out, nil
			}
			return nil, err
		}
		out = append(out, page.Places...)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}
