// Package places provides the places-search collaborator client: address
// geocoding, coordinate-to-region lookup, and POI category/keyword search.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned by Geocode when the provider has no match for the
// address. Callers treat it as bad input, not as a transient failure.
var ErrNotFound = errors.New("places: address not found")

// Client is the places-search API surface the engines consume.
type Client interface {
	// Geocode resolves an address to coordinates. Returns ErrNotFound when
	// the provider has no match.
	Geocode(ctx context.Context, address string) (*LatLng, error)

	// RegionLabel resolves coordinates to an administrative region.
	RegionLabel(ctx context.Context, lat, lon float64) (*Region, error)

	// CountByCategory returns the number of POIs of one category code within
	// the radius.
	CountByCategory(ctx context.Context, lat, lon float64, radiusM int, code string) (int, error)

	// SearchCategory returns named POI documents of one category code within
	// the radius.
	SearchCategory(ctx context.Context, lat, lon float64, radiusM int, code string) ([]Doc, error)

	// SearchKeyword returns named POI documents matching a free-text keyword
	// within the radius.
	SearchKeyword(ctx context.Context, lat, lon float64, radiusM int, keyword string) ([]Doc, error)
}

// LatLng is a geocoding result.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Region is a coordinate-to-region result.
type Region struct {
	Label     string `json:"label"`      // display label, e.g. "Seosan-si Dongmun-dong"
	AdminCode string `json:"admin_code"` // administrative area code, may be empty
}

// Doc is a single named POI document.
type Doc struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	DistanceM float64 `json:"distance"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit sets the requests-per-second limit for provider calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a places API client.
func NewClient(apiKey, baseURL string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(10, 11),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchResponse is the provider's envelope for search endpoints.
type searchResponse struct {
	Total     int   `json:"total"`
	Documents []Doc `json:"documents"`
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "places: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return eris.Errorf("places: %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "places: decode %s response", path)
	}
	return nil
}

func (c *httpClient) Geocode(ctx context.Context, address string) (*LatLng, error) {
	q := url.Values{}
	q.Set("query", address)

	var resp struct {
		Documents []LatLng `json:"documents"`
	}
	if err := c.get(ctx, "/geocode", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Documents) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Documents[0], nil
}

func (c *httpClient) RegionLabel(ctx context.Context, lat, lon float64) (*Region, error) {
	q := coordQuery(lat, lon, 0)

	var resp struct {
		Documents []Region `json:"documents"`
	}
	if err := c.get(ctx, "/region", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Documents) == 0 {
		return nil, eris.New("places: no region for coordinates")
	}
	return &resp.Documents[0], nil
}

func (c *httpClient) CountByCategory(ctx context.Context, lat, lon float64, radiusM int, code string) (int, error) {
	q := coordQuery(lat, lon, radiusM)
	q.Set("category", code)
	q.Set("size", "1") // only the total is needed

	var resp searchResponse
	if err := c.get(ctx, "/search/category", q, &resp); err != nil {
		return 0, err
	}
	return resp.Total, nil
}

func (c *httpClient) SearchCategory(ctx context.Context, lat, lon float64, radiusM int, code string) ([]Doc, error) {
	q := coordQuery(lat, lon, radiusM)
	q.Set("category", code)
	q.Set("size", "15")

	var resp searchResponse
	if err := c.get(ctx, "/search/category", q, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (c *httpClient) SearchKeyword(ctx context.Context, lat, lon float64, radiusM int, keyword string) ([]Doc, error) {
	q := coordQuery(lat, lon, radiusM)
	q.Set("query", keyword)
	q.Set("size", "15")

	var resp searchResponse
	if err := c.get(ctx, "/search/keyword", q, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func coordQuery(lat, lon float64, radiusM int) url.Values {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.7f", lat))
	q.Set("lon", fmt.Sprintf("%.7f", lon))
	if radiusM > 0 {
		q.Set("radius", fmt.Sprintf("%d", radiusM))
	}
	return q
}
