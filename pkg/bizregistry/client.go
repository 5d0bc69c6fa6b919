// Package bizregistry provides the government business-registry aggregation
// client: storefront totals and large-category buckets within a radius.
package bizregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client is the registry-aggregation surface the engines consume.
type Client interface {
	// TotalInRadius returns the total registered storefront count within the
	// radius.
	TotalInRadius(ctx context.Context, lat, lon float64, radiusM int) (int, error)

	// BucketsInRadius aggregates storefronts by the registry's large-category
	// name, scanning at most maxPages pages.
	BucketsInRadius(ctx context.Context, lat, lon float64, radiusM, maxPages int) (map[string]int64, error)
}

const pageSize = 1000

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit sets the requests-per-second limit for registry calls.
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

// NewClient creates a registry API client.
func NewClient(apiKey, baseURL string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 6),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// page is the registry's response envelope.
type page struct {
	Body struct {
		TotalCount int `json:"totalCount"`
		Items      []struct {
			LargeCategory string `json:"largeCategoryName"`
		} `json:"items"`
	} `json:"body"`
}

func (c *httpClient) fetch(ctx context.Context, lat, lon float64, radiusM, pageNo, rows int) (*page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "bizregistry: rate limit wait")
	}

	q := url.Values{}
	q.Set("serviceKey", c.apiKey)
	q.Set("type", "json")
	q.Set("pageNo", fmt.Sprintf("%d", pageNo))
	q.Set("numOfRows", fmt.Sprintf("%d", rows))
	q.Set("radius", fmt.Sprintf("%d", radiusM))
	q.Set("cx", fmt.Sprintf("%.7f", lon))
	q.Set("cy", fmt.Sprintf("%.7f", lat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/storesInRadius?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "bizregistry: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bizregistry: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("bizregistry: status %d: %s", resp.StatusCode, string(body))
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, eris.Wrap(err, "bizregistry: decode response")
	}
	return &p, nil
}

func (c *httpClient) TotalInRadius(ctx context.Context, lat, lon float64, radiusM int) (int, error) {
	p, err := c.fetch(ctx, lat, lon, radiusM, 1, 1)
	if err != nil {
		return 0, err
	}
	return p.Body.TotalCount, nil
}

func (c *httpClient) BucketsInRadius(ctx context.Context, lat, lon float64, radiusM, maxPages int) (map[string]int64, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	buckets := make(map[string]int64)
	for pageNo := 1; pageNo <= maxPages; pageNo++ {
		p, err := c.fetch(ctx, lat, lon, radiusM, pageNo, pageSize)
		if err != nil {
			return nil, err
		}
		if len(p.Body.Items) == 0 {
			break
		}
		for _, it := range p.Body.Items {
			if it.LargeCategory != "" {
				buckets[it.LargeCategory]++
			}
		}
	}
	return buckets, nil
}
