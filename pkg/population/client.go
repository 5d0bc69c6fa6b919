// Package population provides the resident-population snapshot client.
//
// Providers differ on lookup shape, so Query is a tagged variant: the caller
// fills either the coordinate fields or the administrative code up front and
// the client picks the matching endpoint. No data is a valid outcome and is
// reported as (nil, nil).
package population

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client fetches population snapshots.
type Client interface {
	Snapshot(ctx context.Context, q Query) (*Snapshot, error)
}

// Query selects the lookup variant: coordinates (with radius) when Lat/Lon are
// set, otherwise the administrative area code.
type Query struct {
	Lat       float64
	Lon       float64
	RadiusM   int
	AdminCode string
}

// ByCoord reports whether the coordinate variant is selected.
func (q Query) ByCoord() bool { return q.Lat != 0 || q.Lon != 0 }

// Snapshot is a lenient view of one region's resident population.
type Snapshot struct {
	RegionName    string
	Total         int64
	AgeShares     map[string]float64 // bucket key ("20_29", ..., "70_plus") -> share in [0,1]
	DensityPerKm2 float64
}

// ageBucketKeys maps our bucket key to the field spellings providers use.
var ageBucketKeys = map[string][]string{
	"0_9":     {"age_0_9", "age0_9", "age_00_09"},
	"10_19":   {"age_10_19", "age10_19"},
	"20_29":   {"age_20_29", "age20_29"},
	"30_39":   {"age_30_39", "age30_39"},
	"40_49":   {"age_40_49", "age40_49"},
	"50_59":   {"age_50_59", "age50_59"},
	"60_69":   {"age_60_69", "age60_69"},
	"70_plus": {"age_70_over", "age70_over", "age_70_plus", "age_80_over"},
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a population API client.
func NewClient(apiKey, baseURL string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	v := url.Values{}
	v.Set("serviceKey", c.apiKey)
	v.Set("type", "json")
	v.Set("numOfRows", "1")

	path := "/byArea"
	if q.ByCoord() {
		path = "/byRadius"
		v.Set("lat", fmt.Sprintf("%.7f", q.Lat))
		v.Set("lon", fmt.Sprintf("%.7f", q.Lon))
		v.Set("radius", fmt.Sprintf("%d", q.RadiusM))
	} else {
		if q.AdminCode == "" {
			return nil, nil
		}
		v.Set("areaCode", q.AdminCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+v.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "population: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "population: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("population: status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, eris.Wrap(err, "population: decode response")
	}
	if len(envelope.Items) == 0 {
		return nil, nil
	}

	return parseItem(envelope.Items[0]), nil
}

// parseItem maps one provider row into a Snapshot, tolerating the field-name
// variants different datasets publish. Age counts are converted to shares of
// the row total.
func parseItem(item map[string]any) *Snapshot {
	s := &Snapshot{AgeShares: make(map[string]float64)}

	s.RegionName = pickString(item, "region_name", "regionName", "area_name", "adm_nm")
	s.Total = int64(pickNumber(item, "total", "tot_pop", "total_population", "population"))
	s.DensityPerKm2 = pickNumber(item, "density_per_km2", "densityPerKm2", "pop_density")

	counts := make(map[string]float64, len(ageBucketKeys))
	var sum float64
	for bucket, keys := range ageBucketKeys {
		n := pickNumber(item, keys...)
		counts[bucket] = n
		sum += n
	}

	total := float64(s.Total)
	if sum > total {
		total = sum
	}
	if total > 0 {
		for bucket, n := range counts {
			if n > 0 {
				s.AgeShares[bucket] = n / total
			}
		}
		s.Total = int64(math.Round(total))
	}

	return s
}

func pickString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

func pickNumber(item map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := item[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			cleaned := strings.Map(func(r rune) rune {
				if (r >= '0' && r <= '9') || r == '.' || r == '-' {
					return r
				}
				return -1
			}, n)
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
