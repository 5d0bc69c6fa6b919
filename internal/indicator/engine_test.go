package indicator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/site-intel/pkg/places"
)

// mockPlaces serves canned counts and documents keyed by category code.
type mockPlaces struct {
	counts      map[string]int
	docs        map[string][]places.Doc
	keywordDocs map[string][]places.Doc
	countErr    error
}

func (m *mockPlaces) Geocode(ctx context.Context, address string) (*places.LatLng, error) {
	return nil, places.ErrNotFound
}

func (m *mockPlaces) RegionLabel(ctx context.Context, lat, lon float64) (*places.Region, error) {
	return &places.Region{Label: "Test District"}, nil
}

func (m *mockPlaces) CountByCategory(ctx context.Context, lat, lon float64, radiusM int, code string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.counts[code], nil
}

func (m *mockPlaces) SearchCategory(ctx context.Context, lat, lon float64, radiusM int, code string) ([]places.Doc, error) {
	return m.docs[code], nil
}

func (m *mockPlaces) SearchKeyword(ctx context.Context, lat, lon float64, radiusM int, keyword string) ([]places.Doc, error) {
	return m.keywordDocs[keyword], nil
}

func TestCompute_AggregatesGroupsAndAnchors(t *testing.T) {
	p := &mockPlaces{
		counts: map[string]int{
			"restaurant":     18,
			"cafe":           7,
			"hypermarket":    1,
			"subway_station": 1,
		},
		docs: map[string][]places.Doc{
			"hypermarket":    {{Name: "Grand Mart Central"}},
			"subway_station": {{Name: "City Hall Station"}, {Name: "City Hall Station"}},
		},
	}

	ind := NewEngine(p).Compute(context.Background(), 36.78, 126.45, 600)

	assert.Equal(t, int64(18), ind.CountsByGroup["FOOD"])
	assert.Equal(t, int64(7), ind.CountsByGroup["CAFE"])
	assert.Equal(t, int64(27), ind.Total())
	assert.Greater(t, ind.DensityPerKm2, 0.0)
	assert.Greater(t, ind.Diversity, 0.0)
	// Anchor names are distinct.
	assert.Equal(t, []string{"Grand Mart Central", "City Hall Station"}, ind.Anchors)
}

func TestCompute_CampusKeywordFallback(t *testing.T) {
	p := &mockPlaces{
		counts: map[string]int{"restaurant": 3},
		keywordDocs: map[string][]places.Doc{
			"university": {
				{Name: "Hanseo University Campus", Category: "school"},
				{Name: "University Print Shop", Category: "services"},
				{Name: "Riverside Diner", Category: "restaurant"},
			},
		},
	}

	ind := NewEngine(p).Compute(context.Background(), 36.78, 126.45, 600)

	// Only names carrying a campus marker qualify.
	assert.Contains(t, ind.Anchors, "Hanseo University Campus")
	assert.Contains(t, ind.Anchors, "University Print Shop")
	assert.NotContains(t, ind.Anchors, "Riverside Diner")
}

func TestCompute_CampusKeywordSkippedWhenAnchorsExist(t *testing.T) {
	p := &mockPlaces{
		counts: map[string]int{"hypermarket": 1, "subway_station": 1},
		docs: map[string][]places.Doc{
			"hypermarket":    {{Name: "Grand Mart Central"}},
			"subway_station": {{Name: "City Hall Station"}},
		},
		keywordDocs: map[string][]places.Doc{
			"university": {{Name: "Hanseo University Campus", Category: "school"}},
		},
	}

	ind := NewEngine(p).Compute(context.Background(), 36.78, 126.45, 600)

	// Real anchors suppress the keyword fallback entirely.
	assert.Equal(t, []string{"Grand Mart Central", "City Hall Station"}, ind.Anchors)
}

func TestCompute_DiversityZeroForSingleGroup(t *testing.T) {
	p := &mockPlaces{counts: map[string]int{"restaurant": 25}}

	ind := NewEngine(p).Compute(context.Background(), 36.78, 126.45, 600)

	assert.Zero(t, ind.Diversity)
}

func TestCompute_ProviderFailureDegradesToZero(t *testing.T) {
	p := &mockPlaces{countErr: errors.New("boom")}

	ind := NewEngine(p).Compute(context.Background(), 36.78, 126.45, 600)

	assert.Zero(t, ind.Total())
	assert.Zero(t, ind.DensityPerKm2)
	assert.Empty(t, ind.Anchors)
}
