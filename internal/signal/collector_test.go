package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/site-intel/pkg/places"
)

type mockPlaces struct {
	keywordDocs map[string][]places.Doc
}

func (m *mockPlaces) Geocode(ctx context.Context, address string) (*places.LatLng, error) {
	return nil, places.ErrNotFound
}

func (m *mockPlaces) RegionLabel(ctx context.Context, lat, lon float64) (*places.Region, error) {
	return nil, nil
}

func (m *mockPlaces) CountByCategory(ctx context.Context, lat, lon float64, radiusM int, code string) (int, error) {
	return 0, nil
}

func (m *mockPlaces) SearchCategory(ctx context.Context, lat, lon float64, radiusM int, code string) ([]places.Doc, error) {
	return nil, nil
}

func (m *mockPlaces) SearchKeyword(ctx context.Context, lat, lon float64, radiusM int, keyword string) ([]places.Doc, error) {
	return m.keywordDocs[keyword], nil
}

func TestLabelsFor(t *testing.T) {
	t.Run("base labels always present", func(t *testing.T) {
		labels := LabelsFor("")
		assert.Equal(t, []string{LabelHypermarket, LabelTransportHub, LabelGov, LabelConvenience}, labels)
	})

	t.Run("student audience adds campus labels", func(t *testing.T) {
		labels := LabelsFor("university students in their 20s")
		assert.Contains(t, labels, LabelUniversity)
		assert.Contains(t, labels, LabelStudentHousing)
	})

	t.Run("multiple audiences deduplicate", func(t *testing.T) {
		labels := LabelsFor("commuting office workers")
		// parking is implied by both worker and commuter markers.
		count := 0
		for _, l := range labels {
			if l == LabelParking {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestCollect_FiltersAndSamples(t *testing.T) {
	p := &mockPlaces{keywordDocs: map[string][]places.Doc{
		"hypermarket": {
			{Name: "Grand Hypermarket", Category: "hypermarket"},
			{Name: "Corner Shop", Category: "grocery"}, // not hypermarket-like
		},
		"convenience store": {
			{Name: "QuickStop Convenience", Category: "convenience store"},
			{Name: "QuickStop Convenience", Category: "convenience store"}, // duplicate
		},
	}}

	signals := NewCollector(p).Collect(context.Background(), 36.78, 126.45, 600, "")

	assert.Equal(t, 1, signals.Count(LabelHypermarket))
	assert.Equal(t, []string{"Grand Hypermarket"}, signals[LabelHypermarket].Samples)

	// The duplicate document still counts; only the sample list is deduped.
	assert.Equal(t, 2, signals.Count(LabelConvenience))
	assert.Equal(t, []string{"QuickStop Convenience"}, signals[LabelConvenience].Samples)
	assert.Equal(t, 0, signals.Count(LabelTransportHub))
}

func TestCollect_CountsDuplicatesAcrossKeywords(t *testing.T) {
	p := &mockPlaces{keywordDocs: map[string][]places.Doc{
		"city hall":         {{Name: "Old City Hall"}},
		"government office": {{Name: "Old City Hall"}, {Name: "Tax Office"}},
	}}

	signals := NewCollector(p).Collect(context.Background(), 36.78, 126.45, 600, "")

	assert.Equal(t, 3, signals.Count(LabelGov))
	assert.Equal(t, []string{"Old City Hall", "Tax Office"}, signals[LabelGov].Samples)
}

func TestCollect_VillaIsNotResidential(t *testing.T) {
	p := &mockPlaces{keywordDocs: map[string][]places.Doc{
		"apartment complex": {
			{Name: "Riverside Apartment", Category: "apartment complex"},
			{Name: "Sunrise Villa", Category: "villa"},
		},
	}}

	signals := NewCollector(p).Collect(context.Background(), 36.78, 126.45, 600, "young families")

	assert.Equal(t, 1, signals.Count(LabelResidential))
	assert.Equal(t, []string{"Riverside Apartment"}, signals[LabelResidential].Samples)
}

func TestCollect_StopsAtThreeSamples(t *testing.T) {
	p := &mockPlaces{keywordDocs: map[string][]places.Doc{
		"city hall":         {{Name: "Old City Hall"}, {Name: "New City Hall"}, {Name: "City Hall Annex"}},
		"government office": {{Name: "Tax Office"}},
	}}

	signals := NewCollector(p).Collect(context.Background(), 36.78, 126.45, 600, "")

	// Scanning stops after the first keyword fills three samples, so the
	// tax office is never counted.
	assert.Equal(t, 3, signals.Count(LabelGov))
	assert.Len(t, signals[LabelGov].Samples, 3)
}
