package hotarea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

func TestSelect_PriorityAndCap(t *testing.T) {
	ind := model.Indicators{Anchors: []string{"Grand Mart Central"}}
	signals := model.Signals{
		signal.LabelUniversity:  {Count: 1, Samples: []string{"Hanseo University"}},
		signal.LabelStation:     {Count: 1, Samples: []string{"City Hall Station"}},
		signal.LabelResidential: {Count: 2, Samples: []string{"Riverside Apartment"}},
	}

	areas := Select(Candidates(ind, signals), "Seosan-si Dongmun-dong")

	require.Len(t, areas, 2)
	// Anchors outrank signal sources.
	assert.Equal(t, "Grand Mart Central area", areas[0].Name)
	assert.Equal(t, 85, areas[0].Score)
	assert.Equal(t, "Hanseo University area", areas[1].Name)
	assert.Equal(t, 80, areas[1].Score)
}

func TestCandidates_KeepsFullPool(t *testing.T) {
	ind := model.Indicators{Anchors: []string{"Grand Mart Central", "City Hall Station"}}
	signals := model.Signals{
		signal.LabelUniversity:  {Count: 1, Samples: []string{"Hanseo University"}},
		signal.LabelResidential: {Count: 1, Samples: []string{"Riverside Apartment"}},
	}

	pool := Candidates(ind, signals)

	// The pool is not narrowed to two; only Select is.
	require.Len(t, pool, 4)
	assert.Len(t, Select(pool, "Seosan-si"), 2)
}

func TestCandidates_BansInstitutionalNames(t *testing.T) {
	ind := model.Indicators{Anchors: []string{"Dongmun Elementary School"}}

	areas := Select(Candidates(ind, model.Signals{}), "Seosan-si")

	require.Len(t, areas, 1)
	assert.Equal(t, "Seosan-si center", areas[0].Name)
	assert.Equal(t, 60, areas[0].Score)
}

func TestCandidates_BansSmallHousingAndConvenienceNames(t *testing.T) {
	ind := model.Indicators{Anchors: []string{"GS25 Convenience Store Dongmun"}}
	signals := model.Signals{
		signal.LabelResidential: {Count: 3, Samples: []string{
			"Sunrise Villa",
			"Dongmun Studio Residence",
			"Campus Dormitory Hall",
		}},
	}

	areas := Select(Candidates(ind, signals), "Seosan-si")

	require.Len(t, areas, 1)
	assert.Equal(t, "Seosan-si center", areas[0].Name)
}

func TestCandidates_ZoneLabels(t *testing.T) {
	signals := model.Signals{
		signal.LabelHypermarket: {Count: 1, Samples: []string{"Grand Mart"}},
		signal.LabelResidential: {Count: 1, Samples: []string{"Riverside Apartment"}},
	}

	areas := Select(Candidates(model.Indicators{}, signals), "Seosan-si")

	require.Len(t, areas, 2)
	assert.Equal(t, "Grand Mart commercial area", areas[0].Name)
	assert.Equal(t, "Riverside apartment complex commercial area", areas[1].Name)
	assert.Equal(t, 65, areas[1].Score)
}

func TestSelect_FallbackWhenNoCandidates(t *testing.T) {
	areas := Select(nil, "")

	require.Len(t, areas, 1)
	assert.Equal(t, "local center", areas[0].Name)
}

func TestSelect_NeverExceedsTwo(t *testing.T) {
	ind := model.Indicators{Anchors: []string{"A Mart", "B Station", "C Terminal", "D Plaza"}}

	areas := Select(Candidates(ind, model.Signals{}), "Seosan-si")

	assert.LessOrEqual(t, len(areas), 2)
}
