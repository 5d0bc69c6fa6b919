package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-intel/internal/audience"
	"github.com/sells-group/site-intel/internal/model"
)

func baseEvidence() evidence {
	return evidence{
		Indicators: model.Indicators{
			CountsByGroup: map[string]int64{"FOOD": 18, "CAFE": 7},
			DensityPerKm2: 22,
			Diversity:     1.5,
			Anchors:       []string{"Grand Mart Central"},
		},
		Buckets:         map[string]int64{"restaurant/bar": 11, "cafe/bakery": 4},
		Signals:         model.Signals{"transport_hub": {Count: 2}, "parking": {Count: 1}},
		MergedDensity:   18,
		Fit:             audience.Result{Score: 0.6, Env: map[string]float64{audience.DimWorker: 0.5}},
		PrimaryCategory: "cafe/bakery",
		Population: &model.PopulationSnapshot{
			AgeShares:     map[string]float64{"20_29": 0.2, "30_39": 0.25, "40_49": 0.2},
			DensityPerKm2: 40,
		},
	}
}

func TestCompleteRequested_FillsMissingTypes(t *testing.T) {
	parsed := []model.AnalysisItem{
		{Type: TypeCompetition, Status: model.StatusOK, Score: 0.7, Summary: "from the model", Metrics: map[string]any{}},
	}
	requested := []string{TypeCompetition, TypeRent, TypeRisk}

	out := completeRequested(parsed, requested, baseEvidence())

	require.Len(t, out, 3)
	assert.Equal(t, "from the model", out[0].Summary)
	for _, a := range out {
		assert.Equal(t, model.StatusOK, a.Status)
		assert.GreaterOrEqual(t, a.Score, 0.0)
		assert.LessOrEqual(t, a.Score, 1.0)
		assert.NotEmpty(t, a.Summary)
	}
}

func TestCompleteRequested_DeduplicatesRequest(t *testing.T) {
	out := completeRequested(nil, []string{TypeRent, TypeRent}, baseEvidence())
	assert.Len(t, out, 1)
}

func TestHeuristicAnalysis(t *testing.T) {
	ev := baseEvidence()

	t.Run("every known type scores in range", func(t *testing.T) {
		types := []string{
			TypeCompetition, TypeFootTraffic, TypeSiteFit, TypeTrend,
			TypeRisk, TypeRent, TypeCustomerProfile, TypeSalesForecast,
		}
		for _, typ := range types {
			a := heuristicAnalysis(typ, ev)
			assert.Equal(t, typ, a.Type)
			assert.Equal(t, model.StatusOK, a.Status)
			assert.GreaterOrEqual(t, a.Score, 0.0, typ)
			assert.LessOrEqual(t, a.Score, 1.0, typ)
			assert.NotEmpty(t, a.Summary, typ)
			assert.NotNil(t, a.Metrics, typ)
		}
	})

	t.Run("unknown type gets the generic item", func(t *testing.T) {
		a := heuristicAnalysis("astrology", ev)
		assert.Equal(t, 0.5, a.Score)
		assert.Equal(t, model.StatusOK, a.Status)
	})

	t.Run("rent score rewards cheap areas", func(t *testing.T) {
		sparse := ev
		sparse.MergedDensity = 2
		dense := ev
		dense.MergedDensity = 60
		assert.Greater(t, heuristicAnalysis(TypeRent, sparse).Score, heuristicAnalysis(TypeRent, dense).Score)
	})

	t.Run("risk summary carries the first mismatch", func(t *testing.T) {
		withMismatch := ev
		withMismatch.Fit.Mismatches = []string{"target emphasizes student but the area shows weak support"}
		a := heuristicAnalysis(TypeRisk, withMismatch)
		assert.Contains(t, a.Summary, "student")
	})

	t.Run("sales forecast metrics respect the floor", func(t *testing.T) {
		empty := evidence{Fit: audience.Result{}, PrimaryCategory: "cafe/bakery"}
		a := heuristicAnalysis(TypeSalesForecast, empty)
		assert.GreaterOrEqual(t, a.Metrics["expectedMonthly"].(int64), int64(model.MinCurrencyFloor))
		assert.GreaterOrEqual(t, a.Metrics["breakEvenMonthly"].(int64), int64(model.MinCurrencyFloor))
	})
}

func TestFallbackRecommendation(t *testing.T) {
	ev := baseEvidence()
	allowed := []string{"cafe/bakery", "restaurant/bar"}

	rec := fallbackRecommendation(ev, allowed)

	// The registry's largest allowed bucket wins over the POI group guess.
	assert.Equal(t, "restaurant/bar", rec.Category)
	assert.GreaterOrEqual(t, rec.Score, 0.0)
	assert.LessOrEqual(t, rec.Score, 1.0)
	assert.NotEmpty(t, rec.Reason)
}
