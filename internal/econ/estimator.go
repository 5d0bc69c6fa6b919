// Package econ holds the heuristic economic model: rent estimation, per
// category conversion economics, visitor indexing and the sales/break-even
// forecast.
package econ

import (
	"math"

	"github.com/sells-group/site-intel/internal/model"
)

// Fixed monthly cost assumptions (KRW).
const (
	staffMonthlyKRW = 1_800_000
	otherMonthlyKRW = 500_000

	rentBaseKRW   = 600_000
	rentSpreadKRW = 1_800_000

	baseMonthlyVisitors = 2500
)

// CategoryEconomics captures the per-category conversion assumptions.
type CategoryEconomics struct {
	Conversion float64 // visitors converting to a transaction
	BasketKRW  int64   // average spend per transaction
	Margin     float64 // contribution margin on revenue
}

var defaultEconomics = CategoryEconomics{Conversion: 0.020, BasketKRW: 9_000, Margin: 0.40}

var economicsByCategory = map[string]CategoryEconomics{
	"cafe/bakery":        {Conversion: 0.025, BasketKRW: 8_500, Margin: 0.57},
	"restaurant/bar":     {Conversion: 0.030, BasketKRW: 12_000, Margin: 0.42},
	"medical/pharmacy":   {Conversion: 0.018, BasketKRW: 18_000, Margin: 0.35},
	"education/academy":  {Conversion: 0.010, BasketKRW: 60_000, Margin: 0.60},
	"retail/convenience": {Conversion: 0.022, BasketKRW: 7_000, Margin: 0.33},
}

// EconomicsFor returns the conversion assumptions for a category, falling back
// to the generic profile for untracked categories.
func EconomicsFor(category string) CategoryEconomics {
	if e, ok := economicsByCategory[category]; ok {
		return e
	}
	return defaultEconomics
}

// trackedCompetitors are the categories whose registry bucket is a direct
// competitor count; everything else competes with the whole strip.
var trackedCompetitors = map[string]struct{}{
	"cafe/bakery":        {},
	"restaurant/bar":     {},
	"medical/pharmacy":   {},
	"education/academy":  {},
	"retail/convenience": {},
}

// CompetitorLoad returns the competitor count for a category from the bucketed
// registry counts. Untracked categories get the bucket total.
func CompetitorLoad(category string, buckets map[string]int64) int64 {
	if _, ok := trackedCompetitors[category]; ok {
		return buckets[category]
	}
	var total int64
	for _, n := range buckets {
		total += n
	}
	return total
}

// RentEstimate is the heuristic monthly rent.
type RentEstimate struct {
	Index      float64 // 0..1 density-scaled position
	MonthlyKRW int64
	Level      string // "low", "medium", "high"
}

// EstimateRent scales rent with merged storefront density: 0.6M at empty,
// 2.4M at saturated (35/km2 and up).
func EstimateRent(mergedDensity float64) RentEstimate {
	idx := model.Clamp01(mergedDensity / 35.0)
	monthly := int64(math.Round(rentBaseKRW + idx*rentSpreadKRW))
	level := "high"
	switch {
	case idx < 0.33:
		level = "low"
	case idx < 0.66:
		level = "medium"
	}
	return RentEstimate{Index: idx, MonthlyKRW: monthly, Level: level}
}

// VisitorIndex approximates monthly foot traffic on a 0..1 scale from the
// merged density and the transit-hub/parking counts.
func VisitorIndex(mergedDensity float64, hubs, parking int) float64 {
	d := math.Tanh(mergedDensity / 12.0)
	a := math.Tanh((float64(hubs) + 0.5*float64(parking)) / 4.0)
	return model.Clamp01(0.6*d + 0.4*a)
}

// DemandAdjust derives a 0..1 demand multiplier from the age mix and
// population density for a category.
func DemandAdjust(category string, pop *model.PopulationSnapshot) float64 {
	s20 := pop.Share20s()
	s3059 := pop.Share30to59()
	s60p := pop.Share60Plus()
	pd := pop.Density()

	var adj float64
	switch category {
	case "cafe/bakery":
		adj = 0.9 + 0.4*s20 + 0.2*s3059
	case "restaurant/bar":
		adj = 0.9 + 0.3*s3059 + 0.1*s20 + 0.05*math.Min(1, pd/60.0)
	case "medical/pharmacy":
		adj = 0.85 + 0.35*s60p + 0.10*s3059
	case "education/academy":
		adj = 0.85 + 0.35*s20 + 0.10*s3059
	case "retail/convenience":
		adj = 0.9 + 0.2*s20 + 0.2*s3059 + 0.05*math.Min(1, pd/60.0)
	default:
		adj = 0.9 + 0.2*s3059 + 0.1*s20
	}
	return model.Clamp01(adj)
}

// EstimateSales forecasts monthly revenue and break-even revenue for a
// category. Both figures are floored at model.MinCurrencyFloor so a thin area
// never reports an absurdly small number.
func EstimateSales(category string, mergedDensity, fitScore float64, buckets map[string]int64, pop *model.PopulationSnapshot) model.SalesForecast {
	comp := CompetitorLoad(category, buckets)
	visitorIdx := VisitorIndex(mergedDensity, 0, 0)
	eco := EconomicsFor(category)
	demandAdj := DemandAdjust(category, pop)

	baseVisitors := baseMonthlyVisitors * (0.5 + 0.5*visitorIdx) * (0.55 + 0.45*fitScore) * (0.7 + 0.6*demandAdj)

	compAdj := 1.0 / (1.0 + 0.12*math.Max(0, float64(comp)-5))
	transactions := math.Round(baseVisitors * eco.Conversion * compAdj)
	revenue := int64(transactions) * eco.BasketKRW

	rent := EstimateRent(mergedDensity)
	fixed := rent.MonthlyKRW + staffMonthlyKRW + otherMonthlyKRW
	bep := int64(math.Ceil(float64(fixed) / math.Max(0.05, eco.Margin)))

	return model.SalesForecast{
		ExpectedMonthly:  max64(model.MinCurrencyFloor, revenue),
		BreakEvenMonthly: max64(model.MinCurrencyFloor, bep),
	}
}

// ScoreByDensity bands the merged density into a coarse 0..1 score.
func ScoreByDensity(mergedDensity float64) float64 {
	switch {
	case mergedDensity < 6:
		return 0.35
	case mergedDensity < 12:
		return 0.5
	case mergedDensity < 20:
		return 0.6
	default:
		return 0.7
	}
}

// ScoreByDiversity bands the Shannon diversity into a coarse 0..1 score.
func ScoreByDiversity(h float64) float64 {
	switch {
	case h < 1.0:
		return 0.4
	case h < 1.4:
		return 0.5
	case h < 1.8:
		return 0.6
	default:
		return 0.7
	}
}

// PopulationDemandBias maps the age mix to a small per-category demand bias
// used by the fallback recommendation score.
func PopulationDemandBias(category string, pop *model.PopulationSnapshot) float64 {
	s20 := pop.Share20s()
	s3059 := pop.Share30to59()
	s60p := pop.Share60Plus()

	switch category {
	case "cafe/bakery":
		return 0.4*s20 + 0.3*s3059 + 0.1
	case "restaurant/bar":
		return 0.35*s3059 + 0.2*s20 + 0.1
	case "medical/pharmacy":
		return 0.45*s60p + 0.2*s3059 + 0.1
	case "education/academy":
		return 0.45*s20 + 0.2*s3059 + 0.1
	case "retail/convenience":
		return 0.25*s20 + 0.25*s3059 + 0.1
	default:
		return 0.2*s3059 + 0.1*s20
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
