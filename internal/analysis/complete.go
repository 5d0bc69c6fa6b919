package analysis

import (
	"fmt"
	"math"

	"github.com/sells-group/site-intel/internal/audience"
	"github.com/sells-group/site-intel/internal/category"
	"github.com/sells-group/site-intel/internal/econ"
	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

// Analysis types callers may request.
const (
	TypeCompetition     = "competition"
	TypeFootTraffic     = "foot_traffic"
	TypeSiteFit         = "site_fit"
	TypeTrend           = "trend"
	TypeRisk            = "risk"
	TypeRent            = "rent"
	TypeCustomerProfile = "customer_profile"
	TypeSalesForecast   = "sales_forecast"
)

// evidence bundles the derived indicators the heuristics draw from.
type evidence struct {
	Indicators      model.Indicators
	Buckets         map[string]int64 // registry counts folded into categories
	Signals         model.Signals
	MergedDensity   float64
	Fit             audience.Result
	PrimaryCategory string
	Recommended     string
	Population      *model.PopulationSnapshot
}

func (ev evidence) forecastCategory() string {
	if ev.Recommended != "" {
		return ev.Recommended
	}
	return ev.PrimaryCategory
}

// completeRequested keeps the parsed items for requested types and fills
// every remaining requested type with a heuristic item, preserving request
// order.
func completeRequested(parsed []model.AnalysisItem, requested []string, ev evidence) []model.AnalysisItem {
	byType := make(map[string]model.AnalysisItem, len(parsed))
	for _, a := range parsed {
		if _, dup := byType[a.Type]; !dup {
			byType[a.Type] = a
		}
	}

	out := make([]model.AnalysisItem, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, t := range requested {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if a, ok := byType[t]; ok {
			out = append(out, a)
			continue
		}
		out = append(out, heuristicAnalysis(t, ev))
	}
	return out
}

// heuristicAnalysis derives one analysis item from the indicators alone, used
// whenever the model skipped a requested type.
func heuristicAnalysis(t string, ev evidence) model.AnalysisItem {
	div := ev.Indicators.Diversity
	fitScore := ev.Fit.Score
	anchors := len(ev.Indicators.Anchors)

	popDensity := ev.Population.Density()
	s20 := ev.Population.Share20s()
	s3059 := ev.Population.Share30to59()
	s60p := ev.Population.Share60Plus()

	hubs := ev.Signals.Count(signal.LabelTransportHub) + ev.Signals.Count(signal.LabelStation)
	parking := ev.Signals.Count(signal.LabelParking)

	switch t {
	case TypeCompetition:
		compLoad := float64(econ.CompetitorLoad(ev.PrimaryCategory, ev.Buckets))
		score := model.Clamp01(0.55 - 0.25*compLoad + 0.10*econ.ScoreByDiversity(div) + 0.05*econ.PopulationDemandBias(ev.PrimaryCategory, ev.Population))
		summary := fmt.Sprintf(
			"%s distribution within the radius, mix diversity %.2f, %d anchors and a 30-59 share of %.0f%% point to a moderate competitive load",
			ev.PrimaryCategory, div, anchors, s3059*100,
		)
		return item(t, score, summary, map[string]any{
			"countsByGroup":       ev.Indicators.CountsByGroup,
			"registryBuckets":     ev.Buckets,
			"densityPerKm2":       ev.Indicators.DensityPerKm2,
			"diversity":           div,
			"anchors":             ev.Indicators.Anchors,
			"mergedDensityPerKm2": ev.MergedDensity,
		})

	case TypeFootTraffic:
		visitorIdx := econ.VisitorIndex(ev.MergedDensity, hubs, parking)
		popAdj := math.Tanh(popDensity / 50.0)
		score := model.Clamp01(0.35 + 0.35*visitorIdx + 0.15*fitScore + 0.15*popAdj)
		summary := fmt.Sprintf(
			"%d transit hubs, %d parking sites, storefront density %.1f/km2 and population density %.1f/km2 suggest average-or-better inflow",
			hubs, parking, ev.MergedDensity, popDensity,
		)
		return item(t, score, summary, map[string]any{
			"hubs":                       hubs,
			"parking":                    parking,
			"mergedDensityPerKm2":        ev.MergedDensity,
			"populationDensityPerKm2":    popDensity,
		})

	case TypeSiteFit:
		targetAdj := 0.0
		if s3059 > 0 {
			targetAdj += 0.05
		}
		if s20 > 0 {
			targetAdj += 0.02
		}
		score := model.Clamp01(0.35*econ.ScoreByDensity(ev.MergedDensity) + 0.35*fitScore + 0.20*econ.ScoreByDiversity(div) + 0.10*targetAdj)
		summary := fmt.Sprintf(
			"audience fit %.2f, storefront density %.1f/km2, mix diversity %.2f and a 30-59 share of %.0f%% rate the site average or better",
			fitScore, ev.MergedDensity, div, s3059*100,
		)
		return item(t, score, summary, map[string]any{
			"mergedDensityPerKm2":   ev.MergedDensity,
			"fitScore":              fitScore,
			"diversity":             div,
			"populationShare30_59":  s3059,
		})

	case TypeTrend:
		var totalReg int64
		for _, n := range ev.Buckets {
			totalReg += n
		}
		score := model.Clamp01(0.45 + 0.2*econ.ScoreByDiversity(div) + 0.1*math.Tanh(float64(totalReg)/20.0) + 0.15*s3059)
		summary := fmt.Sprintf(
			"%d registered storefronts, mix diversity %.2f and a 30-59 share of %.0f%% indicate a stable trend",
			totalReg, div, s3059*100,
		)
		return item(t, score, summary, map[string]any{
			"diversity":            div,
			"registryTotal":        totalReg,
			"populationShare30_59": s3059,
		})

	case TypeRisk:
		visitorIdx := econ.VisitorIndex(ev.MergedDensity, hubs, parking)
		// Score reads as safety: higher means lower risk.
		score := model.Clamp01(0.20 + 0.35*fitScore + 0.20*visitorIdx + 0.15*econ.ScoreByDiversity(div) - 0.10*s60p)
		summary := "risk assessment from demand-environment fit, accessibility and the resident age structure"
		if len(ev.Fit.Mismatches) > 0 {
			summary += " / " + ev.Fit.Mismatches[0]
		}
		return item(t, score, summary, map[string]any{
			"fitScore":                fitScore,
			"visitorIndex":            visitorIdx,
			"diversity":               div,
			"mergedDensityPerKm2":     ev.MergedDensity,
			"mismatchReasons":         ev.Fit.Mismatches,
			"populationShare60_plus":  s60p,
		})

	case TypeRent:
		rent := econ.EstimateRent(ev.MergedDensity)
		score := model.Clamp01(1.0 - rent.Index)
		burden := "average"
		if rent.Index < 0.45 {
			burden = "on the low side"
		}
		summary := fmt.Sprintf("rent level %s (about %d KRW monthly), cost burden %s", rent.Level, rent.MonthlyKRW, burden)
		return item(t, score, summary, map[string]any{
			"rentLevel":               rent.Level,
			"estimatedMonthlyRentKRW": rent.MonthlyKRW,
			"rentIndex":               rent.Index,
		})

	case TypeCustomerProfile:
		top := ev.Fit.TopEnvDimension()
		if top == "" {
			top = audience.DimFamily
		}
		score := model.Clamp01(fitScore)
		summary := fmt.Sprintf(
			"dominant demand leans %s (20s %.0f%%, 30-59 %.0f%%, 60+ %.0f%%)",
			top, s20*100, s3059*100, s60p*100,
		)
		return item(t, score, summary, map[string]any{
			"envVector": ev.Fit.Env,
			"fitScore":  score,
		})

	case TypeSalesForecast:
		est := econ.EstimateSales(ev.forecastCategory(), ev.MergedDensity, fitScore, ev.Buckets, ev.Population)
		score := model.Clamp01(0.5 + 0.5*fitScore)
		summary := "monthly revenue and break-even derived from category demand, competition, density and population indicators"
		return item(t, score, summary, map[string]any{
			"expectedMonthly":  est.ExpectedMonthly,
			"breakEvenMonthly": est.BreakEvenMonthly,
		})
	}

	return item(t, 0.5, "summary derived from the surrounding commerce, population and environment indicators", map[string]any{})
}

func item(t string, score float64, summary string, metrics map[string]any) model.AnalysisItem {
	return model.AnalysisItem{
		Type:    t,
		Status:  model.StatusOK,
		Score:   score,
		Summary: summary,
		Metrics: metrics,
	}
}

// fallbackRecommendation builds the single backup recommendation when the
// model returned nothing usable within the allowed set.
func fallbackRecommendation(ev evidence, allowed []string) model.Recommendation {
	guess := category.GuessFromGroups(ev.Indicators.CountsByGroup, allowed)

	// Prefer the registry's largest bucket when it is an allowed category.
	var topBucket string
	var topN int64 = -1
	for cat, n := range ev.Buckets {
		if n > topN || (n == topN && cat < topBucket) {
			topBucket, topN = cat, n
		}
	}
	if topBucket != "" {
		for _, a := range allowed {
			if a == topBucket {
				guess = topBucket
				break
			}
		}
	}

	score := 0.45*ev.Fit.Score +
		0.30*econ.ScoreByDensity(ev.MergedDensity) +
		0.15*econ.ScoreByDiversity(ev.Indicators.Diversity) +
		0.10*econ.PopulationDemandBias(guess, ev.Population)

	return model.Recommendation{
		Category: guess,
		Score:    model.Clamp01(score),
		Reason:   "baseline pick from storefront density and mix, audience fit and the resident population profile",
	}
}
