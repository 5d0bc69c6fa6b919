package analysis

import (
	"fmt"
	"strings"

	"github.com/sells-group/site-intel/internal/category"
	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

// maxInsights caps the insight list in a report.
const maxInsights = 6

// hasArrow reports whether an insight follows the "evidence -> implication"
// shape.
func hasArrow(s string) bool {
	return strings.Contains(s, "→") || strings.Contains(s, "->")
}

// anyArrow reports whether at least one insight has the arrow shape. Model
// insights are kept only when one does.
func anyArrow(insights []string) bool {
	for _, s := range insights {
		if hasArrow(s) {
			return true
		}
	}
	return false
}

// actionableInsights rewrites the insight list from the raw evidence when the
// model's insights are missing or shapeless. Each line is one
// "evidence -> implication" statement, at most maxInsights of them.
func actionableInsights(ev evidence, cat string) []string {
	var out []string

	convLocal := int64(ev.Signals.Count(signal.LabelConvenience))
	convReg := ev.Buckets["retail/convenience"]
	conv := convLocal
	if convReg > conv {
		conv = convReg
	}
	if conv >= 3 {
		out = append(out, fmt.Sprintf(
			"%d convenience stores -> grab-and-go demand is spread out, %s favors fast turnover and small portions",
			conv, cat))
	}

	if uni := ev.Signals.Count(signal.LabelUniversity); uni > 0 {
		out = append(out, fmt.Sprintf(
			"%d campus(es) nearby (e.g. %s) -> weekday lunch and exam-season demand, keep reliance in line with audience fit %.2f",
			uni, joinSamples(ev.Signals, signal.LabelUniversity), ev.Fit.Score))
	}

	if res := ev.Signals.Count(signal.LabelResidential); res > 0 {
		out = append(out, fmt.Sprintf(
			"%d residential complexes (e.g. %s) -> evening and weekend family demand, optimize takeout and delivery flow",
			res, joinSamples(ev.Signals, signal.LabelResidential)))
	}

	hubs := ev.Signals.Count(signal.LabelTransportHub) + ev.Signals.Count(signal.LabelStation)
	parking := ev.Signals.Count(signal.LabelParking)
	if hubs+parking > 0 {
		out = append(out, fmt.Sprintf(
			"%d transit hubs and %d parking sites -> good vehicle access, a pickup zone lifts turnover",
			hubs, parking))
	}

	if food := ev.Indicators.CountsByGroup[category.GroupFood]; food >= 15 {
		out = append(out, fmt.Sprintf(
			"%d restaurants -> strong category competition, differentiate with lunch specials and a signature item",
			food))
	}

	if pd := ev.Population.Density(); pd > 0 {
		out = append(out, fmt.Sprintf(
			"population density %.1f/km2 -> lean into turnover, concentrate staffing on lunch and commute hours", pd))
	}

	s20 := ev.Population.Share20s()
	s3059 := ev.Population.Share30to59()
	s60p := ev.Population.Share60Plus()
	switch {
	case s3059 > 0:
		out = append(out, fmt.Sprintf(
			"30-59 share %.0f%% -> price and menu %s toward families and office workers", s3059*100, cat))
	case s20 > 0:
		out = append(out, fmt.Sprintf(
			"20s share %.0f%% -> dining and cafe demand, mind price sensitivity", s20*100))
	case s60p > 0:
		out = append(out, fmt.Sprintf(
			"60+ share %.0f%% -> prioritize seating comfort, short waits and milder options", s60p*100))
	}

	if len(out) == 0 {
		if ev.MergedDensity < 12 {
			out = append(out, "low storefront density -> low rent and fixed-cost burden, a sharply defined offer wins")
		} else {
			out = append(out, "average-or-better storefront density -> turnover-centric operations pay off")
		}
	}

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// joinSamples renders up to two sample names for a label.
func joinSamples(signals model.Signals, label string) string {
	samples := signals[label].Samples
	if len(samples) > 2 {
		samples = samples[:2]
	}
	return strings.Join(samples, "/")
}
