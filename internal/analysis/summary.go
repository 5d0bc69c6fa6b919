package analysis

import (
	"fmt"

	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

// synthesizeSummary writes the report summary from raw evidence when the
// model's own summary is blank.
func synthesizeSummary(regionLabel string, recs []model.Recommendation, ev evidence) string {
	cat := "the leading category"
	if len(recs) > 0 {
		cat = recs[0].Category
	}
	hubs := ev.Signals.Count(signal.LabelTransportHub) + ev.Signals.Count(signal.LabelStation)
	return fmt.Sprintf(
		"In %s, viability for a %s business sums up as: storefront density %.1f/km2, mix diversity %.2f, %d transit hubs, population density %.1f/km2 with a 30-59 share of %.0f%%, audience fit %.2f.",
		regionLabel, cat,
		ev.MergedDensity, ev.Indicators.Diversity, hubs,
		ev.Population.Density(), ev.Population.Share30to59()*100,
		ev.Fit.Score,
	)
}
