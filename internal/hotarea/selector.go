// Package hotarea picks up to two named foot-traffic zones around the point
// from the anchor and signal evidence, falling back to the region center.
package hotarea

import (
	"strings"

	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

// maxAreas caps the distinct zone labels in a report.
const maxAreas = 2

// fallbackScore is used when nothing stronger than the region itself is known.
const fallbackScore = 60

// banMarkers disqualify a candidate name outright. Schools, churches,
// small-unit housing and single convenience stores generate visits but no
// commercial zone of their own.
var banMarkers = []string{
	"school", "kids", "kindergarten", "elementary",
	"church", "cemetery",
	"villa", "studio", "dormitory",
	"convenience",
}

// tagScores ranks the candidate sources. Order here is also the scan priority.
var tagScores = []struct {
	tag   string
	score int
}{
	{"anchor", 85},
	{signal.LabelUniversity, 80},
	{signal.LabelHypermarket, 78},
	{signal.LabelStation, 75},
	{signal.LabelTransportHub, 75},
	{signal.LabelGov, 70},
	{signal.LabelMarket, 70},
	{signal.LabelResidential, 65},
}

// Candidates builds the full scored candidate pool from anchors and signal
// samples in priority order, ban-filtered and deduped by zone label. The pool
// is not capped; Select narrows it for the report while the model sees all of
// it.
func Candidates(ind model.Indicators, signals model.Signals) []model.HotArea {
	var out []model.HotArea
	seen := make(map[string]struct{})

	for _, ts := range tagScores {
		var names []string
		if ts.tag == "anchor" {
			names = ind.Anchors
		} else {
			names = signals[ts.tag].Samples
		}
		for _, name := range names {
			if banned(name) {
				continue
			}
			label := zoneLabel(ts.tag, name)
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, model.HotArea{Name: label, Score: ts.score})
		}
	}
	return out
}

// Select keeps the first maxAreas candidates. With an empty pool it returns a
// single region-center fallback.
func Select(candidates []model.HotArea, region string) []model.HotArea {
	if len(candidates) == 0 {
		center := strings.TrimSpace(region)
		if center == "" {
			center = "local"
		}
		return []model.HotArea{{Name: center + " center", Score: fallbackScore}}
	}
	if len(candidates) > maxAreas {
		candidates = candidates[:maxAreas]
	}
	return candidates
}

func banned(name string) bool {
	blob := strings.ToLower(name)
	for _, m := range banMarkers {
		if strings.Contains(blob, m) {
			return true
		}
	}
	return false
}

// zoneLabel turns a candidate name into a zone label for its source tag.
func zoneLabel(tag, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	switch tag {
	case signal.LabelHypermarket:
		return name + " commercial area"
	case signal.LabelResidential:
		return residentialLabel(name) + " commercial area"
	default:
		return name + " area"
	}
}

// residentialLabel normalizes an apartment-complex name so the zone label
// reads as a complex rather than a single building.
func residentialLabel(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "complex") {
		return name
	}
	if idx := strings.Index(lower, "apartment"); idx >= 0 {
		return strings.TrimSpace(name[:idx]) + " apartment complex"
	}
	return name + " apartment complex"
}
