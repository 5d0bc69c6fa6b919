// Package signal collects labeled local-environment signals via keyword
// search: how many hypermarkets, transit hubs, campuses and so on sit around
// the point, with a few named examples per label.
package signal

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/pkg/places"
)

// maxSamples caps the named examples kept per label; keyword scanning for a
// label stops once the cap is reached.
const maxSamples = 3

// Collector fans keyword searches out per label.
type Collector struct {
	places places.Client
}

// NewCollector creates a signal collector.
func NewCollector(p places.Client) *Collector {
	return &Collector{places: p}
}

// Collect gathers signals for every label the audience implies. Provider
// failures degrade that label to zero rather than failing the collection, so
// Collect never returns an error.
func (c *Collector) Collect(ctx context.Context, lat, lon float64, radiusM int, targetAudience string) model.Signals {
	out := make(model.Signals)
	for _, label := range LabelsFor(targetAudience) {
		out[label] = c.collectLabel(ctx, lat, lon, radiusM, label)
	}
	return out
}

func (c *Collector) collectLabel(ctx context.Context, lat, lon float64, radiusM int, label string) model.Signal {
	var sig model.Signal
	seen := make(map[string]struct{})

	for _, kw := range labelKeywords[label] {
		docs, err := c.places.SearchKeyword(ctx, lat, lon, radiusM, kw)
		if err != nil {
			zap.L().Warn("signal: keyword search failed",
				zap.String("label", label),
				zap.String("keyword", kw),
				zap.Error(err),
			)
			continue
		}
		for _, d := range docs {
			name := strings.TrimSpace(d.Name)
			if name == "" || !matchesLabel(label, d) {
				continue
			}
			// Every matching document counts; only samples are deduped.
			sig.Count++
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if len(sig.Samples) < maxSamples {
				sig.Samples = append(sig.Samples, name)
			}
		}
		if len(sig.Samples) >= maxSamples {
			break
		}
	}
	return sig
}

// matchesLabel filters out keyword hits that are not really the thing the
// label means. Keyword search is fuzzy: "apartment complex" also returns
// realtors, "hypermarket" returns corner shops branding themselves as marts.
func matchesLabel(label string, d places.Doc) bool {
	blob := strings.ToLower(d.Name + " " + d.Category)
	switch label {
	case LabelHypermarket:
		return looksLikeHypermarket(blob)
	case LabelResidential:
		return looksLikeApartment(blob)
	case LabelConvenience:
		return looksLikeConvenience(blob)
	default:
		return true
	}
}

func looksLikeHypermarket(blob string) bool {
	for _, m := range []string{"hypermarket", "supercenter", "warehouse club", "wholesale"} {
		if strings.Contains(blob, m) {
			return true
		}
	}
	return false
}

func looksLikeApartment(blob string) bool {
	for _, m := range []string{"apartment", "residential complex", "housing complex"} {
		if strings.Contains(blob, m) {
			return true
		}
	}
	return false
}

func looksLikeConvenience(blob string) bool {
	return strings.Contains(blob, "convenience")
}
