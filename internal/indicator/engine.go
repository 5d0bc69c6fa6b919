// Package indicator computes the POI composition indicators around a point:
// group counts, density, diversity, and named anchors.
package indicator

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/category"
	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/pkg/places"
)

// maxAnchors caps the named anchor list.
const maxAnchors = 5

// campusMarkers accepts keyword-search hits as campus anchors when the
// category taxonomy has no direct code for them.
var campusMarkers = []string{"university", "college", "campus", "graduate school"}

// Engine scans the places taxonomy and aggregates indicators.
type Engine struct {
	places places.Client
}

// NewEngine creates an indicator engine.
func NewEngine(p places.Client) *Engine {
	return &Engine{places: p}
}

// Compute scans every category code in the taxonomy and returns the aggregated
// indicators. Individual provider failures degrade to zero counts rather than
// failing the whole computation, so Compute never returns an error.
func (e *Engine) Compute(ctx context.Context, lat, lon float64, radiusM int) model.Indicators {
	counts := make(map[string]int64, len(category.POICodes))
	var anchors []string
	seen := make(map[string]struct{})

	for _, pc := range category.POICodes {
		n, err := e.places.CountByCategory(ctx, lat, lon, radiusM, pc.Code)
		if err != nil {
			zap.L().Warn("indicator: category count failed",
				zap.String("code", pc.Code),
				zap.Error(err),
			)
			continue
		}
		counts[pc.Group] += int64(n)

		if pc.Anchor && n > 0 && len(anchors) < maxAnchors {
			docs, err := e.places.SearchCategory(ctx, lat, lon, radiusM, pc.Code)
			if err != nil {
				zap.L().Warn("indicator: anchor search failed",
					zap.String("code", pc.Code),
					zap.Error(err),
				)
				continue
			}
			anchors = appendAnchors(anchors, seen, docs, nil)
		}
	}

	// The taxonomy has no campus code; pick universities up by keyword, but
	// only when the anchor categories themselves produced nothing.
	if len(anchors) == 0 {
		docs, err := e.places.SearchKeyword(ctx, lat, lon, radiusM, "university")
		if err != nil {
			zap.L().Warn("indicator: campus keyword search failed", zap.Error(err))
		} else {
			anchors = appendAnchors(anchors, seen, docs, campusMarkers)
		}
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return model.Indicators{
		CountsByGroup: counts,
		DensityPerKm2: Density(total, radiusM),
		Diversity:     shannon(counts),
		Anchors:       anchors,
	}
}

// appendAnchors adds distinct document names up to the cap. When markers is
// non-empty, a document qualifies only if its name or category contains one.
func appendAnchors(anchors []string, seen map[string]struct{}, docs []places.Doc, markers []string) []string {
	for _, d := range docs {
		if len(anchors) >= maxAnchors {
			break
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		if len(markers) > 0 && !containsAny(strings.ToLower(name+" "+d.Category), markers) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		anchors = append(anchors, name)
	}
	return anchors
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// shannon computes the Shannon entropy of the group count distribution.
func shannon(counts map[string]int64) float64 {
	var total float64
	for _, n := range counts {
		total += float64(n)
	}
	if total <= 0 {
		return 0
	}
	var h float64
	for _, n := range counts {
		if n <= 0 {
			continue
		}
		p := float64(n) / total
		h -= p * math.Log(p)
	}
	return h
}
