// Package model defines the request and report types shared by the analysis engines.
package model

import "strings"

const (
	// DefaultRadiusM is applied when the caller omits the radius.
	DefaultRadiusM = 600
	// MinRadiusM and MaxRadiusM bound the search radius in meters.
	MinRadiusM = 200
	MaxRadiusM = 2000

	// MaxAudienceChars caps the free-text audience description.
	MaxAudienceChars = 500

	// MinCurrencyFloor is the lowest monthly figure a forecast may report.
	MinCurrencyFloor = 1_000_000
)

// AnalysisRequest is the caller's input for one site assessment.
type AnalysisRequest struct {
	Address              string   `json:"address,omitempty"`
	Lat                  *float64 `json:"lat,omitempty"`
	Lon                  *float64 `json:"lon,omitempty"`
	RadiusM              int      `json:"radius"`
	AnalysisTypes        []string `json:"analysisTypes"`
	InterestedCategories []string `json:"interestedCategories,omitempty"`
	BudgetBracket        string   `json:"budgetBracket,omitempty"`
	Experience           string   `json:"experience,omitempty"`
	TargetAudience       string   `json:"targetAudience,omitempty"`
}

// Normalize clamps the radius into [MinRadiusM, MaxRadiusM] (defaulting when
// unset) and truncates the audience text to MaxAudienceChars runes.
func (r *AnalysisRequest) Normalize() {
	if r.RadiusM == 0 {
		r.RadiusM = DefaultRadiusM
	}
	if r.RadiusM < MinRadiusM {
		r.RadiusM = MinRadiusM
	}
	if r.RadiusM > MaxRadiusM {
		r.RadiusM = MaxRadiusM
	}
	if runes := []rune(r.TargetAudience); len(runes) > MaxAudienceChars {
		r.TargetAudience = string(runes[:MaxAudienceChars])
	}
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
}

// HasCoordinates reports whether the caller supplied both lat and lon.
func (r *AnalysisRequest) HasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

// Indicators summarizes POI composition around the point.
type Indicators struct {
	CountsByGroup map[string]int64 `json:"countsByGroup"`
	DensityPerKm2 float64          `json:"densityPerKm2"`
	Diversity     float64          `json:"diversity"`
	Anchors       []string         `json:"anchors"`
}

// Total returns the sum of all group counts.
func (in Indicators) Total() int64 {
	var t int64
	for _, c := range in.CountsByGroup {
		t += c
	}
	return t
}

// Signal is one labeled local-signal bucket: a count plus up to three
// distinct example names.
type Signal struct {
	Count   int      `json:"count"`
	Samples []string `json:"samples"`
}

// Signals maps signal label to its collected bucket.
type Signals map[string]Signal

// Count returns the count for a label, zero when absent.
func (s Signals) Count(label string) int {
	return s[label].Count
}

// PopulationSnapshot carries resident-population shares around the point.
// A nil snapshot is a valid "no data" outcome.
type PopulationSnapshot struct {
	RegionName    string             `json:"regionName,omitempty"`
	Total         int64              `json:"total,omitempty"`
	AgeShares     map[string]float64 `json:"ageShares,omitempty"`
	DensityPerKm2 float64            `json:"densityPerKm2,omitempty"`
}

// AgeShare returns the share for one bucket key, zero when absent or when the
// snapshot itself is nil.
func (p *PopulationSnapshot) AgeShare(key string) float64 {
	if p == nil {
		return 0
	}
	return p.AgeShares[key]
}

// Share20s is the 20-29 share.
func (p *PopulationSnapshot) Share20s() float64 { return p.AgeShare("20_29") }

// Share30to59 sums the 30-39, 40-49 and 50-59 shares.
func (p *PopulationSnapshot) Share30to59() float64 {
	return p.AgeShare("30_39") + p.AgeShare("40_49") + p.AgeShare("50_59")
}

// Share60Plus sums the 60-69 and 70_plus shares.
func (p *PopulationSnapshot) Share60Plus() float64 {
	return p.AgeShare("60_69") + p.AgeShare("70_plus")
}

// Density returns the population density, zero for a nil snapshot.
func (p *PopulationSnapshot) Density() float64 {
	if p == nil {
		return 0
	}
	return p.DensityPerKm2
}

// AnalysisStatus is the terminal state of one analysis item. The engine always
// fills gaps heuristically, so StatusOK is the only value it emits.
type AnalysisStatus string

// StatusOK marks a completed analysis item.
const StatusOK AnalysisStatus = "ok"

// AnalysisItem is one requested analysis with its score and evidence metrics.
type AnalysisItem struct {
	Type    string         `json:"type"`
	Status  AnalysisStatus `json:"status"`
	Score   float64        `json:"score"`
	Summary string         `json:"summary"`
	Metrics map[string]any `json:"metrics"`
}

// Recommendation is one category suggestion from the allow-list.
type Recommendation struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

// SalesForecast is the monthly revenue outlook, floored at MinCurrencyFloor.
type SalesForecast struct {
	ExpectedMonthly  int64 `json:"expectedMonthly"`
	BreakEvenMonthly int64 `json:"breakEvenMonthly"`
}

// HotArea is a zone-labeled foot-traffic candidate.
type HotArea struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Report is the assembled response for one analysis request.
type Report struct {
	Lat             float64          `json:"lat"`
	Lon             float64          `json:"lon"`
	RadiusM         int              `json:"radius"`
	Recommendations []Recommendation `json:"recommendations"`
	Indicators      Indicators       `json:"indicators"`
	Analyses        []AnalysisItem   `json:"analyses"`
	RegionLabel     string           `json:"regionLabel"`
	Summary         string           `json:"summary"`
	SalesForecast   SalesForecast    `json:"salesForecast"`
	HotAreas        []HotArea        `json:"hotAreas"`
	Insights        []string         `json:"insights"`
}

// Clamp01 clamps x into [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
