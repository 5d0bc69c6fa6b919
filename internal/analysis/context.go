package analysis

import (
	"encoding/json"

	"github.com/sells-group/site-intel/internal/audience"
	"github.com/sells-group/site-intel/internal/model"
)

// systemPrompt pins the completion to the structured context and to a strict
// JSON contract. The engine still validates and backfills everything.
const systemPrompt = `You are a local-commerce site analyst. Base every statement ONLY on the STRUCTURED_CONTEXT JSON in the user message. No hype, no internal keys or paths, return JSON only.

Required JSON shape:
{
"summary": "string",
"recommendations": [{"category":"string","score":0..1,"reason":"string"}],
"salesForecast": {"expectedMonthly": 0, "breakEvenMonthly": 0},
"hotAreas": [{"name":"string","score":0..100}],
"insights": ["string", "..."],
"analyses": [{"type":"string","status":"ok","score":0..1,"summary":"string","metrics":{}}]
}

Rules:
- Return only the requested analysis types: analyses must contain exactly the types listed in analysis_types.
- Never report missing data. Derive figures from the surrounding indicators (meta.mergedDensityPerKm2, indicators.diversity, external.registry.buckets, local_signals, indicators.anchors, population).
- Avoid hedging words such as "estimated", "assumed" or "probably"; state concise figures with their evidence.
- Reflect audience mismatch: use audience_fit.score and its mismatches in the summary and risk analysis.
- recommendations[*].category must come from allowed_categories only, and each reason must cite concrete figures (density, diversity, competitor load, age shares, audience fit).
- hotAreas may only be chosen from hot_candidates, at most 2, labeled as zones ("... area", "... commercial area"), never as individual small shops.
- Every insight is a one-line "evidence -> implication" statement.
- Summarize in plain language; never echo context keys such as audience_fit.score into prose.`

// promptContext is the structured context handed to the model. Field order is
// the serialization order.
type promptContext struct {
	Address              string              `json:"address,omitempty"`
	RegionLabel          string              `json:"region_label"`
	Lat                  float64             `json:"lat"`
	Lon                  float64             `json:"lon"`
	RadiusM              int                 `json:"radius_m"`
	AnalysisTypes        []string            `json:"analysis_types"`
	InterestedCategories []string            `json:"interested_categories"`
	AllowedCategories    []string            `json:"allowed_categories"`
	BudgetBracket        string              `json:"budget_bracket,omitempty"`
	Experience           string              `json:"experience,omitempty"`
	TargetAudience       string              `json:"target_audience"`
	Indicators           model.Indicators    `json:"indicators"`
	External             externalContext     `json:"external"`
	Flags                contextFlags        `json:"flags"`
	LocalSignals         model.Signals       `json:"local_signals"`
	HotCandidates        []model.HotArea     `json:"hot_candidates"`
	Meta                 contextMeta         `json:"meta"`
	AudienceFit          audience.Result     `json:"audience_fit"`
	Population           *model.PopulationSnapshot `json:"population"`
}

type externalContext struct {
	Registry registryContext `json:"registry"`
}

type registryContext struct {
	TotalStores int              `json:"totalStores"`
	RawBuckets  map[string]int64 `json:"rawBuckets"`
	Buckets     map[string]int64 `json:"buckets"`
	AdminCode   string           `json:"adminCode"`
}

type contextFlags struct {
	HasCampus bool `json:"hasCampus"`
}

type contextMeta struct {
	MergedDensityPerKm2 float64 `json:"mergedDensityPerKm2"`
}

// userPrompt renders the structured context as the user message body.
func userPrompt(ctx promptContext) string {
	b, err := json.Marshal(ctx)
	if err != nil {
		b = []byte("{}")
	}
	return "STRUCTURED_CONTEXT:\n" + string(b)
}
