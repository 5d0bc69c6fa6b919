package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// modelOutput mirrors the JSON contract the completion must return. Every
// field is optional; gaps are backfilled heuristically downstream.
type modelOutput struct {
	Summary         string                `json:"summary"`
	Recommendations []modelRecommendation `json:"recommendations"`
	SalesForecast   modelForecast         `json:"salesForecast"`
	HotAreas        []modelHotArea        `json:"hotAreas"`
	Insights        []string              `json:"insights"`
	Analyses        []modelAnalysis       `json:"analyses"`
}

type modelRecommendation struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

type modelForecast struct {
	ExpectedMonthly  int64 `json:"expectedMonthly"`
	BreakEvenMonthly int64 `json:"breakEvenMonthly"`
}

type modelHotArea struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type modelAnalysis struct {
	Type    string         `json:"type"`
	Score   float64        `json:"score"`
	Summary string         `json:"summary"`
	Metrics map[string]any `json:"metrics"`
}

// parseModelOutput decodes the completion text, with one repair attempt via
// ExtractJSONBlock when the raw text is not directly valid JSON.
func parseModelOutput(raw string) (*modelOutput, error) {
	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return &out, nil
	}
	repaired := ExtractJSONBlock(raw)
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil, eris.Wrap(err, "analysis: parse model output")
	}
	return &out, nil
}

// ExtractJSONBlock strips code fences and surrounding prose, returning the
// first balanced JSON object or array in s. With no opener it returns the
// trimmed input; with an unclosed opener it returns everything from the
// opener on.
func ExtractJSONBlock(s string) string {
	s = strings.ReplaceAll(s, "```json", "```")
	s = strings.ReplaceAll(s, "```JSON", "```")
	if a := strings.Index(s, "```"); a >= 0 {
		if b := strings.Index(s[a+3:], "```"); b >= 0 {
			s = strings.TrimSpace(s[a+3 : a+3+b])
		}
	}

	i := strings.IndexByte(s, '{')
	j := strings.IndexByte(s, '[')
	start := j
	if i >= 0 && (j < 0 || i < j) {
		start = i
	}
	if start < 0 {
		return strings.TrimSpace(s)
	}

	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	level := 0
	for k := start; k < len(s); k++ {
		switch s[k] {
		case open:
			level++
		case closer:
			level--
			if level == 0 {
				return strings.TrimSpace(s[start : k+1])
			}
		}
	}
	return strings.TrimSpace(s[start:])
}

var (
	keyPathRe    = regexp.MustCompile(`\b(sbiz|audience_fit|hot_candidates|local_signals|meta)\.[a-zA-Z0-9_.:-]+`)
	parenKeyRe   = regexp.MustCompile(`\([a-zA-Z0-9_.:-]+\)`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// sanitizeText scrubs internal context keys and paths the model sometimes
// echoes back into prose.
func sanitizeText(s string) string {
	t := keyPathRe.ReplaceAllString(s, "")
	t = parenKeyRe.ReplaceAllString(t, "")
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(t, " "))
}
