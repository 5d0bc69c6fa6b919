// Package audience scores how well the stated target audience matches what the
// local environment actually supports, as cosine similarity between a target
// vector and an environment vector over fixed audience dimensions.
package audience

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
)

// Audience dimensions, in report order.
const (
	DimStudent  = "student"
	DimFamily   = "family"
	DimSenior   = "senior"
	DimWorker   = "worker"
	DimCommuter = "commuter"
	DimTourist  = "tourist"
	DimKids     = "kids"
	DimNight    = "night"
	DimFitness  = "fitness"
)

// Dimensions is the ordered dimension list.
var Dimensions = []string{
	DimStudent, DimFamily, DimSenior, DimWorker, DimCommuter,
	DimTourist, DimKids, DimNight, DimFitness,
}

// targetMarkers maps free-text audience markers to the dimension they assert.
var targetMarkers = map[string][]string{
	DimStudent:  {"student", "college", "university", "20s"},
	DimFamily:   {"family", "families", "parent", "household"},
	DimSenior:   {"senior", "elder", "retire"},
	DimWorker:   {"office", "worker", "work", "professional"},
	DimCommuter: {"commut"},
	DimTourist:  {"tourist", "travel", "visitor"},
	DimKids:     {"kid", "child", "toddler"},
	DimNight:    {"night", "late"},
	DimFitness:  {"fitness", "gym", "health", "active"},
}

// envRule derives one environment dimension from signal counts: the listed
// labels are summed and divided by the divisor, then clamped to [0,1].
type envRule struct {
	labels  []string
	divisor float64
}

var envRules = map[string]envRule{
	DimStudent:  {[]string{signal.LabelUniversity, signal.LabelStudentHousing}, 6},
	DimFamily:   {[]string{signal.LabelResidential, signal.LabelMedical, signal.LabelSchool, signal.LabelPark}, 12},
	DimSenior:   {[]string{signal.LabelSeniorCenter, signal.LabelMedical}, 8},
	DimWorker:   {[]string{signal.LabelWorkplace, signal.LabelGov}, 8},
	DimCommuter: {[]string{signal.LabelTransportHub, signal.LabelStation, signal.LabelParking}, 8},
	DimTourist:  {[]string{signal.LabelLodging, signal.LabelTouristSpot}, 6},
	DimKids:     {[]string{signal.LabelKids, signal.LabelSchool}, 8},
	DimNight:    {[]string{signal.LabelLodging, signal.LabelTransportHub, signal.LabelWorkplace, signal.LabelConvenience}, 10},
	DimFitness:  {[]string{signal.LabelFitness, signal.LabelPark}, 8},
}

// Result carries the fit score with both vectors and any mismatch findings.
type Result struct {
	Score      float64            `json:"score"`
	Target     map[string]float64 `json:"target"`
	Env        map[string]float64 `json:"env"`
	Mismatches []string           `json:"mismatches,omitempty"`
}

// TopEnvDimension returns the environment dimension with the highest value,
// empty when the whole vector is zero. Ties break by dimension order.
func (r Result) TopEnvDimension() string {
	best, bestV := "", 0.0
	for _, dim := range Dimensions {
		if v := r.Env[dim]; v > bestV {
			best, bestV = dim, v
		}
	}
	return best
}

// Score builds the target vector from the audience text, the environment
// vector from signals plus population shares, and returns their cosine
// similarity along with mismatch evidence.
func Score(targetAudience string, signals model.Signals, pop *model.PopulationSnapshot) Result {
	target := targetVector(targetAudience)
	env := envVector(signals, pop)

	return Result{
		Score:      cosine(target, env),
		Target:     target,
		Env:        env,
		Mismatches: mismatches(target, env, signals),
	}
}

func targetVector(targetAudience string) map[string]float64 {
	audience := strings.ToLower(targetAudience)
	tv := make(map[string]float64, len(Dimensions))
	for _, dim := range Dimensions {
		for _, m := range targetMarkers[dim] {
			if strings.Contains(audience, m) {
				tv[dim] = 1
				break
			}
		}
	}
	return tv
}

func envVector(signals model.Signals, pop *model.PopulationSnapshot) map[string]float64 {
	ev := make(map[string]float64, len(Dimensions))
	for dim, rule := range envRules {
		var sum float64
		for _, label := range rule.labels {
			sum += float64(signals.Count(label))
		}
		ev[dim] = model.Clamp01(sum / rule.divisor)
	}

	// Resident demographics reinforce the residential-leaning dimensions.
	ev[DimStudent] = model.Clamp01(ev[DimStudent] + 0.7*pop.Share20s())
	ev[DimFamily] = model.Clamp01(ev[DimFamily] + 0.9*pop.Share30to59())
	ev[DimSenior] = model.Clamp01(ev[DimSenior] + 1.0*pop.Share60Plus())

	return ev
}

// cosine returns the similarity of the two vectors over Dimensions. Two zero
// vectors are a neutral 0.5; exactly one zero vector is a hard 0.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for _, dim := range Dimensions {
		dot += a[dim] * b[dim]
		na += a[dim] * a[dim]
		nb += b[dim] * b[dim]
	}
	if na == 0 && nb == 0 {
		return 0.5
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return model.Clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// mismatches reports each dimension the target emphasizes but the environment
// barely supports, with the non-zero signal counts as evidence.
func mismatches(target, env map[string]float64, signals model.Signals) []string {
	var out []string
	for _, dim := range Dimensions {
		if target[dim] < 0.7 || env[dim] >= 0.2 {
			continue
		}
		out = append(out, fmt.Sprintf(
			"target emphasizes %s but the area shows weak support (%s)",
			dim, evidenceFor(dim, signals),
		))
	}
	return out
}

func evidenceFor(dim string, signals model.Signals) string {
	rule := envRules[dim]
	parts := make([]string, 0, len(rule.labels))
	for _, label := range rule.labels {
		if n := signals.Count(label); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", label, n))
		}
	}
	if len(parts) == 0 {
		return "no supporting places found"
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
