// Package analysis orchestrates one site assessment: derive indicators and
// signals, ask the model for narrative JSON, then validate, repair and
// backfill every section heuristically.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/site-intel/internal/audience"
	"github.com/sells-group/site-intel/internal/category"
	"github.com/sells-group/site-intel/internal/econ"
	"github.com/sells-group/site-intel/internal/hotarea"
	"github.com/sells-group/site-intel/internal/indicator"
	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/signal"
	"github.com/sells-group/site-intel/pkg/anthropic"
	"github.com/sells-group/site-intel/pkg/bizregistry"
	"github.com/sells-group/site-intel/pkg/places"
	"github.com/sells-group/site-intel/pkg/population"
)

// ErrNoLocation is returned when the request has neither coordinates nor an
// address that geocodes.
var ErrNoLocation = eris.New("analysis: no usable location")

// Options tune the completion call and the registry scan.
type Options struct {
	Model            string
	MaxTokens        int64
	Timeout          time.Duration
	RegistryMaxPages int
}

// Engine runs the full assessment pipeline.
type Engine struct {
	places     places.Client
	registry   bizregistry.Client
	population population.Client
	llm        anthropic.Client

	indicators *indicator.Engine
	signals    *signal.Collector

	opts Options
}

// NewEngine wires the pipeline from its collaborator clients.
func NewEngine(p places.Client, r bizregistry.Client, pop population.Client, llm anthropic.Client, opts Options) *Engine {
	return &Engine{
		places:     p,
		registry:   r,
		population: pop,
		llm:        llm,
		indicators: indicator.NewEngine(p),
		signals:    signal.NewCollector(p),
		opts:       opts,
	}
}

// Analyze runs one assessment. POI, registry and population failures degrade
// to zero values; only an unresolvable location or a failed completion call
// fails the request.
func (e *Engine) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	req.Normalize()

	lat, lon, err := e.resolveLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		ind           model.Indicators
		signals       model.Signals
		region        *places.Region
		registryTotal int
		rawBuckets    map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ind = e.indicators.Compute(gctx, lat, lon, req.RadiusM)
		return nil
	})
	g.Go(func() error {
		signals = e.signals.Collect(gctx, lat, lon, req.RadiusM, req.TargetAudience)
		return nil
	})
	g.Go(func() error {
		r, err := e.places.RegionLabel(gctx, lat, lon)
		if err != nil {
			zap.L().Warn("analysis: region lookup failed", zap.Error(err))
			return nil
		}
		region = r
		return nil
	})
	g.Go(func() error {
		n, err := e.registry.TotalInRadius(gctx, lat, lon, req.RadiusM)
		if err != nil {
			zap.L().Warn("analysis: registry total failed", zap.Error(err))
			return nil
		}
		registryTotal = n
		return nil
	})
	g.Go(func() error {
		b, err := e.registry.BucketsInRadius(gctx, lat, lon, req.RadiusM, e.opts.RegistryMaxPages)
		if err != nil {
			zap.L().Warn("analysis: registry buckets failed", zap.Error(err))
			return nil
		}
		rawBuckets = b
		return nil
	})
	_ = g.Wait()

	regionLabel, adminCode := regionInfo(region, req.Address)
	pop := e.safeSnapshot(ctx, lat, lon, req.RadiusM, adminCode)

	mergedDensity := indicator.ComposeMergedDensity(ind.Total(), int64(registryTotal), req.RadiusM)
	uiBuckets := category.BucketsToCategories(rawBuckets)
	fit := audience.Score(req.TargetAudience, signals, pop)
	allowed := allowedCategories(req.InterestedCategories)
	hotPool := hotarea.Candidates(ind, signals)
	hotAreas := hotarea.Select(hotPool, regionLabel)

	ev := evidence{
		Indicators:      ind,
		Buckets:         uiBuckets,
		Signals:         signals,
		MergedDensity:   mergedDensity,
		Fit:             fit,
		PrimaryCategory: allowed[0],
		Population:      pop,
	}

	out, err := e.askModel(ctx, promptContext{
		Address:              req.Address,
		RegionLabel:          regionLabel,
		Lat:                  lat,
		Lon:                  lon,
		RadiusM:              req.RadiusM,
		AnalysisTypes:        orEmpty(req.AnalysisTypes),
		InterestedCategories: orEmpty(req.InterestedCategories),
		AllowedCategories:    allowed,
		BudgetBracket:        req.BudgetBracket,
		Experience:           req.Experience,
		TargetAudience:       req.TargetAudience,
		Indicators:           ind,
		External: externalContext{Registry: registryContext{
			TotalStores: registryTotal,
			RawBuckets:  rawBuckets,
			Buckets:     uiBuckets,
			AdminCode:   adminCode,
		}},
		Flags:         contextFlags{HasCampus: hasCampus(ind.Anchors)},
		LocalSignals:  signals,
		HotCandidates: hotPool,
		Meta:          contextMeta{MergedDensityPerKm2: mergedDensity},
		AudienceFit:   fit,
		Population:    pop,
	})
	if err != nil {
		return nil, err
	}

	recs := keepAllowedRecommendations(out.Recommendations, allowed)
	if len(recs) == 0 {
		recs = []model.Recommendation{fallbackRecommendation(ev, allowed)}
	}
	ev.Recommended = recs[0].Category

	analyses := completeRequested(
		keepRequestedAnalyses(out.Analyses, req.AnalysisTypes),
		req.AnalysisTypes, ev)

	forecast := model.SalesForecast{
		ExpectedMonthly:  out.SalesForecast.ExpectedMonthly,
		BreakEvenMonthly: out.SalesForecast.BreakEvenMonthly,
	}
	if forecast.ExpectedMonthly <= 0 || forecast.BreakEvenMonthly <= 0 {
		forecast = econ.EstimateSales(ev.PrimaryCategory, mergedDensity, fit.Score, uiBuckets, pop)
	}

	summary := sanitizeText(out.Summary)
	if summary == "" {
		summary = synthesizeSummary(regionLabel, recs, ev)
	}

	insights := keepInsights(out.Insights)
	if len(insights) == 0 || !anyArrow(insights) {
		insights = actionableInsights(ev, recs[0].Category)
	}

	return &model.Report{
		Lat:             lat,
		Lon:             lon,
		RadiusM:         req.RadiusM,
		Recommendations: recs,
		Indicators:      ind,
		Analyses:        analyses,
		RegionLabel:     regionLabel,
		Summary:         summary,
		SalesForecast:   forecast,
		HotAreas:        hotAreas,
		Insights:        insights,
	}, nil
}

func (e *Engine) resolveLocation(ctx context.Context, req *model.AnalysisRequest) (float64, float64, error) {
	if req.HasCoordinates() {
		return *req.Lat, *req.Lon, nil
	}
	if strings.TrimSpace(req.Address) == "" {
		return 0, 0, ErrNoLocation
	}
	g, err := e.places.Geocode(ctx, req.Address)
	if err != nil {
		if eris.Is(err, places.ErrNotFound) {
			return 0, 0, eris.Wrap(ErrNoLocation, "analysis: address did not geocode")
		}
		return 0, 0, eris.Wrap(err, "analysis: geocode")
	}
	return g.Lat, g.Lon, nil
}

// safeSnapshot fetches the population snapshot, trying the coordinate variant
// first and the administrative code as fallback. Any failure is a nil
// snapshot.
func (e *Engine) safeSnapshot(ctx context.Context, lat, lon float64, radiusM int, adminCode string) *model.PopulationSnapshot {
	snap, err := e.population.Snapshot(ctx, population.Query{Lat: lat, Lon: lon, RadiusM: radiusM})
	if err != nil {
		zap.L().Warn("analysis: population by coordinates failed", zap.Error(err))
		snap = nil
	}
	if snap == nil && adminCode != "" {
		snap, err = e.population.Snapshot(ctx, population.Query{AdminCode: adminCode})
		if err != nil {
			zap.L().Warn("analysis: population by admin code failed", zap.Error(err))
			snap = nil
		}
	}
	if snap == nil {
		return nil
	}
	return &model.PopulationSnapshot{
		RegionName:    snap.RegionName,
		Total:         snap.Total,
		AgeShares:     snap.AgeShares,
		DensityPerKm2: snap.DensityPerKm2,
	}
}

// askModel runs the completion with its own timeout. Call failures and output
// that stays unparseable after one repair pass are definite failures; callers
// retry the whole pipeline if they retry at all.
func (e *Engine) askModel(ctx context.Context, pc promptContext) (*modelOutput, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	temp := 0.2
	resp, err := e.llm.CreateMessage(callCtx, anthropic.MessageRequest{
		Model:       e.opts.Model,
		MaxTokens:   e.opts.MaxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: userPrompt(pc)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "analysis: completion call")
	}
	resp.Usage.LogCost(e.opts.Model, "analyze")

	return parseModelOutput(resp.Text())
}

func regionInfo(region *places.Region, address string) (label, adminCode string) {
	if region != nil {
		return region.Label, region.AdminCode
	}
	return address, ""
}

// allowedCategories resolves the interested list against the allow-list,
// excluding the catch-all. An empty or fully invalid list falls back to every
// recommendable category, so the result is never empty.
func allowedCategories(interested []string) []string {
	out := make([]string, 0, len(interested))
	seen := make(map[string]struct{}, len(interested))
	for _, s := range interested {
		c := category.Resolve(s)
		if c == category.Other || !category.IsAllowed(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return category.AllowedTargets()
	}
	return out
}

func keepAllowedRecommendations(recs []modelRecommendation, allowed []string) []model.Recommendation {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}

	out := make([]model.Recommendation, 0, len(recs))
	for _, r := range recs {
		cat := category.Resolve(r.Category)
		if _, ok := allowedSet[cat]; !ok {
			continue
		}
		out = append(out, model.Recommendation{
			Category: cat,
			Score:    model.Clamp01(r.Score),
			Reason:   sanitizeText(r.Reason),
		})
	}
	return out
}

func keepRequestedAnalyses(analyses []modelAnalysis, requested []string) []model.AnalysisItem {
	reqSet := make(map[string]struct{}, len(requested))
	for _, t := range requested {
		reqSet[t] = struct{}{}
	}

	out := make([]model.AnalysisItem, 0, len(analyses))
	for _, a := range analyses {
		if _, ok := reqSet[a.Type]; !ok {
			continue
		}
		metrics := a.Metrics
		if metrics == nil {
			metrics = map[string]any{}
		}
		out = append(out, model.AnalysisItem{
			Type:    a.Type,
			Status:  model.StatusOK,
			Score:   model.Clamp01(a.Score),
			Summary: sanitizeText(a.Summary),
			Metrics: metrics,
		})
	}
	return out
}

func keepInsights(insights []string) []string {
	out := make([]string, 0, len(insights))
	for _, s := range insights {
		if t := sanitizeText(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var campusAnchors = []string{"university", "college", "campus"}

func hasCampus(anchors []string) bool {
	for _, a := range anchors {
		low := strings.ToLower(a)
		for _, m := range campusAnchors {
			if strings.Contains(low, m) {
				return true
			}
		}
	}
	return false
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
