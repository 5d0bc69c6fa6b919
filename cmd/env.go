package main

import (
	"net/http"
	"time"

	"github.com/sells-group/site-intel/internal/analysis"
	"github.com/sells-group/site-intel/internal/config"
	"github.com/sells-group/site-intel/pkg/anthropic"
	"github.com/sells-group/site-intel/pkg/bizregistry"
	"github.com/sells-group/site-intel/pkg/places"
	"github.com/sells-group/site-intel/pkg/population"
)

// newEngine wires the analysis pipeline from configuration.
func newEngine(cfg *config.Config) *analysis.Engine {
	placesClient := places.NewClient(cfg.Places.Key, cfg.Places.BaseURL,
		places.WithRateLimit(cfg.Places.RatePerSecond),
		places.WithHTTPClient(httpClient(cfg.Places.TimeoutSecs)),
	)
	registryClient := bizregistry.NewClient(cfg.Registry.Key, cfg.Registry.BaseURL,
		bizregistry.WithHTTPClient(httpClient(cfg.Registry.TimeoutSecs)),
	)
	populationClient := population.NewClient(cfg.Population.Key, cfg.Population.BaseURL,
		population.WithHTTPClient(httpClient(cfg.Population.TimeoutSecs)),
	)
	llm := anthropic.NewClient(cfg.Anthropic.Key)

	return analysis.NewEngine(placesClient, registryClient, populationClient, llm, analysis.Options{
		Model:            cfg.Anthropic.Model,
		MaxTokens:        cfg.Anthropic.MaxTokens,
		Timeout:          cfg.Anthropic.Timeout(),
		RegistryMaxPages: cfg.Registry.MaxPages,
	})
}

func httpClient(timeoutSecs int) *http.Client {
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}
	return &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second}
}
