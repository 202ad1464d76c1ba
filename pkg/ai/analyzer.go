package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
)

// Analyzer fans a prompt across the configured providers in priority order.
// The first provider is rate limited (its quota is the scarce resource the
// limiter protects); fallbacks run on their own quotas. AnalyzeContent never
// returns an error: when every provider fails the caller gets a fixed
// human-readable unavailability string, which downstream code must treat as a
// valid-but-degraded result.
type Analyzer struct {
	providers  []Provider
	limiter    *Limiter
	logger     *log.Logger
	nicheBrief string
}

// NewAnalyzer creates an analyzer over the given providers, tried in order.
// delay spaces out calls to the first provider.
func NewAnalyzer(delay time.Duration, logger *log.Logger, providers ...Provider) *Analyzer {
	return &Analyzer{
		providers: providers,
		limiter:   NewLimiter(delay),
		logger:    logger,
	}
}

// Unavailable returns the canonical degraded-result string for the given
// analysis type. Callers compare against it or display it, never parse it.
func Unavailable(analysisType string) string {
	return fmt.Sprintf("Unable to generate %s - AI services unavailable.", analysisType)
}

// AnalyzeContent sends the prompt to the providers in order and returns the
// first successful completion. The rate limiter is applied immediately before
// each primary-provider call and nowhere else.
func (a *Analyzer) AnalyzeContent(ctx context.Context, prompt, analysisType string) string {
	for i, p := range a.providers {
		if i == 0 {
			if err := a.limiter.Wait(ctx); err != nil {
				a.logger.Printf("Rate limiter interrupted for %s: %v", analysisType, err)
				return Unavailable(analysisType)
			}
		}

		text, err := p.Complete(ctx, systemPrompt, prompt, defaultTemperature, defaultMaxTokens)
		if err != nil {
			a.logger.Printf("%s failed for %s: %v", p.Name(), analysisType, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			a.logger.Printf("%s returned empty response for %s", p.Name(), analysisType)
			continue
		}
		a.logger.Printf("Generated %s using %s", analysisType, p.Name())
		return text
	}
	return Unavailable(analysisType)
}

// TestConnection probes every provider with a trivial prompt and reports
// per-provider reachability.
func (a *Analyzer) TestConnection(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(a.providers))
	for _, p := range a.providers {
		text, err := p.Complete(ctx, systemPrompt,
			"Say 'test successful' if you can see this message.", 0, 32)
		results[p.Name()] = err == nil && strings.Contains(strings.ToLower(text), "test successful")
	}
	return results
}
