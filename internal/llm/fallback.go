package llm

import (
	"context"
	"strings"
	"time"

	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/metrics"
)

const (
	DefaultPrimaryBudget   = 2000
	DefaultSecondaryBudget = 1800

	labelPrimary  = "Primary"
	labelFallback = "Fallback"

	logExcerpt = 200
)

// FallbackGenerator calls the primary model and reroutes to the secondary
// one when ShouldFallback accepts the primary failure.
type FallbackGenerator struct {
	primary         Provider
	secondary       Provider
	primaryBudget   int
	secondaryBudget int
	logger          logger.Logger
}

type Option func(*FallbackGenerator)

// WithBudgets sets the token budgets; non-positive values keep the defaults.
func WithBudgets(primary, secondary int) Option {
	return func(g *FallbackGenerator) {
		if primary > 0 {
			g.primaryBudget = primary
		}
		if secondary > 0 {
			g.secondaryBudget = secondary
		}
	}
}

// NewFallbackGenerator builds the generator. Either provider may be nil.
func NewFallbackGenerator(primary, secondary Provider, log logger.Logger, opts ...Option) *FallbackGenerator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	g := &FallbackGenerator{
		primary:         primary,
		secondary:       secondary,
		primaryBudget:   DefaultPrimaryBudget,
		secondaryBudget: DefaultSecondaryBudget,
		logger:          log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *FallbackGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if req.SkipPrimary || g.primary == nil {
		if g.secondary == nil {
			if req.SkipPrimary {
				return "", errors.NewProviderNotConfiguredError(labelFallback)
			}
			return "", errors.NewProviderNotConfiguredError(labelPrimary)
		}
		return g.call(ctx, g.secondary, labelFallback, budget(req, g.secondaryBudget), req)
	}

	text, err := g.call(ctx, g.primary, labelPrimary, budget(req, g.primaryBudget), req)
	if err == nil {
		return text, nil
	}

	if g.secondary == nil || !ShouldFallback(err) {
		g.logger.Error("generation failed", map[string]interface{}{
			"provider": g.primary.Name(),
			"error":    err.Error(),
		})
		return "", err
	}

	g.logger.Warn("primary model unavailable, attempting fallback model", map[string]interface{}{
		"from":  g.primary.Name(),
		"to":    g.secondary.Name(),
		"error": err.Error(),
	})
	metrics.ProviderFallbacks.WithLabelValues(g.primary.Name(), g.secondary.Name()).Inc()

	text, fallbackErr := g.call(ctx, g.secondary, labelFallback, budget(req, g.secondaryBudget), req)
	if fallbackErr != nil {
		g.logger.Error("fallback model also failed", map[string]interface{}{
			"provider": g.secondary.Name(),
			"error":    fallbackErr.Error(),
		})
		return "", fallbackErr
	}
	return text, nil
}

func (g *FallbackGenerator) call(ctx context.Context, p Provider, label string, maxTokens int, req Request) (string, error) {
	start := time.Now()
	text, err := p.Complete(ctx, req.System, req.Prompt, maxTokens)
	metrics.GenerationDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.NewEmptyResponseError(label, nil)
	}
	if err != nil {
		// Keep the provider error reachable so ShouldFallback can inspect it.
		stdErr := classify(p.Name(), err)
		metrics.GenerationFailures.WithLabelValues(p.Name(), string(stdErr.Code)).Inc()
		return "", stdErr
	}

	g.logger.Debug("model response", map[string]interface{}{
		"label":    label,
		"provider": p.Name(),
		"excerpt":  excerpt(text, logExcerpt),
	})
	return text, nil
}

func budget(req Request, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return fallback
}

// excerpt cuts s to at most n bytes without splitting a rune.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
