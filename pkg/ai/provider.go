// Package ai models AI-assisted command generation behind a single
// Provider interface. Providers are request/response adapters, with an
// orchestrator that falls back to a secondary model on rate-limit or
// unavailability (one retry, same prompts).
package ai

import (
	"context"
	"errors"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// Provider is the opaque generator every AI-backed operation talks to:
// fix diagnosis, command/description generation, completion providers.
type Provider interface {
	// Generate sends systemPrompt and userPrompt to the model and returns its
	// text response. Implementations translate SDK/HTTP errors into the
	// Ai* UserFacing kinds (pkg/ierrors) so callers never see raw SDK types.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config selects and authenticates a single provider.
type Config struct {
	Name    string // "anthropic", "openai", "gemini", or "ollama"
	Model   string
	APIKey  string
	BaseURL string // optional endpoint override; empty uses each provider's default
}

// Factory builds the concrete Provider for cfg.Name. Kept as a function value
// (rather than importing every adapter package from here) so this package
// stays free of a direct dependency on the SDKs; internal/app wires the
// factory to pkg/ai/anthropic, pkg/ai/openai, pkg/ai/gemini and
// pkg/ai/ollama's constructors.
type Factory func(cfg Config) (Provider, error)

// Orchestrator picks a primary provider and an optional named fallback,
// retrying once on the fallback when the primary reports rate-limiting or
// unavailability.
type Orchestrator struct {
	Primary  Provider
	Fallback Provider
}

// NewOrchestrator resolves primary and (optionally) fallback model names
// against catalog using build, failing with AiRequired if primary is empty.
func NewOrchestrator(catalog map[string]Config, build Factory, primaryName, fallbackName string) (*Orchestrator, error) {
	if primaryName == "" {
		return nil, ierrors.AiRequired
	}
	primaryCfg, ok := catalog[primaryName]
	if !ok {
		return nil, ierrors.AiRequired
	}
	primary, err := build(primaryCfg)
	if err != nil {
		return nil, err
	}

	var fallback Provider
	if fallbackName != "" {
		fallbackCfg, ok := catalog[fallbackName]
		if !ok {
			return nil, ierrors.AiRequired
		}
		fallback, err = build(fallbackCfg)
		if err != nil {
			return nil, err
		}
	}

	return &Orchestrator{Primary: primary, Fallback: fallback}, nil
}

// Generate calls the primary provider, retrying once against the fallback
// (with the same prompts) when the primary fails with AiRateLimit or
// AiUnavailable. Any other error, or a failure from the fallback itself, is
// returned as-is.
func (o *Orchestrator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := o.Primary.Generate(ctx, systemPrompt, userPrompt)
	if err == nil {
		return out, nil
	}
	if o.Fallback == nil || !shouldFallback(err) {
		return "", err
	}
	return o.Fallback.Generate(ctx, systemPrompt, userPrompt)
}

func shouldFallback(err error) bool {
	return errors.Is(err, ierrors.AiRateLimit) || errors.Is(err, ierrors.AiUnavailable)
}
