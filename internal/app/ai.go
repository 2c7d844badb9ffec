package app

import (
	"context"

	"github.com/lasantosr/intelli-shell/pkg/ai"
	"github.com/lasantosr/intelli-shell/pkg/ai/anthropic"
	"github.com/lasantosr/intelli-shell/pkg/ai/gemini"
	"github.com/lasantosr/intelli-shell/pkg/ai/ollama"
	"github.com/lasantosr/intelli-shell/pkg/ai/openai"
	"github.com/lasantosr/intelli-shell/pkg/config"
	"github.com/lasantosr/intelli-shell/pkg/environment"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// Providers holds one ai.Provider per AI-backed feature, each an
// Orchestrator falling back per config.AIModelsConfig.Fallback. Any of them
// is nil when ai.enabled is false in config.
type Providers struct {
	Suggest    ai.Provider
	Fix        ai.Provider
	Import     ai.Provider
	Completion ai.Provider
}

// buildFactory adapts the four concrete adapter constructors to ai.Factory.
// gemini.New needs a context (captured here); ollama.New never fails.
func buildFactory(ctx context.Context) ai.Factory {
	return func(cfg ai.Config) (ai.Provider, error) {
		switch cfg.Name {
		case "anthropic":
			return anthropic.New(cfg.APIKey, cfg.Model, cfg.BaseURL)
		case "openai":
			return openai.New(cfg.APIKey, cfg.Model, cfg.BaseURL)
		case "gemini":
			return gemini.New(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		case "ollama":
			return ollama.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
		default:
			return nil, ierrors.ConfigParseFailedErr{Msg: "unknown ai provider: " + cfg.Name}
		}
	}
}

// memoizedFactory wraps build so the same catalog entry doesn't construct a
// second client when several features share a model (the common case: the
// default catalog names one "main" entry for all four features).
func memoizedFactory(build ai.Factory) ai.Factory {
	cache := make(map[ai.Config]ai.Provider)
	return func(cfg ai.Config) (ai.Provider, error) {
		if p, ok := cache[cfg]; ok {
			return p, nil
		}
		p, err := build(cfg)
		if err != nil {
			return nil, err
		}
		cache[cfg] = p
		return p, nil
	}
}

// buildCatalog resolves every catalog entry's API key against env, turning
// config.AIModelCatalogEntry into pkg/ai.Config.
func buildCatalog(ctx context.Context, env environment.Provider, entries map[string]config.AIModelCatalogEntry) map[string]ai.Config {
	catalog := make(map[string]ai.Config, len(entries))
	for name, e := range entries {
		apiKey, _ := env.Get(ctx, e.APIKeyEnv)
		catalog[name] = ai.Config{Name: e.Provider, Model: e.Model, APIKey: apiKey, BaseURL: e.URL}
	}
	return catalog
}

// buildProviders constructs one Orchestrator per AI-backed feature from
// cfg.Models, or a zero Providers if AI is disabled.
func buildProviders(ctx context.Context, env environment.Provider, cfg config.AIConfig) (Providers, error) {
	if !cfg.Enabled {
		return Providers{}, nil
	}

	catalog := buildCatalog(ctx, env, cfg.Catalog)
	build := memoizedFactory(buildFactory(ctx))

	suggest, err := ai.NewOrchestrator(catalog, build, cfg.Models.Suggest, cfg.Models.Fallback)
	if err != nil {
		return Providers{}, err
	}
	fix, err := ai.NewOrchestrator(catalog, build, cfg.Models.Fix, cfg.Models.Fallback)
	if err != nil {
		return Providers{}, err
	}
	imp, err := ai.NewOrchestrator(catalog, build, cfg.Models.Import, cfg.Models.Fallback)
	if err != nil {
		return Providers{}, err
	}
	completion, err := ai.NewOrchestrator(catalog, build, cfg.Models.Completion, cfg.Models.Fallback)
	if err != nil {
		return Providers{}, err
	}

	return Providers{Suggest: suggest, Fix: fix, Import: imp, Completion: completion}, nil
}
