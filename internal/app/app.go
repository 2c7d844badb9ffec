// Package app is the composition root: it loads configuration, opens the
// store, and wires every pkg/* component together into the set of
// dependencies internal/cli's commands need. cmd/root/root.go performs the
// equivalent wiring inline in PersistentPreRunE; here it's split into an
// explicit, testable function so each cobra command doesn't have to repeat
// the setup.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lasantosr/intelli-shell/pkg/config"
	"github.com/lasantosr/intelli-shell/pkg/environment"
	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/logging"
	"github.com/lasantosr/intelli-shell/pkg/service"
	"github.com/lasantosr/intelli-shell/pkg/storage"
	"github.com/lasantosr/intelli-shell/pkg/template"
	"github.com/lasantosr/intelli-shell/pkg/version"

	"github.com/lasantosr/intelli-shell/internal/buildinfo"
)

// DatabaseFileName is the store's file under data_dir: "${data_dir}/intelli-shell.db*".
const DatabaseFileName = "intelli-shell.db"

// App bundles every dependency a CLI command needs. It owns the store and
// the log file handle; Close releases both.
type App struct {
	Config  config.Config
	Env     environment.Provider
	Store   *storage.Store
	Service *service.Service
	Version *version.Checker
	AI      Providers
	Prompts service.AIPrompts

	logCloser io.Closer
}

// Build loads config.toml from configPath (using DefaultDataDir as the
// fallback data_dir), opens the store, and constructs every dependency.
// Callers must call Close when done.
func Build(ctx context.Context, configPath string) (*App, error) {
	env := environment.NewOsEnvProvider()

	cfg, err := config.LoadFile(ctx, configPath, DefaultDataDir())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, ierrors.Wrap(fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err))
	}

	logCloser, err := logging.Configure(cfg.DataDir, cfg.Logs.Enabled, logging.EffectiveFilter(ctx, env, cfg.Logs.Filter))
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, filepath.Join(cfg.DataDir, DatabaseFileName))
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	svc := service.New(store, env, template.FlattenStr).WithTuning(cfg.Tuning.Commands, cfg.Tuning.Variables)

	providers, err := buildProviders(ctx, env, cfg.AI)
	if err != nil {
		_ = store.Close()
		_ = logCloser.Close()
		return nil, err
	}

	prompts := service.AIPrompts{
		Suggest:    cfg.AI.Prompts.Suggest,
		Fix:        cfg.AI.Prompts.Fix,
		Import:     cfg.AI.Prompts.Import,
		Completion: cfg.AI.Prompts.Completion,
	}.WithDefaults()

	checker := version.NewChecker(store, nil, buildinfo.Version)

	return &App{
		Config:    cfg,
		Env:       env,
		Store:     store,
		Service:   svc,
		Version:   checker,
		AI:        providers,
		Prompts:   prompts,
		logCloser: logCloser,
	}, nil
}

// Close releases the store and log file handle, in that order.
func (a *App) Close() error {
	storeErr := a.Store.Close()
	logErr := a.logCloser.Close()
	if storeErr != nil {
		return storeErr
	}
	return logErr
}
