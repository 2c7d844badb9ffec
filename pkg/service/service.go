package service

import (
	"github.com/lasantosr/intelli-shell/pkg/environment"
	"github.com/lasantosr/intelli-shell/pkg/importexport/source"
	"github.com/lasantosr/intelli-shell/pkg/storage"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// Service composes the store, environment lookups and flattening function
// into the operations the CLI surface drives.
type Service struct {
	store          *storage.Store
	env            environment.Provider
	flatten        func(string) string
	commandTuning  tuning.CommandTuning
	variableTuning tuning.VariableTuning
	httpClient     source.HTTPClient
}

// New builds a Service. flatten normalizes text for FTS indexing and
// comparison (pkg/template.FlattenStr in production, a stub in tests).
func New(store *storage.Store, env environment.Provider, flatten func(string) string) *Service {
	ct, vt := tuning.Default()
	return &Service{
		store:          store,
		env:            env,
		flatten:        flatten,
		commandTuning:  ct,
		variableTuning: vt,
		httpClient:     source.DefaultHTTPClient(),
	}
}

// WithHTTPClient overrides the client used for HTTP-based import/export,
// e.g. to inject a fake in tests.
func (s *Service) WithHTTPClient(client source.HTTPClient) *Service {
	s.httpClient = client
	return s
}

// WithTuning overrides the default scoring weights, e.g. from a loaded
// config file's `[tuning]` table.
func (s *Service) WithTuning(ct tuning.CommandTuning, vt tuning.VariableTuning) *Service {
	s.commandTuning = ct
	s.variableTuning = vt
	return s
}
