// Package environment resolves variable-resolution candidate names against
// one or more sources of environment variables.
package environment

import "context"

// Provider looks up a single environment variable by name.
type Provider interface {
	// Get returns (value, true) if name is set (value may be empty), or
	// ("", false) if it isn't.
	Get(ctx context.Context, name string) (string, bool)
}

// MultiProvider tries each Provider in order, returning the first hit.
type MultiProvider struct {
	providers []Provider
}

func NewMultiProvider(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

func (p *MultiProvider) Get(ctx context.Context, name string) (string, bool) {
	for _, provider := range p.providers {
		if value, found := provider.Get(ctx, name); found {
			return value, true
		}
	}
	return "", false
}
