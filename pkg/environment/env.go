package environment

import (
	"context"
	"os"
	"strings"
)

// OsEnvProvider reads from the process's own environment.
type OsEnvProvider struct{}

func NewOsEnvProvider() *OsEnvProvider { return &OsEnvProvider{} }

func (p *OsEnvProvider) Get(_ context.Context, name string) (string, bool) {
	return os.LookupEnv(name)
}

// EnvListProvider reads from an in-memory "KEY=VALUE" list, as returned by
// os.Environ or captured from a shell invocation.
type EnvListProvider struct {
	env []string
}

func NewEnvListProvider(env []string) *EnvListProvider {
	return &EnvListProvider{env: env}
}

func (p *EnvListProvider) Get(_ context.Context, name string) (string, bool) {
	for _, e := range p.env {
		n, v, ok := strings.Cut(e, "=")
		if ok && n == name {
			return v, true
		}
	}
	return "", false
}
