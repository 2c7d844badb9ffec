package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/environment"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/storage"
	"github.com/lasantosr/intelli-shell/pkg/template"
)

func newTestService(t *testing.T, env environment.Provider) *Service {
	t.Helper()
	store, err := storage.OpenInMemory(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	flatten := func(s string) string { return s }
	return New(store, env, flatten)
}

func TestResolveVariableAssemblyOrder(t *testing.T) {
	env := environment.NewEnvListProvider([]string{"IMAGE=alpine:3"})
	svc := newTestService(t, env)
	ctx := context.Background()

	// Seed one stored value with usage so it shows up as Existing.
	v, err := svc.store.InsertVariableValue(ctx, model.VariableValue{
		FlatRootCmd: "docker", FlatVariable: "image", Value: "ubuntu:latest",
	})
	require.NoError(t, err)
	require.NoError(t, svc.store.RecordVariableValueUsage(ctx, v.ID, "/work", model.Context{}))

	tmpl := template.Parse("docker run {{image}}", false)
	items, err := svc.ResolveVariable(ctx, tmpl, "docker", "/work")
	require.NoError(t, err)

	require.NotEmpty(t, items)
	assert.Equal(t, SuggestionNew, items[0].Kind)

	var sawEnv, sawExisting bool
	for _, it := range items[1:] {
		switch it.Kind {
		case SuggestionEnvironment:
			sawEnv = true
			assert.Equal(t, "alpine:3", it.Value)
		case SuggestionExisting:
			sawExisting = true
			assert.Equal(t, "ubuntu:latest", it.Value)
		}
	}
	assert.True(t, sawEnv)
	assert.True(t, sawExisting)
}

func TestResolveVariableDerivedOptionsAppendedLast(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))
	ctx := context.Background()

	tmpl := template.Parse("kubectl get {{resource:pods|services}}", false)
	items, err := svc.ResolveVariable(ctx, tmpl, "kubectl", "/work")
	require.NoError(t, err)

	var derived []string
	for _, it := range items {
		if it.Kind == SuggestionDerived {
			derived = append(derived, it.Value)
		}
	}
	assert.Equal(t, []string{"pods", "services"}, derived)
}

func TestResolveVariableSecretHidesValue(t *testing.T) {
	env := environment.NewEnvListProvider([]string{"TOKEN=shh"})
	svc := newTestService(t, env)

	tmpl := template.Parse("curl -H {{{token}}}", false)
	items, err := svc.ResolveVariable(context.Background(), tmpl, "curl", "/work")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, SuggestionSecret, items[0].Kind)
	assert.Equal(t, SuggestionEnvironment, items[1].Kind)
	assert.Empty(t, items[1].Value)
	assert.Equal(t, "TOKEN", items[1].EnvName)
}

func TestResolveVariablePreviousSiblingBindingWins(t *testing.T) {
	svc := newTestService(t, environment.NewEnvListProvider(nil))

	tmpl := template.Parse("cp {{file}} {{file}}", false)
	tmpl, ok := tmpl.SetNextVariable("a.txt")
	require.True(t, ok)

	items, err := svc.ResolveVariable(context.Background(), tmpl, "cp", "/work")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, SuggestionNew, items[0].Kind)
	assert.Equal(t, "a.txt", items[1].Value)
}
