package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOsEnvProvider(t *testing.T) {
	t.Setenv("INTELLI_TEST_VAR", "hello")

	p := NewOsEnvProvider()
	v, ok := p.Get(context.Background(), "INTELLI_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	_, ok = p.Get(context.Background(), "INTELLI_TEST_VAR_UNSET")
	assert.False(t, ok)
}

func TestEnvListProvider(t *testing.T) {
	p := NewEnvListProvider([]string{"FOO=bar", "EMPTY="})

	v, ok := p.Get(context.Background(), "FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	v, ok = p.Get(context.Background(), "EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = p.Get(context.Background(), "MISSING")
	assert.False(t, ok)
}

func TestMultiProviderReturnsFirstHit(t *testing.T) {
	p := NewMultiProvider(
		NewEnvListProvider([]string{"A=1"}),
		NewEnvListProvider([]string{"A=2", "B=3"}),
	)

	v, ok := p.Get(context.Background(), "A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = p.Get(context.Background(), "B")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = p.Get(context.Background(), "C")
	assert.False(t, ok)
}
