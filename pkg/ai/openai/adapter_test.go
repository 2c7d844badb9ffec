package openai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func TestNewRejectsMissingAPIKey(t *testing.T) {
	_, err := New("", "gpt-4o", "")
	assert.Equal(t, ierrors.AiMissingOrInvalidApiKeyErr{Env: "OPENAI_API_KEY"}, err)
}

func TestGenerateReturnsResponseText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "docker ps -a"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	client, err := New("test-key", "gpt-4o", server.URL)
	require.NoError(t, err)

	out, err := client.Generate(t.Context(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "docker ps -a", out)
}

func TestGenerateTranslatesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", "gpt-4o", server.URL)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "system", "user")
	assert.ErrorIs(t, err, ierrors.AiRateLimit)
}

func TestGenerateTranslatesUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", "gpt-4o", server.URL)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "system", "user")
	assert.ErrorIs(t, err, ierrors.AiUnavailable)
}
