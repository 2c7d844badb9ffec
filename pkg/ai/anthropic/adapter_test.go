package anthropic

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func TestNewRejectsMissingAPIKey(t *testing.T) {
	_, err := New("", "claude-3-5-sonnet-20241022", "")
	assert.Equal(t, ierrors.AiMissingOrInvalidApiKeyErr{Env: "ANTHROPIC_API_KEY"}, err)
}

func TestGenerateReturnsResponseText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "docker ps -a"}],
			"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	defer server.Close()

	client, err := New("test-key", "claude-3-5-sonnet-20241022", server.URL)
	require.NoError(t, err)

	out, err := client.Generate(t.Context(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "docker ps -a", out)
}

func TestGenerateTranslatesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", "claude-3-5-sonnet-20241022", server.URL)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "system", "user")
	assert.ErrorIs(t, err, ierrors.AiRateLimit)
}

func TestGenerateTranslatesUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", "claude-3-5-sonnet-20241022", server.URL)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "system", "user")
	assert.ErrorIs(t, err, ierrors.AiUnavailable)
}

func TestGenerateTranslatesUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid key"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", "claude-3-5-sonnet-20241022", server.URL)
	require.NoError(t, err)

	_, err = client.Generate(t.Context(), "system", "user")
	assert.Equal(t, ierrors.AiMissingOrInvalidApiKeyErr{Env: "ANTHROPIC_API_KEY"}, err)
}
