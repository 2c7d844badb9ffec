package ollama

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func TestGenerateReturnsResponseText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "docker ps -a"}})
	}))
	defer server.Close()

	client := New("", "llama3", server.URL)
	out, err := client.Generate(t.Context(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "docker ps -a", out)
}

func TestGenerateSendsBearerTokenWhenSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "ok"}})
	}))
	defer server.Close()

	client := New("secret", "llama3", server.URL)
	_, err := client.Generate(t.Context(), "sys", "user")
	require.NoError(t, err)
}

func TestGenerateTranslatesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(chatResponse{Error: "rate limited"})
	}))
	defer server.Close()

	client := New("", "llama3", server.URL)
	_, err := client.Generate(t.Context(), "sys", "user")
	assert.ErrorIs(t, err, ierrors.AiRateLimit)
}

func TestGenerateTranslatesUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(chatResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	client := New("", "llama3", server.URL)
	_, err := client.Generate(t.Context(), "sys", "user")
	assert.ErrorIs(t, err, ierrors.AiUnavailable)
}

func TestGenerateRejectsEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: ""}})
	}))
	defer server.Close()

	client := New("", "llama3", server.URL)
	_, err := client.Generate(t.Context(), "sys", "user")
	assert.ErrorIs(t, err, ierrors.AiEmptyCommand)
}

func TestNewDefaultsBaseURL(t *testing.T) {
	client := New("", "llama3", "")
	assert.Equal(t, "http://localhost:11434", client.baseURL)
}
