// Package ollama adapts a local (or remote) Ollama server's chat endpoint to
// pkg/ai.Provider. No Ollama SDK appears anywhere in the reference corpus, so
// this talks the documented JSON API directly over net/http.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

const defaultBaseURL = "http://localhost:11434"

// Client talks to an Ollama server's /api/chat endpoint for a single model.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

// New builds a Client. apiKey is optional (bare local installs take none);
// baseURL defaults to the standard local Ollama port.
func New(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 5 * time.Minute},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// Generate implements pkg/ai.Provider.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", ierrors.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(reqBody))
	if err != nil {
		return "", ierrors.AiRequestFailedErr{Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", ierrors.AiUnavailable
	}
	defer res.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", ierrors.AiRequestFailedErr{Msg: err.Error()}
	}

	switch res.StatusCode {
	case http.StatusOK:
		if out.Message.Content == "" {
			return "", ierrors.AiEmptyCommand
		}
		return out.Message.Content, nil
	case http.StatusTooManyRequests:
		return "", ierrors.AiRateLimit
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return "", ierrors.AiUnavailable
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ierrors.AiMissingOrInvalidApiKeyErr{Env: "OLLAMA_API_KEY"}
	default:
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("ollama request failed: %s", res.Status)
		}
		return "", ierrors.AiRequestFailedErr{Msg: msg}
	}
}
