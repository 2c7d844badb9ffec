// Package gemini adapts the Gemini generateContent API to pkg/ai.Provider.
package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// Client wraps a Gemini SDK client for a single configured model.
type Client struct {
	sdk   *genai.Client
	model string
}

// New builds a Client, authenticating with apiKey against the public Gemini
// API backend.
func New(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ierrors.AiMissingOrInvalidApiKeyErr{Env: "GEMINI_API_KEY"}
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, ierrors.AiRequestFailedErr{Msg: err.Error()}
	}
	return &Client{sdk: sdk, model: model}, nil
}

// Generate implements pkg/ai.Provider.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", classifyError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", ierrors.AiRequestFailedErr{Msg: "blocked: " + string(resp.PromptFeedback.BlockReason)}
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			out.WriteString(part.Text)
		}
	}
	if out.Len() == 0 {
		return "", ierrors.AiEmptyCommand
	}
	return out.String(), nil
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return ierrors.AiRequestFailedErr{Msg: err.Error()}
	}
	switch apiErr.Code {
	case 429:
		return ierrors.AiRateLimit
	case 500, 503:
		return ierrors.AiUnavailable
	case 401, 403:
		return ierrors.AiMissingOrInvalidApiKeyErr{Env: "GEMINI_API_KEY"}
	default:
		return ierrors.AiRequestFailedErr{Msg: apiErr.Error()}
	}
}
