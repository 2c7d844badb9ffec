// Package openai adapts the OpenAI chat completions API to pkg/ai.Provider.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// Client wraps an OpenAI SDK client for a single configured model.
type Client struct {
	sdk   openai.Client
	model string
}

// New builds a Client, authenticating with apiKey. baseURL lets callers
// point at an OpenAI-compatible gateway instead of the public API.
func New(apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ierrors.AiMissingOrInvalidApiKeyErr{Env: "OPENAI_API_KEY"}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{sdk: openai.NewClient(opts...), model: model}, nil
}

// Generate implements pkg/ai.Provider.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ierrors.AiEmptyCommand
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return ierrors.AiRequestFailedErr{Msg: err.Error()}
	}
	switch apiErr.StatusCode {
	case 429:
		return ierrors.AiRateLimit
	case 500, 502, 503:
		return ierrors.AiUnavailable
	case 401, 403:
		return ierrors.AiMissingOrInvalidApiKeyErr{Env: "OPENAI_API_KEY"}
	default:
		return ierrors.AiRequestFailedErr{Msg: apiErr.Error()}
	}
}
