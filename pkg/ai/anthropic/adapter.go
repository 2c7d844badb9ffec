// Package anthropic adapts the Anthropic Messages API to pkg/ai.Provider.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

const defaultMaxTokens = 4096

// Client wraps an Anthropic SDK client for a single configured model.
type Client struct {
	sdk   anthropic.Client
	model string
}

// New builds a Client, authenticating with apiKey (and optionally pointing
// at a self-hosted-compatible baseURL).
func New(apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ierrors.AiMissingOrInvalidApiKeyErr{Env: "ANTHROPIC_API_KEY"}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{sdk: anthropic.NewClient(opts...), model: model}, nil
}

// Generate implements pkg/ai.Provider.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := c.sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt))},
	})
	if err != nil {
		return "", classifyError(err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		out.WriteString(block.Text)
	}
	if out.Len() == 0 {
		return "", ierrors.AiEmptyCommand
	}
	return out.String(), nil
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return ierrors.AiRequestFailedErr{Msg: err.Error()}
	}
	switch apiErr.StatusCode {
	case 429:
		return ierrors.AiRateLimit
	case 503, 529:
		return ierrors.AiUnavailable
	case 401, 403:
		return ierrors.AiMissingOrInvalidApiKeyErr{Env: "ANTHROPIC_API_KEY"}
	default:
		return ierrors.AiRequestFailedErr{Msg: apiErr.Error()}
	}
}
