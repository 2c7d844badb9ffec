package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func TestNewRejectsMissingAPIKey(t *testing.T) {
	_, err := New(t.Context(), "", "gemini-2.5-flash", "")
	assert.Equal(t, ierrors.AiMissingOrInvalidApiKeyErr{Env: "GEMINI_API_KEY"}, err)
}

func TestNewBuildsClientWithAPIKey(t *testing.T) {
	client, err := New(t.Context(), "test-key", "gemini-2.5-flash", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", client.model)
}

func TestClassifyErrorRateLimit(t *testing.T) {
	err := classifyError(genai.APIError{Code: 429, Message: "slow down"})
	assert.ErrorIs(t, err, ierrors.AiRateLimit)
}

func TestClassifyErrorUnavailable(t *testing.T) {
	err := classifyError(genai.APIError{Code: 503, Message: "overloaded"})
	assert.ErrorIs(t, err, ierrors.AiUnavailable)
}

func TestClassifyErrorUnauthorized(t *testing.T) {
	err := classifyError(genai.APIError{Code: 401, Message: "bad key"})
	assert.Equal(t, ierrors.AiMissingOrInvalidApiKeyErr{Env: "GEMINI_API_KEY"}, err)
}

func TestClassifyErrorUnknown(t *testing.T) {
	err := classifyError(genai.APIError{Code: 418, Message: "teapot"})
	assert.Equal(t, ierrors.AiRequestFailedErr{Msg: genai.APIError{Code: 418, Message: "teapot"}.Error()}, err)
}
