package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

const sha = "1234567890123456789012345678901234567890"

func TestParseGistLocationPlaceholderFallsBackToConfigured(t *testing.T) {
	loc, err := ParseGistLocation("gist", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
}

func TestParseGistLocationEmptyWithoutConfiguredFails(t *testing.T) {
	_, err := ParseGistLocation("", "")
	assert.Equal(t, ierrors.GistMissingId, err)
}

func TestParseGistLocationShorthandIDOnly(t *testing.T) {
	loc, err := ParseGistLocation("abc123", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Empty(t, loc.File)
}

func TestParseGistLocationShorthandIDAndFile(t *testing.T) {
	loc, err := ParseGistLocation("abc123/commands.sh", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, "commands.sh", loc.File)
}

func TestParseGistLocationShorthandIDAndSha(t *testing.T) {
	loc, err := ParseGistLocation("abc123/"+sha, "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, sha, loc.SHA)
	assert.Empty(t, loc.File)
}

func TestParseGistLocationShorthandIDShaFile(t *testing.T) {
	loc, err := ParseGistLocation("abc123/"+sha+"/commands.sh", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, sha, loc.SHA)
	assert.Equal(t, "commands.sh", loc.File)
}

func TestParseGistLocationGithubURL(t *testing.T) {
	loc, err := ParseGistLocation("https://gist.github.com/someuser/abc123", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
}

func TestParseGistLocationGithubURLWithSha(t *testing.T) {
	loc, err := ParseGistLocation("https://gist.github.com/someuser/abc123/"+sha, "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, sha, loc.SHA)
}

func TestParseGistLocationRawContentURL(t *testing.T) {
	loc, err := ParseGistLocation("https://gist.githubusercontent.com/someuser/abc123/raw/commands.sh", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, "commands.sh", loc.File)
}

func TestParseGistLocationRawContentURLWithSha(t *testing.T) {
	loc, err := ParseGistLocation("https://gist.githubusercontent.com/someuser/abc123/raw/"+sha+"/commands.sh", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
	assert.Equal(t, sha, loc.SHA)
	assert.Equal(t, "commands.sh", loc.File)
}

func TestParseGistLocationAPIURL(t *testing.T) {
	loc, err := ParseGistLocation("https://api.github.com/gists/abc123", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", loc.ID)
}

func TestParseGistLocationInvalidHostRejected(t *testing.T) {
	_, err := ParseGistLocation("https://example.com/abc123", "")
	assert.Equal(t, ierrors.GistInvalidLocation, err)
}

func TestIsRawGistURL(t *testing.T) {
	assert.True(t, IsRawGistURL("https://gist.githubusercontent.com/u/abc/raw/f.sh"))
	assert.False(t, IsRawGistURL("https://gist.github.com/u/abc"))
}

func TestLooksLikeGistLocation(t *testing.T) {
	assert.True(t, LooksLikeGistLocation("gist"))
	assert.True(t, LooksLikeGistLocation("https://gist.github.com/u/abc"))
	assert.True(t, LooksLikeGistLocation("https://api.github.com/gists/abc"))
	assert.False(t, LooksLikeGistLocation("/tmp/commands.sh"))
}

func TestLooksLikeHTTPLocation(t *testing.T) {
	assert.True(t, LooksLikeHTTPLocation("https://example.com/commands.json"))
	assert.False(t, LooksLikeHTTPLocation("/tmp/commands.sh"))
}
