package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.token")
	require.NoError(t, os.WriteFile(path, []byte("access-123 refresh-456\n"), 0600))

	tok, err := readTokenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "access-123", tok.AccessToken)
	assert.Equal(t, "refresh-456", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	// Expiry is set in the past to force a refresh on first use.
	assert.True(t, tok.Expiry.Before(time.Now()))
}

func TestReadTokenFileInvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.token")
	require.NoError(t, os.WriteFile(path, []byte("only-one-field"), 0600))

	_, err := readTokenFile(path)
	assert.Error(t, err)
}

func TestReadTokenFileMissing(t *testing.T) {
	_, err := readTokenFile(filepath.Join(t.TempDir(), "nope.token"))
	assert.Error(t, err)
}

func TestOAuthConfigRequiresCredentials(t *testing.T) {
	t.Setenv(clientIDEnv, "")
	t.Setenv(clientSecretEnv, "")

	_, err := oauthConfig()
	assert.Error(t, err)

	t.Setenv(clientIDEnv, "id")
	t.Setenv(clientSecretEnv, "secret")
	conf, err := oauthConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", conf.ClientID)
	assert.Len(t, conf.Scopes, 1)
}
