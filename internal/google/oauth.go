// Package google manages OAuth2 credentials for the Gmail API. Tokens
// are cached per account under the user cache directory.
package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

const (
	clientIDEnv     = "DRAFTPILOT_GOOGLE_CLIENT_ID"
	clientSecretEnv = "DRAFTPILOT_GOOGLE_CLIENT_SECRET"

	cacheDirName = "draftpilot"
)

// HasToken checks if a cached OAuth token exists for the account.
func HasToken(account string) bool {
	_, err := os.ReadFile(tokenFile(account))
	return err == nil
}

// GetAuthURL returns the OAuth URL for user authorization.
func GetAuthURL() (string, error) {
	conf, err := oauthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state"), nil
}

// SaveToken exchanges an authorization code and caches the resulting
// token pair for the account.
func SaveToken(ctx context.Context, account, authCode string) error {
	conf, err := oauthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}

	file := tokenFile(account)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// GetTokenSource returns a refreshing token source for the cached
// token. It validates the token once before returning.
func GetTokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf, err := oauthConfig()
	if err != nil {
		return nil, err
	}

	tok, err := readTokenFile(tokenFile(account))
	if err != nil {
		return nil, err
	}

	ts := conf.TokenSource(ctx, tok)
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	return ts, nil
}

// GetHTTPClient returns an HTTP client with OAuth2 authentication.
// The client forces HTTP/1.1 to avoid HTTP/2 protocol errors seen
// against the Gmail API.
func GetHTTPClient(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSource(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}
	return client, nil
}

func oauthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(clientIDEnv)
	clientSecret := os.Getenv(clientSecretEnv)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s and %s must be set", clientIDEnv, clientSecretEnv)
	}

	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes: []string{
			gmail.MailGoogleComScope,
		},
	}, nil
}

// readTokenFile parses the cached "access refresh" token pair.
func readTokenFile(path string) (*oauth2.Token, error) {
	slurp, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no cached Google OAuth token: %w", err)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format in %s", path)
	}

	return &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	}, nil
}

func tokenFile(account string) string {
	if account == "" {
		account = "default"
	}
	return filepath.Join(userCacheDir(), cacheDirName, account+".token")
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}
