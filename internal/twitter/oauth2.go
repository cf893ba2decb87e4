package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonesrussell/review-relay/internal/apierr"
)

// pkceVerifier is the static PKCE code verifier paired with the plain
// challenge used when the authorization URL was built.
const pkceVerifier = "challenge"

// TokenGrant is the result of exchanging an authorization code.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// ExchangeAuthCode trades an OAuth 2.0 authorization code for a user-context
// access token. The token is returned to the operator, never persisted.
func (c *Client) ExchangeAuthCode(ctx context.Context, code, redirectURI string) (*TokenGrant, error) {
	if c.cfg.ClientID == "" {
		return nil, apierr.NewConfigurationError("Twitter", "TWITTER_CLIENT_ID")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("redirect_uri", redirectURI)
	form.Set("code_verifier", pkceVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/2/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := apierr.ParseHTTPError(resp); httpErr != nil {
		return nil, httpErr
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("invalid response from token endpoint: no access token returned")
	}
	return &grant, nil
}
