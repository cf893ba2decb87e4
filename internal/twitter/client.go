// Package twitter provides a Twitter/X API v2 client for posting approved
// content. Posting supports three credential modes tried in a fixed fallback
// order: OAuth 2.0 user-context access token, app-only bearer token, and
// OAuth 1.0a request signing.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/jonesrussell/review-relay/internal/apierr"
	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/logger"
)

// MaxTweetLength is the platform character limit. Length is measured in
// characters, not bytes, approximating the platform's displayed-length rules.
const MaxTweetLength = 280

const userAgent = "review-relay/1.0"

// Tweet is the result of a successful post.
type Tweet struct {
	ID   string
	Text string
	URL  string
}

// User is the authenticated account, used by the health probe.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ValidateContent checks tweet text before any network call is made.
func ValidateContent(text string) error {
	if text == "" {
		return apierr.NewValidationError("content", "content is required")
	}
	if n := utf8.RuneCountInString(text); n > MaxTweetLength {
		return apierr.NewValidationError("content",
			fmt.Sprintf("content exceeds character limit: %d/%d characters", n, MaxTweetLength))
	}
	return nil
}

// authMode is one way of authorizing a request against the posting API.
type authMode struct {
	name      string
	authorize func(req *http.Request) error
}

// Client is a Twitter API v2 client.
type Client struct {
	cfg        config.TwitterConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a Twitter client from the configured credentials.
func NewClient(cfg config.TwitterConfig, httpClient *http.Client, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// Configured reports whether at least one posting auth mode is available.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// modes returns the configured auth modes in fallback order.
func (c *Client) modes() []authMode {
	var modes []authMode
	if c.cfg.HasUserToken() {
		token := c.cfg.UserAccessToken
		modes = append(modes, authMode{
			name: "oauth2_user",
			authorize: func(req *http.Request) error {
				req.Header.Set("Authorization", "Bearer "+token)
				return nil
			},
		})
	}
	if c.cfg.HasBearer() {
		token := c.cfg.BearerToken
		modes = append(modes, authMode{
			name: "bearer",
			authorize: func(req *http.Request) error {
				req.Header.Set("Authorization", "Bearer "+token)
				return nil
			},
		})
	}
	if c.cfg.HasOAuth1() {
		signer := newOAuth1Signer(c.cfg.APIKey, c.cfg.APISecret, c.cfg.AccessToken, c.cfg.AccessSecret)
		modes = append(modes, authMode{
			name: "oauth1",
			authorize: func(req *http.Request) error {
				header, err := signer.AuthorizationHeader(req.Method, req.URL.Scheme+"://"+req.URL.Host+req.URL.Path)
				if err != nil {
					return err
				}
				req.Header.Set("Authorization", header)
				return nil
			},
		})
	}
	return modes
}

// PostTweet submits content to the posting API. Each configured auth mode is
// tried once in order; the first success wins. When every mode fails, the
// returned PostingError carries the last provider error payload.
func (c *Client) PostTweet(ctx context.Context, text string) (*Tweet, error) {
	if err := ValidateContent(text); err != nil {
		return nil, err
	}

	modes := c.modes()
	if len(modes) == 0 {
		return nil, apierr.NewConfigurationError("Twitter",
			"TWITTER_USER_ACCESS_TOKEN, TWITTER_BEARER_TOKEN, or TWITTER_API_KEY/TWITTER_API_SECRET/TWITTER_ACCESS_TOKEN/TWITTER_ACCESS_SECRET")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode tweet: %w", err)
	}

	var attempts []string
	var lastErr error
	for _, mode := range modes {
		attempts = append(attempts, mode.name)

		tweet, postErr := c.postOnce(ctx, mode, payload)
		if postErr == nil {
			tweet.Text = text
			tweet.URL = c.TweetURL(tweet.ID)
			c.logger.Info("Tweet posted",
				logger.String("tweet_id", tweet.ID),
				logger.String("auth_mode", mode.name),
			)
			return tweet, nil
		}

		c.logger.Warn("Posting auth mode failed",
			logger.String("auth_mode", mode.name),
			logger.Error(postErr),
		)
		lastErr = postErr
	}

	return nil, &apierr.PostingError{Attempts: attempts, LastErr: lastErr}
}

// postOnce performs a single POST /2/tweets with one auth mode.
func (c *Client) postOnce(ctx context.Context, mode authMode, payload []byte) (*Tweet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if err := mode.authorize(req); err != nil {
		return nil, fmt.Errorf("authorize request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := apierr.ParseHTTPError(resp); httpErr != nil {
		return nil, httpErr
	}

	var out struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("invalid response from posting API: no tweet ID returned")
	}

	return &Tweet{ID: out.Data.ID}, nil
}

// Me fetches the authenticated user. Used as a read-only connectivity probe
// by the health endpoint.
func (c *Client) Me(ctx context.Context) (*User, error) {
	modes := c.modes()
	if len(modes) == 0 {
		return nil, apierr.NewConfigurationError("Twitter", "posting credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/2/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if err := modes[0].authorize(req); err != nil {
		return nil, fmt.Errorf("authorize request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := apierr.ParseHTTPError(resp); httpErr != nil {
		return nil, httpErr
	}

	var out struct {
		Data User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out.Data, nil
}

// TweetURL builds the public status URL for a tweet ID.
func (c *Client) TweetURL(id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", c.cfg.Handle, id)
}
