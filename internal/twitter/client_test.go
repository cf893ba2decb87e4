package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/review-relay/internal/apierr"
	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/logger"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "A perfectly reasonable tweet.", false},
		{"empty", "", true},
		{"at limit", strings.Repeat("a", 280), false},
		{"over limit", strings.Repeat("a", 281), true},
		// 281 runes but far more bytes; rune count is what matters.
		{"multibyte at limit", strings.Repeat("é", 280), false},
		{"multibyte over limit", strings.Repeat("é", 281), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *apierr.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func newTestClient(t *testing.T, cfg config.TwitterConfig, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	if cfg.Handle == "" {
		cfg.Handle = "acme"
	}
	return NewClient(cfg, srv.Client(), logger.NewNop())
}

func TestPostTweet(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, config.TwitterConfig{UserAccessToken: "user-token"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/2/tweets", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Hello from the review queue.", payload["text"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"id":"9001","text":"Hello from the review queue."}}`))
		}))

	tweet, err := client.PostTweet(context.Background(), "Hello from the review queue.")
	require.NoError(t, err)

	assert.Equal(t, "9001", tweet.ID)
	assert.Equal(t, "https://twitter.com/acme/status/9001", tweet.URL)
	assert.Equal(t, "Bearer user-token", gotAuth)
}

func TestPostTweet_FallsBackToNextMode(t *testing.T) {
	var auths []string
	client := newTestClient(t,
		config.TwitterConfig{UserAccessToken: "user-token", BearerToken: "app-token"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			auths = append(auths, auth)
			if auth == "Bearer user-token" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Unauthorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"id":"9002"}}`))
		}))

	tweet, err := client.PostTweet(context.Background(), "Fallback content.")
	require.NoError(t, err)

	assert.Equal(t, "9002", tweet.ID)
	assert.Equal(t, []string{"Bearer user-token", "Bearer app-token"}, auths)
}

func TestPostTweet_AllModesExhausted(t *testing.T) {
	var calls int
	client := newTestClient(t,
		config.TwitterConfig{UserAccessToken: "user-token", BearerToken: "app-token"},
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"Forbidden"}`))
		}))

	_, err := client.PostTweet(context.Background(), "Doomed content.")
	require.Error(t, err)

	var postingErr *apierr.PostingError
	require.ErrorAs(t, err, &postingErr)
	assert.Equal(t, []string{"oauth2_user", "bearer"}, postingErr.Attempts)
	assert.Contains(t, postingErr.Error(), "Forbidden")
	// Each mode is tried exactly once.
	assert.Equal(t, 2, calls)
}

func TestPostTweet_NoCredentials(t *testing.T) {
	client := NewClient(config.TwitterConfig{BaseURL: "https://example.invalid"}, http.DefaultClient, logger.NewNop())

	_, err := client.PostTweet(context.Background(), "No way to send this.")
	require.Error(t, err)

	var configErr *apierr.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestPostTweet_OversizedContentSkipsNetwork(t *testing.T) {
	var calls int
	client := newTestClient(t, config.TwitterConfig{BearerToken: "app-token"},
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { calls++ }))

	_, err := client.PostTweet(context.Background(), strings.Repeat("a", 281))
	require.Error(t, err)

	var validationErr *apierr.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Zero(t, calls)
}

func TestPostTweet_MissingTweetID(t *testing.T) {
	client := newTestClient(t, config.TwitterConfig{BearerToken: "app-token"},
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":{}}`))
		}))

	_, err := client.PostTweet(context.Background(), "Valid content, broken response.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tweet ID")
}

func TestMe(t *testing.T) {
	client := newTestClient(t, config.TwitterConfig{BearerToken: "app-token"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/2/users/me", r.URL.Path)
			require.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data":{"id":"1","name":"Acme","username":"acme"}}`))
		}))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", user.Username)
}

func TestExchangeAuthCode(t *testing.T) {
	client := newTestClient(t, config.TwitterConfig{ClientID: "client-1"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/2/oauth2/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "abc", r.PostForm.Get("code"))
			assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
			assert.Equal(t, "challenge", r.PostForm.Get("code_verifier"))
			_, _ = w.Write([]byte(`{"access_token":"user-token-123","token_type":"bearer","expires_in":7200}`))
		}))

	grant, err := client.ExchangeAuthCode(context.Background(), "abc", "https://example.com/twitter-callback")
	require.NoError(t, err)
	assert.Equal(t, "user-token-123", grant.AccessToken)
}

func TestExchangeAuthCode_NoClientID(t *testing.T) {
	client := NewClient(config.TwitterConfig{}, http.DefaultClient, logger.NewNop())

	_, err := client.ExchangeAuthCode(context.Background(), "abc", "https://example.com/cb")
	var configErr *apierr.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}
