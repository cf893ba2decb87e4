package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthResponse struct {
	Status           string `json:"status"`
	APIConfiguration struct {
		GitHubConfigured  bool `json:"github_configured"`
		TwitterConfigured bool `json:"twitter_configured"`
	} `json:"api_configuration"`
	APIConnectivity struct {
		GitHub  string `json:"github"`
		Twitter string `json:"twitter"`
	} `json:"api_connectivity"`
}

func getHealth(t *testing.T, gh *fakeGitHub, tw *fakeTwitter) (int, healthResponse) {
	t.Helper()
	_, r := newTestHandler(gh, tw)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealth_AllConnected(t *testing.T) {
	code, resp := getHealth(t, &fakeGitHub{configured: true}, &fakeTwitter{configured: true})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.APIConfiguration.GitHubConfigured)
	assert.True(t, resp.APIConfiguration.TwitterConfigured)
	assert.Equal(t, "connected", resp.APIConnectivity.GitHub)
	assert.Equal(t, "connected", resp.APIConnectivity.Twitter)
}

func TestHealth_NotConfigured(t *testing.T) {
	code, resp := getHealth(t, &fakeGitHub{}, &fakeTwitter{})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "not_configured", resp.APIConnectivity.GitHub)
	assert.Equal(t, "not_configured", resp.APIConnectivity.Twitter)
}

func TestHealth_UpstreamUnreachable(t *testing.T) {
	gh := &fakeGitHub{configured: true, repoErr: errors.New("HTTP 401: bad credentials")}
	code, resp := getHealth(t, gh, &fakeTwitter{configured: true})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "error", resp.APIConnectivity.GitHub)
	assert.Equal(t, "connected", resp.APIConnectivity.Twitter)
}
