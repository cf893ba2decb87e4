package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/logger"
)

// Connectivity states reported per upstream service.
const (
	statusConnected     = "connected"
	statusError         = "error"
	statusNotConfigured = "not_configured"
)

// Health serves GET /health: configuration completeness plus a read-only
// connectivity probe against each upstream. The overall status degrades to
// 503 when a required service is unreachable or unconfigured.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	githubStatus := statusNotConfigured
	twitterStatus := statusNotConfigured

	var wg sync.WaitGroup
	if h.github.Configured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.github.GetRepository(ctx); err != nil {
				h.logger.Warn("GitHub connectivity probe failed", logger.Error(err))
				githubStatus = statusError
				return
			}
			githubStatus = statusConnected
		}()
	}
	if h.twitter.Configured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.twitter.Me(ctx); err != nil {
				h.logger.Warn("Twitter connectivity probe failed", logger.Error(err))
				twitterStatus = statusError
				return
			}
			twitterStatus = statusConnected
		}()
	}
	wg.Wait()

	healthy := githubStatus == statusConnected && twitterStatus == statusConnected

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"api_configuration": gin.H{
			"github_configured":  h.github.Configured(),
			"twitter_configured": h.twitter.Configured(),
			"repository":         h.cfg.GitHub.RepoOwner + "/" + h.cfg.GitHub.RepoName,
			"review_label":       h.cfg.GitHub.ReviewLabel,
		},
		"api_connectivity": gin.H{
			"github":  githubStatus,
			"twitter": twitterStatus,
		},
	})
}
