// Package api implements the dashboard-facing HTTP endpoints: entry listing,
// status updates, analytics, posting, health, and the operator pages.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/twitter"
)

// GitHubAPI is the issue-queue surface the handlers depend on.
type GitHubAPI interface {
	Configured() bool
	ListIssues(ctx context.Context, opts github.ListIssuesOptions) ([]github.Issue, error)
	ListWorkflowRuns(ctx context.Context) ([]github.WorkflowRun, error)
	GetRepository(ctx context.Context) (*github.Repository, error)
	CreateComment(ctx context.Context, issueNumber int, body string) error
	UpdateIssue(ctx context.Context, issueNumber int, update github.IssueUpdate) error
}

// TwitterAPI is the posting surface the handlers depend on.
type TwitterAPI interface {
	Configured() bool
	PostTweet(ctx context.Context, text string) (*twitter.Tweet, error)
	Me(ctx context.Context) (*twitter.User, error)
	ExchangeAuthCode(ctx context.Context, code, redirectURI string) (*twitter.TokenGrant, error)
}

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	cfg     *config.Config
	github  GitHubAPI
	twitter TwitterAPI
	logger  logger.Logger

	// now is injectable for deterministic analytics tests.
	now func() time.Time
}

// New creates the endpoint handler set.
func New(cfg *config.Config, gh GitHubAPI, tw TwitterAPI, log logger.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		github:  gh,
		twitter: tw,
		logger:  log,
		now:     time.Now,
	}
}

// Routes registers every endpoint on the router. CORS, logging, recovery,
// and metrics middleware are applied by the server package.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/entries", h.ListEntries)
	r.POST("/entries", h.UpdateEntryStatus)
	r.POST("/entry-status", h.UpdateEntryStatus)
	r.GET("/analytics", h.Analytics)
	r.POST("/post-to-twitter", h.PostToTwitter)
	r.GET("/health", h.Health)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/twitter-callback", h.TwitterCallback)
}

// timestamp is the wall-clock value attached to envelope responses.
func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}
