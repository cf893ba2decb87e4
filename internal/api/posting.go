package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/review"
	"github.com/jonesrussell/review-relay/internal/twitter"
)

// writeBackTimeout bounds the best-effort GitHub update that follows a
// successful post. It runs detached from the request context: the tweet is
// already live when it starts.
const writeBackTimeout = 30 * time.Second

type postRequest struct {
	Content           string `json:"content"`
	EntryID           string `json:"entryId"`
	GitHubIssueNumber int    `json:"githubIssueNumber"`
}

// PostToTwitter serves POST /post-to-twitter. Content is validated before
// any network call. Posting is the durability boundary: once the tweet is
// sent the operation reports success, and the issue write-back is advisory.
func (h *Handler) PostToTwitter(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	// Posting is a user-initiated action: any failure here, validation
	// included, reports 500 like the rest of the posting path.
	if err := twitter.ValidateContent(req.Content); err != nil {
		postingFailed(c, err)
		return
	}

	tweet, err := h.twitter.PostTweet(c.Request.Context(), req.Content)
	if err != nil {
		h.logger.Error("Failed to post tweet",
			logger.String("entry_id", req.EntryID),
			logger.Error(err),
		)
		postingFailed(c, err)
		return
	}

	postedAt := h.now().UTC()

	if req.GitHubIssueNumber > 0 {
		go h.recordPostedTweet(req.GitHubIssueNumber, tweet, postedAt)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tweet": gin.H{
			"id":        tweet.ID,
			"url":       tweet.URL,
			"posted_at": postedAt.Format(time.RFC3339),
		},
	})
}

// recordPostedTweet reflects a successful post back onto the source issue:
// a comment with the tweet URL, the posted label set, and a completed close.
// Failures are logged only; the tweet was already sent.
func (h *Handler) recordPostedTweet(issueNumber int, tweet *twitter.Tweet, postedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), writeBackTimeout)
	defer cancel()

	comment := fmt.Sprintf("## Posted to Twitter\n\n**Tweet:** %s\n**ID:** %s\n**Posted at:** %s",
		tweet.URL, tweet.ID, postedAt.Format(time.RFC3339))
	if err := h.github.CreateComment(ctx, issueNumber, comment); err != nil {
		h.logger.Warn("Failed to comment tweet URL on issue",
			logger.Int("issue", issueNumber),
			logger.String("tweet_id", tweet.ID),
			logger.Error(err),
		)
	}

	update := github.IssueUpdate{
		Labels:      []string{h.cfg.GitHub.ReviewLabel, review.LabelApproved, review.LabelPosted},
		State:       "closed",
		StateReason: "completed",
	}
	if err := h.github.UpdateIssue(ctx, issueNumber, update); err != nil {
		h.logger.Warn("Failed to mark issue as posted",
			logger.Int("issue", issueNumber),
			logger.String("tweet_id", tweet.ID),
			logger.Error(err),
		)
		return
	}

	h.logger.Info("Issue marked as posted",
		logger.Int("issue", issueNumber),
		logger.String("tweet_id", tweet.ID),
	)
}
