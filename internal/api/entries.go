package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/review"
)

// ListEntries serves GET /entries: every open review-labeled issue projected
// into a content entry. Upstream failure still returns HTTP 200 with an empty
// list so the dashboard renders a degraded state instead of nothing.
func (h *Handler) ListEntries(c *gin.Context) {
	issues, err := h.github.ListIssues(c.Request.Context(), github.ListIssuesOptions{
		Labels: h.cfg.GitHub.ReviewLabel,
		State:  "open",
	})
	if err != nil {
		h.logger.Error("Failed to list review issues", logger.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"success":   false,
			"entries":   []review.ContentEntry{},
			"count":     0,
			"error":     err.Error(),
			"timestamp": h.timestamp(),
		})
		return
	}

	entries := make([]review.ContentEntry, 0, len(issues))
	for _, issue := range issues {
		entries = append(entries, review.AssembleEntry(issue))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"entries":   entries,
		"count":     len(entries),
		"timestamp": h.timestamp(),
	})
}

// statusRequest is the approve/reject payload. SkipClose defers closing the
// issue to a posting flow that will close it after attaching the tweet URL.
type statusRequest struct {
	EntryID   string `json:"entryId"`
	Status    string `json:"status"`
	Feedback  string `json:"feedback"`
	SkipClose bool   `json:"skipClose"`
}

// UpdateEntryStatus serves POST /entries and POST /entry-status: applies an
// approve/reject decision to the backing issue. Labels are replaced
// wholesale, so repeating a decision is idempotent.
func (h *Handler) UpdateEntryStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	issueNumber, err := strconv.Atoi(req.EntryID)
	if err != nil {
		badRequest(c, "entryId must be an issue number")
		return
	}

	var decisionLabel, stateReason string
	switch req.Status {
	case review.StatusApproved:
		decisionLabel = review.LabelApproved
		stateReason = "completed"
	case review.StatusRejected:
		decisionLabel = review.LabelRejected
		stateReason = "not_planned"
	default:
		badRequest(c, "status must be approved or rejected")
		return
	}

	ctx := c.Request.Context()

	if req.Feedback != "" {
		comment := fmt.Sprintf("## Review Feedback\n\n**Decision:** %s\n\n%s\n\n_Recorded at %s_",
			req.Status, req.Feedback, h.now().UTC().Format(time.RFC3339))
		if err := h.github.CreateComment(ctx, issueNumber, comment); err != nil {
			h.logger.Error("Failed to record feedback comment",
				logger.Int("issue", issueNumber),
				logger.Error(err),
			)
			serverError(c, err)
			return
		}
	}

	update := github.IssueUpdate{
		Labels: []string{h.cfg.GitHub.ReviewLabel, decisionLabel},
	}
	if !req.SkipClose {
		update.State = "closed"
		update.StateReason = stateReason
	}
	if err := h.github.UpdateIssue(ctx, issueNumber, update); err != nil {
		h.logger.Error("Failed to update issue status",
			logger.Int("issue", issueNumber),
			logger.String("status", req.Status),
			logger.Error(err),
		)
		serverError(c, err)
		return
	}

	h.logger.Info("Entry status updated",
		logger.Int("issue", issueNumber),
		logger.String("status", req.Status),
		logger.Bool("closed", !req.SkipClose),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Entry %d marked as %s", issueNumber, req.Status),
		"data": gin.H{
			"entry_id": req.EntryID,
			"status":   req.Status,
			"closed":   !req.SkipClose,
		},
	})
}
