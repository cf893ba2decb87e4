package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/review"
)

// Analytics serves GET /analytics. Issues and workflow runs are fetched
// concurrently and awaited jointly: a failure in either read yields a zeroed
// snapshot with an error field, never partial aggregation.
func (h *Handler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		wg       sync.WaitGroup
		issues   []github.Issue
		runs     []github.WorkflowRun
		issueErr error
		runErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		issues, issueErr = h.github.ListIssues(ctx, github.ListIssuesOptions{
			Labels: h.cfg.GitHub.ReviewLabel,
			State:  "all",
		})
	}()
	go func() {
		defer wg.Done()
		runs, runErr = h.github.ListWorkflowRuns(ctx)
	}()
	wg.Wait()

	if issueErr != nil || runErr != nil {
		err := issueErr
		if err == nil {
			err = runErr
		}
		h.logger.Error("Failed to fetch analytics inputs",
			logger.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{
			"success":   false,
			"analytics": review.ZeroSnapshot(),
			"error":     err.Error(),
			"timestamp": h.timestamp(),
		})
		return
	}

	snapshot := review.Aggregate(issues, runs, h.cfg.GitHub.ReviewLabel, h.now())

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"analytics": snapshot,
		"timestamp": h.timestamp(),
	})
}
