package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/apierr"
)

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// serverError maps an action failure to the envelope. Input and credential
// problems are the caller's to fix and come back as 400; everything else is
// a 500.
func serverError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var validationErr *apierr.ValidationError
	var configErr *apierr.ConfigurationError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &configErr):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// postingFailed reports a failed posting attempt. The posting endpoint
// returns 500 for every failure mode, validation included.
func postingFailed(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
