// Package apierr provides error handling utilities shared across review-relay.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MinErrorStatusCode is the minimum HTTP status code considered an error.
const MinErrorStatusCode = 400

// HTTPError represents a non-2xx response from an upstream API.
// The provider payload is preserved so callers can surface it verbatim.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// ParseHTTPError parses an HTTP error response into a structured error.
// It reads the response body and attempts to extract error information
// from the common GitHub and Twitter error payload shapes.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	bodyStr := string(bodyBytes)

	var jsonErr struct {
		// GitHub style
		Message string `json:"message"`
		// Simple style
		Error string `json:"error"`
		// Twitter API v2 style
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
			Title   string `json:"title"`
		} `json:"errors"`
	}

	if json.Unmarshal(bodyBytes, &jsonErr) == nil {
		msg := jsonErr.Message
		if msg == "" {
			msg = jsonErr.Error
		}
		if msg == "" {
			msg = jsonErr.Detail
		}
		if msg == "" && len(jsonErr.Errors) > 0 {
			first := jsonErr.Errors[0]
			switch {
			case first.Message != "":
				msg = first.Message
			case first.Detail != "":
				msg = first.Detail
			default:
				msg = first.Title
			}
		}
		if msg != "" {
			return &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       bodyStr,
				Message:    msg,
			}
		}
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       bodyStr,
		Message:    bodyStr,
	}
}

// IsHTTPError checks if an error is an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// GetHTTPStatusCode extracts the HTTP status code from an error if it's an HTTPError.
func GetHTTPStatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
