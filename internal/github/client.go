package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonesrussell/review-relay/internal/apierr"
	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/logger"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "review-relay/1.0"

	// listPageSize matches the upstream maximum; the review queue is small
	// enough that one page is sufficient.
	listPageSize = 100
)

// Client is a GitHub REST API client scoped to one repository.
type Client struct {
	cfg        config.GitHubConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a GitHub client for the configured repository.
func NewClient(cfg config.GitHubConfig, httpClient *http.Client, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// Configured reports whether the client has the credentials it needs.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// ensureConfigured returns a ConfigurationError when credentials are missing.
func (c *Client) ensureConfigured() error {
	if c.cfg.Configured() {
		return nil
	}
	return apierr.NewConfigurationError("GitHub", c.cfg.Missing())
}

// ListIssues fetches issues for the repository with the given filters.
func (c *Client) ListIssues(ctx context.Context, opts ListIssuesOptions) ([]Issue, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if opts.Labels != "" {
		q.Set("labels", opts.Labels)
	}
	if opts.State != "" {
		q.Set("state", opts.State)
	}
	q.Set("per_page", strconv.Itoa(listPageSize))

	var issues []Issue
	if err := c.do(ctx, http.MethodGet, c.repoPath("issues")+"?"+q.Encode(), nil, &issues); err != nil {
		return nil, apierr.WrapWithContext(err, "list issues")
	}
	return issues, nil
}

// ListWorkflowRuns fetches the most recent workflow runs for the repository.
func (c *Client) ListWorkflowRuns(ctx context.Context) ([]WorkflowRun, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	var resp struct {
		WorkflowRuns []WorkflowRun `json:"workflow_runs"`
	}
	path := c.repoPath("actions/runs") + "?per_page=" + strconv.Itoa(listPageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, apierr.WrapWithContext(err, "list workflow runs")
	}
	return resp.WorkflowRuns, nil
}

// GetRepository fetches repository metadata. Used as a read-only
// connectivity probe by the health endpoint.
func (c *Client) GetRepository(ctx context.Context) (*Repository, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	var repo Repository
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &repo); err != nil {
		return nil, apierr.WrapWithContext(err, "get repository")
	}
	return &repo, nil
}

// CreateComment appends a comment to an issue.
func (c *Client) CreateComment(ctx context.Context, issueNumber int, body string) error {
	if err := c.ensureConfigured(); err != nil {
		return err
	}

	payload := map[string]string{"body": body}
	path := c.repoPath(fmt.Sprintf("issues/%d/comments", issueNumber))
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return apierr.WrapWithContextf(err, "comment on issue #%d", issueNumber)
	}
	return nil
}

// UpdateIssue applies a label/state mutation to an issue. Labels are replaced
// wholesale, which makes repeated updates with the same set idempotent.
func (c *Client) UpdateIssue(ctx context.Context, issueNumber int, update IssueUpdate) error {
	if err := c.ensureConfigured(); err != nil {
		return err
	}

	path := c.repoPath(fmt.Sprintf("issues/%d", issueNumber))
	if err := c.do(ctx, http.MethodPatch, path, update, nil); err != nil {
		return apierr.WrapWithContextf(err, "update issue #%d", issueNumber)
	}
	return nil
}

// repoPath builds a repository-scoped API path.
func (c *Client) repoPath(suffix string) string {
	base := fmt.Sprintf("%s/repos/%s/%s", c.cfg.BaseURL, c.cfg.RepoOwner, c.cfg.RepoName)
	if suffix == "" {
		return base
	}
	return base + "/" + suffix
}

// do executes one API request, decoding the JSON response into out when
// out is non-nil. Non-2xx responses become apierr.HTTPError values carrying
// the provider payload.
func (c *Client) do(ctx context.Context, method, rawURL string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.cfg.Token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := apierr.ParseHTTPError(resp); httpErr != nil {
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
