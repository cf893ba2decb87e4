// Package github provides a minimal GitHub REST API client covering the
// issue, comment, and workflow-run operations used by the review queue.
package github

import "time"

// Issue is a GitHub issue backing one review entry.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Labels    []Label   `json:"labels"`
}

// Label is a GitHub issue label.
type Label struct {
	Name string `json:"name"`
}

// HasLabel reports whether the issue carries the named label.
func (i *Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// IsOpen reports whether the issue is open.
func (i *Issue) IsOpen() bool {
	return i.State == "open"
}

// IsClosed reports whether the issue is closed.
func (i *Issue) IsClosed() bool {
	return i.State == "closed"
}

// WorkflowRun is one GitHub Actions run of the content pipeline.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	CreatedAt  time.Time `json:"created_at"`
}

// Succeeded reports whether the run completed successfully.
func (r *WorkflowRun) Succeeded() bool {
	return r.Conclusion == "success"
}

// Repository is the subset of repo metadata used by the health probe.
type Repository struct {
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

// IssueUpdate describes a label/state mutation applied to an issue.
type IssueUpdate struct {
	Labels      []string `json:"labels,omitempty"`
	State       string   `json:"state,omitempty"`
	StateReason string   `json:"state_reason,omitempty"`
}

// ListIssuesOptions filters an issue listing.
type ListIssuesOptions struct {
	// Labels is a comma-separated label filter.
	Labels string
	// State is one of "open", "closed", "all".
	State string
}
