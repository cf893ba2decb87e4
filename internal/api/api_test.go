package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/config"
	"github.com/jonesrussell/review-relay/internal/github"
	"github.com/jonesrussell/review-relay/internal/logger"
	"github.com/jonesrussell/review-relay/internal/twitter"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

type fakeGitHub struct {
	mu sync.Mutex

	configured bool
	issues     []github.Issue
	issuesErr  error
	runs       []github.WorkflowRun
	runsErr    error
	repoErr    error
	commentErr error
	updateErr  error

	comments []string
	updates  map[int]github.IssueUpdate
}

func (f *fakeGitHub) Configured() bool { return f.configured }

func (f *fakeGitHub) ListIssues(context.Context, github.ListIssuesOptions) ([]github.Issue, error) {
	return f.issues, f.issuesErr
}

func (f *fakeGitHub) ListWorkflowRuns(context.Context) ([]github.WorkflowRun, error) {
	return f.runs, f.runsErr
}

func (f *fakeGitHub) GetRepository(context.Context) (*github.Repository, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return &github.Repository{FullName: "acme/content"}, nil
}

func (f *fakeGitHub) CreateComment(_ context.Context, _ int, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeGitHub) UpdateIssue(_ context.Context, issueNumber int, update github.IssueUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = map[int]github.IssueUpdate{}
	}
	f.updates[issueNumber] = update
	return nil
}

func (f *fakeGitHub) updateFor(issueNumber int) (github.IssueUpdate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	update, ok := f.updates[issueNumber]
	return update, ok
}

func (f *fakeGitHub) commentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}

type fakeTwitter struct {
	mu sync.Mutex

	configured bool
	tweet      *twitter.Tweet
	postErr    error
	meErr      error
	grant      *twitter.TokenGrant
	grantErr   error

	posted []string
}

func (f *fakeTwitter) Configured() bool { return f.configured }

func (f *fakeTwitter) PostTweet(_ context.Context, text string) (*twitter.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return nil, f.postErr
	}
	f.posted = append(f.posted, text)
	if f.tweet != nil {
		return f.tweet, nil
	}
	return &twitter.Tweet{ID: "1", Text: text, URL: "https://twitter.com/acme/status/1"}, nil
}

func (f *fakeTwitter) Me(context.Context) (*twitter.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &twitter.User{ID: "1", Username: "acme"}, nil
}

func (f *fakeTwitter) ExchangeAuthCode(context.Context, string, string) (*twitter.TokenGrant, error) {
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	if f.grant != nil {
		return f.grant, nil
	}
	return nil, errors.New("no grant configured")
}

func (f *fakeTwitter) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posted)
}

func newTestHandler(gh *fakeGitHub, tw *fakeTwitter) (*Handler, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.SetDefaults()

	h := New(cfg, gh, tw, logger.NewNop())
	h.now = func() time.Time { return testNow }

	r := gin.New()
	h.Routes(r)
	return h, r
}
