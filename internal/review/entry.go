package review

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/review-relay/internal/github"
)

const trendingTopicsHeading = "Trending Topics"

var newsArticlesRe = regexp.MustCompile(`(?i)news\s+articles(?:\s+count)?:\s*([0-9]+)`)

// AssembleEntry maps one GitHub issue into a ContentEntry. It is a pure
// transform over the provided issue data. An issue with an empty or
// unparseable body still produces a valid entry: degraded data is surfaced,
// never hidden, so the listing endpoint cannot fail wholesale because of one
// bad issue.
func AssembleEntry(issue github.Issue) (entry ContentEntry) {
	defer func() {
		if r := recover(); r != nil {
			entry = placeholderEntry(issue, fmt.Sprintf("Failed to parse issue body: %v", r))
		}
	}()

	parsed := ParseIssueBody(issue.Body)
	score := parsed.ScoreOrDefault()

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}

	topics, articleCount := parseResearchContext(issue.Body)

	return ContentEntry{
		ID:             strconv.Itoa(issue.Number),
		CreatedAt:      issue.CreatedAt,
		Status:         entryStatus(issue),
		GitHubIssueURL: issue.HTMLURL,
		ResearchContext: ResearchContext{
			TrendingTopics:    topics,
			NewsArticlesCount: articleCount,
		},
		ContentOptions: []ContentOption{
			{
				OptionNumber:   1,
				Content:        parsed.Content,
				Score:          score,
				VoiceScore:     round2(score * VoiceScoreFactor),
				Recommended:    true,
				CharacterCount: utf8.RuneCountInString(parsed.Content),
			},
		},
		PipelineMetadata: PipelineMetadata{
			IssueNumber: issue.Number,
			IssueTitle:  issue.Title,
			GeneratedAt: issue.CreatedAt,
			Labels:      labels,
		},
	}
}

// placeholderEntry builds the degraded entry used when parsing an issue
// fails outright. The error message becomes the content so the failure is
// visible on the dashboard.
func placeholderEntry(issue github.Issue, message string) ContentEntry {
	return ContentEntry{
		ID:             strconv.Itoa(issue.Number),
		CreatedAt:      issue.CreatedAt,
		Status:         entryStatus(issue),
		GitHubIssueURL: issue.HTMLURL,
		ResearchContext: ResearchContext{
			TrendingTopics: []string{},
		},
		ContentOptions: []ContentOption{
			{
				OptionNumber:   1,
				Content:        message,
				Score:          0,
				VoiceScore:     0,
				Recommended:    false,
				CharacterCount: utf8.RuneCountInString(message),
			},
		},
		PipelineMetadata: PipelineMetadata{
			IssueNumber: issue.Number,
			IssueTitle:  issue.Title,
			GeneratedAt: issue.CreatedAt,
		},
	}
}

// entryStatus derives the review status from issue state and labels.
func entryStatus(issue github.Issue) string {
	if issue.IsClosed() {
		if issue.HasLabel(LabelApproved) {
			return StatusApproved
		}
		if issue.HasLabel(LabelRejected) {
			return StatusRejected
		}
	}
	return StatusPendingReview
}

// parseResearchContext recovers trending topics and the researched article
// count from the issue body when the pipeline recorded them. Both are
// optional; absence yields an empty topic list and a zero count.
func parseResearchContext(body string) ([]string, int) {
	topics := []string{}
	inTopics := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if isHeading(trimmed) {
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			inTopics = heading == trendingTopicsHeading
			continue
		}
		if inTopics && isListMarker(trimmed) {
			topic := strings.TrimSpace(strings.TrimLeft(trimmed, "-*"))
			if topic != "" {
				topics = append(topics, topic)
			}
		}
	}

	count := 0
	if m := newsArticlesRe.FindStringSubmatch(body); m != nil {
		count, _ = strconv.Atoi(m[1])
	}

	return topics, count
}
