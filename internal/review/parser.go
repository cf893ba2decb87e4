package review

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parsing thresholds. Section content shorter than minContentLength triggers
// the fallback cascade; fallback summary lines must exceed
// fallbackMinLineLength to be considered substantial.
const (
	minContentLength      = 10
	fallbackMinLineLength = 20
	maxFallbackLines      = 3
)

// generatedContentHeading is the section heading that marks generated post
// text inside an issue body.
const generatedContentHeading = "Generated Content"

var qualityScoreRe = regexp.MustCompile(`(?i)quality\s+score:\s*([0-9]+(?:\.[0-9]+)?)`)

// ParseResult is the outcome of parsing one issue body.
type ParseResult struct {
	Content    string
	Score      float64
	ScoreFound bool
}

// sectionState tracks progress through the Generated Content section scan.
type sectionState int

const (
	stateSeeking sectionState = iota
	stateInContent
	stateDone
)

// ParseIssueBody extracts the generated content text and quality score from a
// free-text issue body. It never fails: malformed or missing sections degrade
// through the fallback cascade, and a body with no usable text yields a
// diagnostic placeholder rather than an empty string.
func ParseIssueBody(body string) ParseResult {
	lines := strings.Split(body, "\n")

	content := extractGeneratedContent(lines)
	score, found := extractQualityScore(lines)

	if len(strings.TrimSpace(content)) < minContentLength {
		content = fallbackContent(lines, body)
	}

	return ParseResult{Content: content, Score: score, ScoreFound: found}
}

// ScoreOrDefault returns the parsed score, or the neutral default when the
// body carried none.
func (r ParseResult) ScoreOrDefault() float64 {
	if r.ScoreFound {
		return r.Score
	}
	return DefaultQualityScore
}

// extractGeneratedContent collects the lines of the Generated Content
// section: everything after the section heading up to the next heading,
// excluding list-marker and empty lines.
func extractGeneratedContent(lines []string) string {
	var collected []string
	state := stateSeeking

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch state {
		case stateSeeking:
			if isGeneratedContentHeading(trimmed) {
				state = stateInContent
			}
		case stateInContent:
			if isHeading(trimmed) {
				state = stateDone
				continue
			}
			if trimmed == "" || isListMarker(trimmed) {
				continue
			}
			collected = append(collected, trimmed)
		case stateDone:
			// Remaining lines are ignored; the score scan runs separately.
		}
	}

	return strings.Join(collected, "\n")
}

// extractQualityScore scans every line for a quality score label. The scan is
// not short-circuited: when several lines match, the last one wins.
func extractQualityScore(lines []string) (float64, bool) {
	var score float64
	found := false

	for _, line := range lines {
		m := qualityScoreRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parsed, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		score = parsed
		found = true
	}

	return score, found
}

// fallbackContent applies the fallback cascade in priority order.
func fallbackContent(lines []string, body string) string {
	if content := fallbackSummaryLines(lines); content != "" {
		return content
	}
	if content := fallbackFirstLine(lines); content != "" {
		return content
	}
	return fmt.Sprintf("Content extraction failed: no usable text found in issue body (%d characters)", len(body))
}

// fallbackSummaryLines strips heading, bold-marker, and list-marker noise
// from the whole body and keeps the first few substantial lines.
func fallbackSummaryLines(lines []string) string {
	var kept []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if trimmed == "" || isHeading(trimmed) || isListMarker(trimmed) {
			continue
		}
		if len(trimmed) <= fallbackMinLineLength {
			continue
		}
		kept = append(kept, trimmed)
		if len(kept) == maxFallbackLines {
			break
		}
	}

	return strings.Join(kept, "\n")
}

// fallbackFirstLine returns the first non-empty, non-heading, non-list line
// verbatim.
func fallbackFirstLine(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isHeading(trimmed) || isListMarker(trimmed) {
			continue
		}
		return line
	}
	return ""
}

func isHeading(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

func isListMarker(trimmed string) bool {
	return strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*")
}

func isGeneratedContentHeading(trimmed string) bool {
	if !isHeading(trimmed) {
		return false
	}
	heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	return heading == generatedContentHeading
}
