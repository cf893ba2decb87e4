package review

import (
	"math"
	"strings"
	"time"

	"github.com/jonesrussell/review-relay/internal/github"
)

// Aggregation windows.
const (
	recentWindow   = 7 * 24 * time.Hour
	trendWindow    = 30 * 24 * time.Hour
	monthlyMonths  = 3
	pipelineWindow = 30 * 24 * time.Hour
)

// topicRule maps one fixed taxonomy topic to the keywords that classify an
// issue under it. An issue counts toward every topic whose keywords appear in
// its lowercased title or body.
type topicRule struct {
	topic    string
	keywords []string
}

// topicTaxonomy is the fixed, ordered set of reported topics.
var topicTaxonomy = []topicRule{
	{topic: "AI Ethics", keywords: []string{"ethic", "moral", "responsible ai"}},
	{topic: "AI Bias", keywords: []string{"bias", "fairness", "discriminat"}},
	{topic: "AI Governance", keywords: []string{"governance", "regulation", "policy", "compliance"}},
	{topic: "AI Transparency", keywords: []string{"transparen", "explainab", "interpretab"}},
	{topic: "AI Safety", keywords: []string{"safety", "alignment", "risk"}},
}

// Aggregate recomputes the full analytics snapshot from live issue and
// workflow-run state. Only issues carrying the review label participate.
// Nothing is cached: every call derives the snapshot from scratch. All rate
// divisions guard against a zero denominator and report 0.
func Aggregate(issues []github.Issue, runs []github.WorkflowRun, reviewLabel string, now time.Time) AnalyticsSnapshot {
	reviewed := make([]github.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.HasLabel(reviewLabel) {
			reviewed = append(reviewed, issue)
		}
	}

	snapshot := ZeroSnapshot()
	snapshot.TotalEntries = len(reviewed)
	snapshot.LastGenerated = now
	snapshot.MonthlyStats = emptyMonthlyStats(now)

	var (
		approved, rejected int
		scoreSum           float64
		lastCreated        time.Time

		// Trend windows count approved-and-closed issues only. The windows
		// are different lengths; the comparison is deliberately between raw
		// counts, matching the dashboard's established semantics.
		recentApproved   int
		previousApproved int
	)

	for _, issue := range reviewed {
		status := entryStatus(issue)
		switch status {
		case StatusApproved:
			approved++
		case StatusRejected:
			rejected++
		default:
			snapshot.PendingCount++
		}

		score := ParseIssueBody(issue.Body).ScoreOrDefault()
		scoreSum += score
		bucketScore(&snapshot.QualityDistribution, score)

		age := now.Sub(issue.CreatedAt)
		if age <= recentWindow {
			snapshot.RecentEntries++
			if status == StatusApproved {
				recentApproved++
			}
		} else if age <= trendWindow && status == StatusApproved {
			previousApproved++
		}

		if issue.CreatedAt.After(lastCreated) {
			lastCreated = issue.CreatedAt
		}

		key := monthKey(issue.CreatedAt.Month())
		if stat, ok := snapshot.MonthlyStats[key]; ok {
			stat.Generated++
			if issue.HasLabel(LabelApproved) {
				stat.Approved++
			}
			snapshot.MonthlyStats[key] = stat
		}
	}

	if !lastCreated.IsZero() {
		snapshot.LastGenerated = lastCreated
	}
	if decided := approved + rejected; decided > 0 {
		snapshot.ApprovalRate = round2(float64(approved) / float64(decided) * 100)
	}
	if len(reviewed) > 0 {
		snapshot.AverageQualityScore = round2(scoreSum / float64(len(reviewed)))
	}
	snapshot.PerformanceTrend = trend(recentApproved, previousApproved)
	snapshot.TopicPerformance = topicPerformance(reviewed)
	snapshot.PipelineSuccessRate = pipelineSuccessRate(runs, now)

	return snapshot
}

// ZeroSnapshot is the well-formed snapshot returned when upstream data is
// unavailable. Collections are empty, never nil, so the JSON shape stays
// stable for dashboard consumers.
func ZeroSnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		PerformanceTrend: TrendStable,
		MonthlyStats:     map[string]MonthlyStat{},
		TopicPerformance: []TopicPerformance{},
	}
}

// emptyMonthlyStats seeds the current and two preceding calendar months.
// Months are keyed by lowercase name only: an entry from the same month of a
// previous year lands in the current year's bucket.
func emptyMonthlyStats(now time.Time) map[string]MonthlyStat {
	stats := make(map[string]MonthlyStat, monthlyMonths)
	current := int(now.Month())
	for i := 0; i < monthlyMonths; i++ {
		// Step back by month number, not AddDate: AddDate normalizes
		// short months (Mar 31 minus one month is Mar 3).
		m := time.Month((current-1-i+12)%12 + 1)
		stats[monthKey(m)] = MonthlyStat{}
	}
	return stats
}

func monthKey(m time.Month) string {
	return strings.ToLower(m.String())
}

func bucketScore(dist *QualityDistribution, score float64) {
	switch {
	case score >= 8.0:
		dist.High++
	case score >= 6.0:
		dist.Medium++
	default:
		dist.Low++
	}
}

func trend(recent, previous int) string {
	switch {
	case recent > previous:
		return TrendImproving
	case recent < previous:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// topicPerformance classifies every issue against the fixed taxonomy and
// reports per-topic counts in taxonomy order. Topics with no matching issues
// are omitted.
func topicPerformance(issues []github.Issue) []TopicPerformance {
	out := make([]TopicPerformance, 0, len(topicTaxonomy))

	for _, rule := range topicTaxonomy {
		perf := TopicPerformance{Topic: rule.topic}
		for _, issue := range issues {
			text := strings.ToLower(issue.Title + "\n" + issue.Body)
			if !matchesAny(text, rule.keywords) {
				continue
			}
			perf.Posts++
			if issue.HasLabel(LabelApproved) {
				perf.Approved++
			}
		}
		if perf.Posts == 0 {
			continue
		}
		perf.ApprovalRate = int(math.Round(float64(perf.Approved) / float64(perf.Posts) * 100))
		out = append(out, perf)
	}

	return out
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// pipelineSuccessRate is the share of workflow runs within the trailing
// window that completed successfully.
func pipelineSuccessRate(runs []github.WorkflowRun, now time.Time) float64 {
	var total, succeeded int
	for _, run := range runs {
		if now.Sub(run.CreatedAt) > pipelineWindow {
			continue
		}
		total++
		if run.Succeeded() {
			succeeded++
		}
	}
	if total == 0 {
		return 0
	}
	return round2(float64(succeeded) / float64(total) * 100)
}

// round2 rounds to two decimal places for stable JSON output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
