package review

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/review-relay/internal/github"
)

const testReviewLabel = "content-review"

var analyticsNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func analyticsIssue(number int, state string, createdAt time.Time, score float64, labels ...string) github.Issue {
	issue := github.Issue{
		Number:    number,
		Title:     fmt.Sprintf("Generated content #%d", number),
		Body:      fmt.Sprintf("## Generated Content\n\nGenerated post text for issue number %d.\n\nQuality Score: %.1f", number, score),
		State:     state,
		CreatedAt: createdAt,
	}
	for _, name := range append([]string{testReviewLabel}, labels...) {
		issue.Labels = append(issue.Labels, github.Label{Name: name})
	}
	return issue
}

func TestAggregate_CountsAndRates(t *testing.T) {
	recent := analyticsNow.Add(-48 * time.Hour)

	var issues []github.Issue
	for i := 0; i < 6; i++ {
		issues = append(issues, analyticsIssue(i+1, "closed", recent, 8.5, "approved"))
	}
	for i := 0; i < 2; i++ {
		issues = append(issues, analyticsIssue(i+7, "closed", recent, 5.0, "rejected"))
	}
	for i := 0; i < 2; i++ {
		issues = append(issues, analyticsIssue(i+9, "open", recent, 7.0))
	}

	snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)

	assert.Equal(t, 10, snapshot.TotalEntries)
	assert.Equal(t, 2, snapshot.PendingCount)
	// 6 approved of 8 decided; open issues do not dilute the rate.
	assert.InDelta(t, 75.0, snapshot.ApprovalRate, 0.001)
	assert.Equal(t, 10, snapshot.RecentEntries)
	assert.Equal(t, recent, snapshot.LastGenerated)
	assert.InDelta(t, (6*8.5+2*5.0+2*7.0)/10, snapshot.AverageQualityScore, 0.001)
}

func TestAggregate_FiltersToReviewLabel(t *testing.T) {
	unlabeled := github.Issue{
		Number:    99,
		Title:     "Unrelated issue",
		Body:      "## Generated Content\n\nThis issue is not part of the review queue.",
		State:     "open",
		CreatedAt: analyticsNow,
	}
	issues := []github.Issue{
		analyticsIssue(1, "open", analyticsNow, 8.0),
		unlabeled,
	}

	snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)

	assert.Equal(t, 1, snapshot.TotalEntries)
	assert.Equal(t, 1, snapshot.PendingCount)
}

func TestAggregate_QualityDistribution(t *testing.T) {
	issues := []github.Issue{
		analyticsIssue(1, "open", analyticsNow, 9.2),
		analyticsIssue(2, "open", analyticsNow, 8.0),
		analyticsIssue(3, "open", analyticsNow, 7.9),
		analyticsIssue(4, "open", analyticsNow, 6.0),
		analyticsIssue(5, "open", analyticsNow, 5.9),
	}

	snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)

	assert.Equal(t, QualityDistribution{High: 2, Medium: 2, Low: 1}, snapshot.QualityDistribution)
	total := snapshot.QualityDistribution.High + snapshot.QualityDistribution.Medium + snapshot.QualityDistribution.Low
	assert.Equal(t, len(issues), total)
}

func TestAggregate_Trend(t *testing.T) {
	within7d := analyticsNow.Add(-3 * 24 * time.Hour)
	within30d := analyticsNow.Add(-20 * 24 * time.Hour)

	tests := []struct {
		name     string
		recent   int
		previous int
		want     string
	}{
		{"more recent approvals", 3, 1, TrendImproving},
		{"fewer recent approvals", 1, 3, TrendDeclining},
		{"equal approvals", 2, 2, TrendStable},
		{"no approvals", 0, 0, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var issues []github.Issue
			for i := 0; i < tt.recent; i++ {
				issues = append(issues, analyticsIssue(i+1, "closed", within7d, 7.0, "approved"))
			}
			for i := 0; i < tt.previous; i++ {
				issues = append(issues, analyticsIssue(i+100, "closed", within30d, 7.0, "approved"))
			}
			// Open issues in either window must not move the trend.
			issues = append(issues, analyticsIssue(200, "open", within7d, 7.0))

			snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)
			assert.Equal(t, tt.want, snapshot.PerformanceTrend)
		})
	}
}

func TestAggregate_MonthlyStats(t *testing.T) {
	issues := []github.Issue{
		analyticsIssue(1, "closed", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), 8.0, "approved"),
		analyticsIssue(2, "open", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), 7.0),
		analyticsIssue(3, "closed", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 7.0, "rejected"),
		// Same month name from a previous year shares the bucket.
		analyticsIssue(4, "closed", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), 7.0, "approved"),
		// Outside the three-month window entirely.
		analyticsIssue(5, "open", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 7.0),
	}

	snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)

	require.Len(t, snapshot.MonthlyStats, 3)
	for _, key := range []string{"june", "july", "august"} {
		assert.Contains(t, snapshot.MonthlyStats, key)
	}

	assert.Equal(t, MonthlyStat{Generated: 3, Approved: 2}, snapshot.MonthlyStats["august"])
	assert.Equal(t, MonthlyStat{Generated: 1, Approved: 0}, snapshot.MonthlyStats["june"])
	assert.Equal(t, MonthlyStat{}, snapshot.MonthlyStats["july"])
	assert.NotContains(t, snapshot.MonthlyStats, "january")
}

func TestEmptyMonthlyStats_MonthArithmetic(t *testing.T) {
	// End-of-month dates must not skip short months.
	stats := emptyMonthlyStats(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, stats, 3)
	for _, key := range []string{"january", "february", "march"} {
		assert.Contains(t, stats, key)
	}
}

func TestAggregate_TopicPerformance(t *testing.T) {
	body := func(text string) string {
		return "## Generated Content\n\n" + text + "\n\nQuality Score: 8.0"
	}
	labeled := func(names ...string) []github.Label {
		labels := []github.Label{{Name: testReviewLabel}}
		for _, n := range names {
			labels = append(labels, github.Label{Name: n})
		}
		return labels
	}

	issues := []github.Issue{
		{Number: 1, Title: "Post", Body: body("Addressing algorithmic bias starts with diverse training data."), State: "closed", CreatedAt: analyticsNow, Labels: labeled("approved")},
		{Number: 2, Title: "Post", Body: body("Bias audits should be mandatory for hiring systems."), State: "closed", CreatedAt: analyticsNow, Labels: labeled("rejected")},
		{Number: 3, Title: "AI safety milestones", Body: body("A look back at alignment research progress."), State: "closed", CreatedAt: analyticsNow, Labels: labeled("approved")},
	}

	snapshot := Aggregate(issues, nil, testReviewLabel, analyticsNow)

	// Topics without posts are omitted.
	require.Len(t, snapshot.TopicPerformance, 2)
	byTopic := map[string]TopicPerformance{}
	for _, perf := range snapshot.TopicPerformance {
		byTopic[perf.Topic] = perf
	}

	// Keyword matching covers the body, not only the title.
	assert.Equal(t, TopicPerformance{Topic: "AI Bias", Posts: 2, Approved: 1, ApprovalRate: 50}, byTopic["AI Bias"])
	assert.Equal(t, TopicPerformance{Topic: "AI Safety", Posts: 1, Approved: 1, ApprovalRate: 100}, byTopic["AI Safety"])
	assert.NotContains(t, byTopic, "AI Governance")
}

func TestAggregate_PipelineSuccessRate(t *testing.T) {
	runs := []github.WorkflowRun{
		{ID: 1, Status: "completed", Conclusion: "success", CreatedAt: analyticsNow.Add(-24 * time.Hour)},
		{ID: 2, Status: "completed", Conclusion: "success", CreatedAt: analyticsNow.Add(-48 * time.Hour)},
		{ID: 3, Status: "completed", Conclusion: "failure", CreatedAt: analyticsNow.Add(-72 * time.Hour)},
		// Outside the trailing window; excluded.
		{ID: 4, Status: "completed", Conclusion: "failure", CreatedAt: analyticsNow.Add(-45 * 24 * time.Hour)},
	}

	snapshot := Aggregate(nil, runs, testReviewLabel, analyticsNow)

	assert.InDelta(t, 66.67, snapshot.PipelineSuccessRate, 0.001)
}

func TestAggregate_EmptyInputs(t *testing.T) {
	snapshot := Aggregate(nil, nil, testReviewLabel, analyticsNow)

	assert.Zero(t, snapshot.TotalEntries)
	assert.Zero(t, snapshot.ApprovalRate)
	assert.Zero(t, snapshot.AverageQualityScore)
	assert.Zero(t, snapshot.PipelineSuccessRate)
	assert.Equal(t, TrendStable, snapshot.PerformanceTrend)
	assert.NotNil(t, snapshot.MonthlyStats)
	assert.NotNil(t, snapshot.TopicPerformance)
	// With no entries the snapshot reports aggregation time.
	assert.Equal(t, analyticsNow, snapshot.LastGenerated)
}

func TestZeroSnapshot(t *testing.T) {
	snapshot := ZeroSnapshot()

	assert.Equal(t, TrendStable, snapshot.PerformanceTrend)
	assert.NotNil(t, snapshot.MonthlyStats)
	assert.NotNil(t, snapshot.TopicPerformance)
	assert.Empty(t, snapshot.MonthlyStats)
}
