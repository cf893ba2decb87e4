// Package review contains the content-review domain: parsing generated
// content out of issue bodies, assembling reviewable entries, and computing
// dashboard analytics. GitHub Issues are the system of record; entries are a
// read-through projection of live issue state, never persisted.
package review

import "time"

// Entry status values.
const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
)

// Issue labels that encode entry state.
const (
	LabelApproved = "approved"
	LabelRejected = "rejected"
	LabelPosted   = "posted"
)

// DefaultQualityScore is the neutral score used when an issue body carries no
// quality score. Zero is never propagated as a false "no confidence" signal.
const DefaultQualityScore = 7.5

// VoiceScoreFactor derives the voice score from the quality score when it is
// not independently supplied.
const VoiceScoreFactor = 0.9

// ContentOption is one candidate post within an entry.
type ContentOption struct {
	OptionNumber   int     `json:"option_number"`
	Content        string  `json:"content"`
	Score          float64 `json:"score"`
	VoiceScore     float64 `json:"voice_score"`
	Recommended    bool    `json:"recommended"`
	CharacterCount int     `json:"character_count"`
}

// ResearchContext summarizes the research behind an entry.
type ResearchContext struct {
	TrendingTopics    []string `json:"trending_topics"`
	NewsArticlesCount int      `json:"news_articles_count"`
}

// PipelineMetadata carries provenance for an entry.
type PipelineMetadata struct {
	IssueNumber int       `json:"issue_number"`
	IssueTitle  string    `json:"issue_title"`
	GeneratedAt time.Time `json:"generated_at"`
	Labels      []string  `json:"labels"`
}

// ContentEntry is one reviewable unit, backed 1:1 by a GitHub issue.
type ContentEntry struct {
	ID               string           `json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	Status           string           `json:"status"`
	GitHubIssueURL   string           `json:"github_issue_url"`
	ResearchContext  ResearchContext  `json:"research_context"`
	ContentOptions   []ContentOption  `json:"content_options"`
	PipelineMetadata PipelineMetadata `json:"pipeline_metadata"`
}

// MonthlyStat is one calendar month's generation/approval counts.
type MonthlyStat struct {
	Generated int `json:"generated"`
	Approved  int `json:"approved"`
}

// QualityDistribution buckets quality scores: high >= 8.0,
// medium 6.0..7.9, low < 6.0.
type QualityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TopicPerformance reports per-topic post and approval counts. The approval
// rate is rounded to the nearest integer percent.
type TopicPerformance struct {
	Topic        string `json:"topic"`
	Posts        int    `json:"posts"`
	Approved     int    `json:"approved"`
	ApprovalRate int    `json:"approval_rate"`
}

// Performance trend values.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// AnalyticsSnapshot is the derived, ephemeral dashboard summary. It is
// recomputed on every request. All rates are percentages; division by zero
// yields 0, never NaN.
type AnalyticsSnapshot struct {
	TotalEntries        int                    `json:"total_entries"`
	RecentEntries       int                    `json:"recent_entries"`
	ApprovalRate        float64                `json:"approval_rate"`
	AverageQualityScore float64                `json:"average_quality_score"`
	PendingCount        int                    `json:"pending_count"`
	LastGenerated       time.Time              `json:"last_generated"`
	PerformanceTrend    string                 `json:"performance_trend"`
	MonthlyStats        map[string]MonthlyStat `json:"monthly_stats"`
	QualityDistribution QualityDistribution    `json:"quality_distribution"`
	TopicPerformance    []TopicPerformance     `json:"topic_performance"`
	PipelineSuccessRate float64                `json:"pipeline_success_rate"`
}
