package dto

import "time"

// AnalyticsOptions scope the aggregate computation. A nil bound leaves that
// side of the creation-date range open; GroupBy defaults to day.
type AnalyticsOptions struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	GroupBy     string
}

// AnalyticsOverview holds headline population counts.
type AnalyticsOverview struct {
	TotalStudents          int `json:"totalStudents"`
	NewStudents            int `json:"newStudents"`
	ActiveStudents         int `json:"activeStudents"`
	HighIntentStudents     int `json:"highIntentStudents"`
	NeedsEssayHelpStudents int `json:"needsEssayHelpStudents"`
}

// CountryBucket is one row of the country breakdown, percentage rounded to
// the nearest integer.
type CountryBucket struct {
	Country    string `json:"country"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// EngagementMetrics summarize outreach recency. The average covers only
// students who have ever been contacted; never-contacted students count as
// "not contacted" for every window.
type EngagementMetrics struct {
	AvgDaysSinceLastContact int `json:"avgDaysSinceLastContact"`
	NotContacted7Days       int `json:"notContacted7Days"`
	NotContacted30Days      int `json:"notContacted30Days"`
	CommunicationRate       int `json:"communicationRate"`
}

// TrendBucket counts registrations per time bucket.
type TrendBucket struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// AnalyticsSnapshot is the computed, non-persisted aggregate returned by the
// analytics endpoint.
type AnalyticsSnapshot struct {
	Overview         AnalyticsOverview `json:"overview"`
	StatusBreakdown  map[string]int    `json:"statusBreakdown"`
	CountryBreakdown []CountryBucket   `json:"countryBreakdown"`
	Engagement       EngagementMetrics `json:"engagement"`
	Trend            []TrendBucket     `json:"trend"`
	GroupBy          string            `json:"groupBy"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}
