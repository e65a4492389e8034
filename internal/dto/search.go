package dto

import "github.com/crmdash/student-crm-api/internal/models"

// SearchRequest drives the client-side substring search over the roster.
type SearchRequest struct {
	Query              string `json:"query"`
	StatusFilter       string `json:"status_filter"`
	CountryFilter      string `json:"country_filter"`
	HighIntentOnly     bool   `json:"high_intent_only"`
	NeedsEssayHelpOnly bool   `json:"needs_essay_help_only"`
	NotContacted7Days  bool   `json:"not_contacted_7_days"`
	Offset             int    `json:"offset"`
	Limit              int    `json:"limit"`
}

// SearchResponse pages the matching students.
type SearchResponse struct {
	Students []models.Student `json:"students"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	HasMore  bool             `json:"has_more"`
}
