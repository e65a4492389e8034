package models

import "time"

// StudentStatus tracks where a student sits in the application funnel.
type StudentStatus string

const (
	StatusExploring    StudentStatus = "Exploring"
	StatusShortlisting StudentStatus = "Shortlisting"
	StatusApplying     StudentStatus = "Applying"
	StatusSubmitted    StudentStatus = "Submitted"
)

// StudentStatuses is the fixed, ordered status set. Breakdown reports emit a
// bucket for every member even when its count is zero.
var StudentStatuses = []StudentStatus{
	StatusExploring,
	StatusShortlisting,
	StatusApplying,
	StatusSubmitted,
}

// ValidStatus reports whether raw is a member of the fixed status set.
func ValidStatus(raw string) bool {
	for _, s := range StudentStatuses {
		if string(s) == raw {
			return true
		}
	}
	return false
}

// Student represents a prospective applicant tracked by the CRM.
type Student struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Email           string        `db:"email" json:"email"`
	Phone           *string       `db:"phone" json:"phone,omitempty"`
	Grade           *string       `db:"grade" json:"grade,omitempty"`
	Country         string        `db:"country" json:"country"`
	Status          StudentStatus `db:"status" json:"status"`
	HighIntent      bool          `db:"high_intent" json:"high_intent"`
	NeedsEssayHelp  bool          `db:"needs_essay_help" json:"needs_essay_help"`
	Source          *string       `db:"source" json:"source,omitempty"`
	AdditionalData  []byte        `db:"additional_data" json:"-"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	LastActive      time.Time     `db:"last_active" json:"last_active"`
	LastContactedAt *time.Time    `db:"last_contacted_at" json:"last_contacted_at"`
}

// StudentFilter encapsulates store-level filters for listing students.
// Empty slices and nil pointers mean "no restriction" on that dimension.
type StudentFilter struct {
	Statuses       []StudentStatus
	Countries      []string
	HighIntent     *bool
	NeedsEssayHelp *bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
