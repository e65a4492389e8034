package dto

// DashboardStats is the landing-page summary combining population counts and
// reminder buckets.
type DashboardStats struct {
	TotalStudents       int            `json:"totalStudents"`
	StatusBreakdown     map[string]int `json:"statusBreakdown"`
	CountryBreakdown    map[string]int `json:"countryBreakdown"`
	HighIntentCount     int            `json:"highIntentCount"`
	NeedsEssayHelpCount int            `json:"needsEssayHelpCount"`
	UpcomingReminders   int            `json:"upcomingReminders"`
	OverdueReminders    int            `json:"overdueReminders"`
	TotalReminders      int            `json:"totalReminders"`
}
