package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdash/student-crm-api/internal/models"
)

type stubReminderStore struct {
	upcoming []models.Reminder
	overdue  int
	all      []models.Reminder
}

func (s *stubReminderStore) ListPendingInRange(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	return s.upcoming, nil
}

func (s *stubReminderStore) CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.overdue, nil
}

func (s *stubReminderStore) List(ctx context.Context, status string) ([]models.Reminder, error) {
	return s.all, nil
}

func TestDashboardStats(t *testing.T) {
	students := &stubAnalyticsStore{students: []models.Student{
		{Status: models.StatusExploring, Country: "USA", HighIntent: true},
		{Status: models.StatusExploring, Country: "USA", NeedsEssayHelp: true},
		{Status: models.StatusApplying, Country: ""},
	}}
	reminders := &stubReminderStore{
		upcoming: []models.Reminder{{Title: "follow up"}},
		overdue:  2,
		all:      []models.Reminder{{}, {}, {}},
	}

	svc := NewDashboardService(students, reminders, nil, nil, DashboardServiceConfig{})
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 2, stats.StatusBreakdown["Exploring"])
	assert.Equal(t, 0, stats.StatusBreakdown["Submitted"])
	assert.Equal(t, 2, stats.CountryBreakdown["USA"])
	assert.Equal(t, 1, stats.CountryBreakdown["Unknown"])
	assert.Equal(t, 1, stats.HighIntentCount)
	assert.Equal(t, 1, stats.NeedsEssayHelpCount)
	assert.Equal(t, 1, stats.UpcomingReminders)
	assert.Equal(t, 2, stats.OverdueReminders)
	assert.Equal(t, 3, stats.TotalReminders)
}
