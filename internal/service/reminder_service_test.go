package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type recordingReminderStore struct {
	reminders []models.Reminder
	created   []models.Reminder
	statuses  map[string]string
	rangeFrom time.Time
	rangeTo   time.Time
}

func (s *recordingReminderStore) List(ctx context.Context, status string) ([]models.Reminder, error) {
	return s.reminders, nil
}

func (s *recordingReminderStore) ListPendingInRange(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	s.rangeFrom = from
	s.rangeTo = to
	return s.reminders, nil
}

func (s *recordingReminderStore) CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (s *recordingReminderStore) Create(ctx context.Context, reminder *models.Reminder) error {
	s.created = append(s.created, *reminder)
	return nil
}

func (s *recordingReminderStore) UpdateStatus(ctx context.Context, id string, status string) error {
	if s.statuses == nil {
		s.statuses = map[string]string{}
	}
	s.statuses[id] = status
	return nil
}

func (s *recordingReminderStore) Delete(ctx context.Context, id string) error {
	return nil
}

func newReminderService(store *recordingReminderStore) *ReminderService {
	svc := NewReminderService(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateReminderDefaultsToPending(t *testing.T) {
	store := &recordingReminderStore{}
	svc := newReminderService(store)

	due := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	reminder, err := svc.Create(context.Background(), ReminderRequest{Title: "Follow up with Alice", ReminderDate: due}, "advisor@example.com")
	require.NoError(t, err)

	assert.Equal(t, "pending", reminder.Status)
	assert.Equal(t, due, reminder.ReminderDate)
	assert.Equal(t, "advisor@example.com", reminder.CreatedBy)
	require.Len(t, store.created, 1)
}

func TestCreateReminderRequiresDate(t *testing.T) {
	svc := newReminderService(&recordingReminderStore{})

	_, err := svc.Create(context.Background(), ReminderRequest{Title: "Follow up"}, "advisor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpcomingUsesSevenDayWindow(t *testing.T) {
	store := &recordingReminderStore{}
	svc := newReminderService(store)

	_, err := svc.Upcoming(context.Background())
	require.NoError(t, err)

	assert.Equal(t, svc.now().UTC(), store.rangeFrom)
	assert.Equal(t, svc.now().UTC().AddDate(0, 0, 7), store.rangeTo)
}

func TestCompleteMarksDone(t *testing.T) {
	store := &recordingReminderStore{}
	svc := newReminderService(store)

	require.NoError(t, svc.Complete(context.Background(), "r1"))
	assert.Equal(t, "done", store.statuses["r1"])
}
