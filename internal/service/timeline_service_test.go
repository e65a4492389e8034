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

type stubTimelineStore struct {
	events  []models.TimelineEvent
	created []models.TimelineEvent
}

func (s *stubTimelineStore) ListByStudent(ctx context.Context, studentID string, eventType models.TimelineEventType) ([]models.TimelineEvent, error) {
	return s.events, nil
}

func (s *stubTimelineStore) Create(ctx context.Context, event *models.TimelineEvent) error {
	s.created = append(s.created, *event)
	return nil
}

type stubStudentFinder struct {
	known   map[string]bool
	touched []time.Time
}

func (s *stubStudentFinder) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.known[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, appErrors.ErrNotFound
}

func (s *stubStudentFinder) TouchLastContacted(ctx context.Context, id string, ts time.Time) error {
	s.touched = append(s.touched, ts)
	return nil
}

func newTimelineService(events *stubTimelineStore, students *stubStudentFinder) *TimelineService {
	svc := NewTimelineService(events, students, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAddNote(t *testing.T) {
	events := &stubTimelineStore{}
	students := &stubStudentFinder{known: map[string]bool{"s1": true}}
	svc := newTimelineService(events, students)

	event, err := svc.AddNote(context.Background(), "s1", NoteRequest{Title: "call recap", Content: "left voicemail"}, "advisor@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.EventNote, event.Type)
	assert.Equal(t, "advisor@example.com", event.CreatedBy)
	require.NotNil(t, event.Title)
	assert.Equal(t, "call recap", *event.Title)
	assert.Empty(t, students.touched, "notes never bump last contacted")
}

func TestAddNoteUnknownStudent(t *testing.T) {
	svc := newTimelineService(&stubTimelineStore{}, &stubStudentFinder{known: map[string]bool{}})

	_, err := svc.AddNote(context.Background(), "missing", NoteRequest{Content: "x"}, "advisor")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAddOutboundCommunicationBumpsLastContacted(t *testing.T) {
	events := &stubTimelineStore{}
	students := &stubStudentFinder{known: map[string]bool{"s1": true}}
	svc := newTimelineService(events, students)

	_, err := svc.AddCommunication(context.Background(), "s1", CommunicationRequest{Content: "sent brochure"}, "advisor")
	require.NoError(t, err)

	require.Len(t, students.touched, 1)
	assert.Equal(t, svc.now().UTC(), students.touched[0])
}

func TestAddInboundCommunicationDoesNotBump(t *testing.T) {
	events := &stubTimelineStore{}
	students := &stubStudentFinder{known: map[string]bool{"s1": true}}
	svc := newTimelineService(events, students)

	_, err := svc.AddCommunication(context.Background(), "s1", CommunicationRequest{Content: "asked about essays", Direction: "inbound"}, "advisor")
	require.NoError(t, err)
	assert.Empty(t, students.touched)
}

func TestAddInteraction(t *testing.T) {
	events := &stubTimelineStore{}
	students := &stubStudentFinder{known: map[string]bool{"s1": true}}
	svc := newTimelineService(events, students)

	followUp := time.Date(2026, 3, 22, 10, 0, 0, 0, time.UTC)
	event, err := svc.AddInteraction(context.Background(), "s1", InteractionRequest{
		InteractionType:  "call",
		Description:      "discussed shortlist",
		Outcome:          "positive",
		FollowUpRequired: true,
		FollowUpDate:     &followUp,
	}, "advisor@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.EventInteraction, event.Type)
	assert.Equal(t, "discussed shortlist", event.Content)
	require.NotNil(t, event.InteractionType)
	assert.Equal(t, "call", *event.InteractionType)
	require.NotNil(t, event.Outcome)
	assert.Equal(t, "positive", *event.Outcome)
	require.NotNil(t, event.FollowUpRequired)
	assert.True(t, *event.FollowUpRequired)
	require.NotNil(t, event.FollowUpDate)
	assert.Equal(t, followUp, *event.FollowUpDate)
	assert.Empty(t, students.touched, "interactions never bump last contacted")
	require.Len(t, events.created, 1)
}

func TestAddInteractionRequiresDescription(t *testing.T) {
	svc := newTimelineService(&stubTimelineStore{}, &stubStudentFinder{known: map[string]bool{"s1": true}})

	_, err := svc.AddInteraction(context.Background(), "s1", InteractionRequest{InteractionType: "call"}, "advisor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListAcceptsInteractionFilter(t *testing.T) {
	svc := newTimelineService(&stubTimelineStore{}, &stubStudentFinder{known: map[string]bool{"s1": true}})

	_, err := svc.List(context.Background(), "s1", "interaction")
	assert.NoError(t, err)
}

func TestListRejectsUnknownEventType(t *testing.T) {
	svc := newTimelineService(&stubTimelineStore{}, &stubStudentFinder{known: map[string]bool{"s1": true}})

	_, err := svc.List(context.Background(), "s1", "meeting")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
