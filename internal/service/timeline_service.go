package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type timelineStore interface {
	ListByStudent(ctx context.Context, studentID string, eventType models.TimelineEventType) ([]models.TimelineEvent, error)
	Create(ctx context.Context, event *models.TimelineEvent) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	TouchLastContacted(ctx context.Context, id string, ts time.Time) error
}

// NoteRequest shapes a note entry.
type NoteRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content" binding:"required" validate:"required"`
	IsPrivate bool   `json:"is_private"`
}

// CommunicationRequest shapes a communication entry.
type CommunicationRequest struct {
	Subject           string `json:"subject"`
	Content           string `json:"content" binding:"required" validate:"required"`
	CommunicationType string `json:"communication_type"`
	Direction         string `json:"direction" validate:"omitempty,oneof=outbound inbound"`
	Status            string `json:"status"`
}

// InteractionRequest shapes an interaction entry, a logged touchpoint such
// as a call or meeting with an outcome and an optional follow-up marker.
type InteractionRequest struct {
	InteractionType  string     `json:"interaction_type"`
	Description      string     `json:"description" binding:"required" validate:"required"`
	Outcome          string     `json:"outcome"`
	FollowUpRequired bool       `json:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date"`
}

// TimelineService records notes, communications and interactions on student
// timelines.
// Logging an outbound communication advances the student's last-contacted
// marker, which feeds the engagement analytics.
type TimelineService struct {
	events    timelineStore
	students  studentFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTimelineService constructs a TimelineService.
func NewTimelineService(events timelineStore, students studentFinder, validate *validator.Validate, logger *zap.Logger) *TimelineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{events: events, students: students, validator: validate, logger: logger, now: time.Now}
}

// List returns a student's timeline, optionally restricted to one type.
func (s *TimelineService) List(ctx context.Context, studentID string, eventType string) ([]models.TimelineEvent, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	switch eventType {
	case "", string(models.EventNote), string(models.EventCommunication), string(models.EventInteraction):
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "event type must be 'note', 'communication' or 'interaction'")
	}
	return s.events.ListByStudent(ctx, studentID, models.TimelineEventType(eventType))
}

// AddNote appends a note to the student's timeline.
func (s *TimelineService) AddNote(ctx context.Context, studentID string, req NoteRequest, createdBy string) (*models.TimelineEvent, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "note content is required")
	}

	event := &models.TimelineEvent{
		StudentID: studentID,
		Type:      models.EventNote,
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
		CreatedBy: createdBy,
	}
	if req.Title != "" {
		event.Title = &req.Title
	}
	private := req.IsPrivate
	event.IsPrivate = &private

	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, "NOTE_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to record note")
	}
	return event, nil
}

// AddCommunication appends a communication entry. Outbound entries advance
// the student's last-contacted timestamp.
func (s *TimelineService) AddCommunication(ctx context.Context, studentID string, req CommunicationRequest, createdBy string) (*models.TimelineEvent, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid communication payload")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "communication content is required")
	}
	direction := req.Direction
	if direction == "" {
		direction = "outbound"
	}
	if direction != "outbound" && direction != "inbound" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction must be 'outbound' or 'inbound'")
	}

	now := s.now().UTC()
	event := &models.TimelineEvent{
		StudentID: studentID,
		Type:      models.EventCommunication,
		Content:   req.Content,
		Direction: &direction,
		CreatedAt: now,
		CreatedBy: createdBy,
	}
	if req.Subject != "" {
		event.Subject = &req.Subject
	}
	if req.CommunicationType != "" {
		event.CommunicationType = &req.CommunicationType
	}
	if req.Status != "" {
		event.Status = &req.Status
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, "COMMUNICATION_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to record communication")
	}
	if direction == "outbound" {
		if err := s.students.TouchLastContacted(ctx, studentID, now); err != nil {
			s.logger.Warn("last contacted bump failed", zap.String("studentId", studentID), zap.Error(err))
		}
	}
	return event, nil
}

// AddInteraction logs a touchpoint such as a call or meeting. Interactions
// never move the last-contacted marker; only outbound communications do.
func (s *TimelineService) AddInteraction(ctx context.Context, studentID string, req InteractionRequest, createdBy string) (*models.TimelineEvent, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid interaction payload")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interaction description is required")
	}

	event := &models.TimelineEvent{
		StudentID: studentID,
		Type:      models.EventInteraction,
		Content:   req.Description,
		CreatedAt: s.now().UTC(),
		CreatedBy: createdBy,
	}
	if req.InteractionType != "" {
		event.InteractionType = &req.InteractionType
	}
	if req.Outcome != "" {
		event.Outcome = &req.Outcome
	}
	followUp := req.FollowUpRequired
	event.FollowUpRequired = &followUp
	if req.FollowUpDate != nil {
		date := req.FollowUpDate.UTC()
		event.FollowUpDate = &date
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, "INTERACTION_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to record interaction")
	}
	return event, nil
}
