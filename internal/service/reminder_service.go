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

type reminderStore interface {
	List(ctx context.Context, status string) ([]models.Reminder, error)
	ListPendingInRange(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
	CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error)
	Create(ctx context.Context, reminder *models.Reminder) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

// ReminderRequest shapes reminder create payloads.
type ReminderRequest struct {
	Title        string    `json:"title" binding:"required" validate:"required"`
	Description  string    `json:"description"`
	ReminderDate time.Time `json:"reminder_date" binding:"required" validate:"required"`
}

// ReminderService owns dashboard reminders and their upcoming/overdue split.
type ReminderService struct {
	store     reminderStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderService constructs a ReminderService.
func NewReminderService(store reminderStore, validate *validator.Validate, logger *zap.Logger) *ReminderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{store: store, validator: validate, logger: logger, now: time.Now}
}

// List returns reminders, optionally filtered by status.
func (s *ReminderService) List(ctx context.Context, status string) ([]models.Reminder, error) {
	return s.store.List(ctx, status)
}

// Upcoming returns pending reminders due within the next seven days.
func (s *ReminderService) Upcoming(ctx context.Context) ([]models.Reminder, error) {
	now := s.now().UTC()
	return s.store.ListPendingInRange(ctx, now, now.AddDate(0, 0, 7))
}

// Create validates and stores a reminder as pending.
func (s *ReminderService) Create(ctx context.Context, req ReminderRequest, createdBy string) (*models.Reminder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reminder title is required")
	}
	if req.ReminderDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reminder date is required")
	}

	reminder := &models.Reminder{
		Title:        req.Title,
		Description:  req.Description,
		ReminderDate: req.ReminderDate.UTC(),
		Status:       "pending",
		CreatedAt:    s.now().UTC(),
		CreatedBy:    createdBy,
	}
	if err := s.store.Create(ctx, reminder); err != nil {
		return nil, appErrors.Wrap(err, "REMINDER_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create reminder")
	}
	return reminder, nil
}

// Complete marks a reminder done.
func (s *ReminderService) Complete(ctx context.Context, id string) error {
	return s.store.UpdateStatus(ctx, id, "done")
}

// Delete removes a reminder.
func (s *ReminderService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
