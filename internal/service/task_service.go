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

type taskStore interface {
	List(ctx context.Context, status string) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskRequest shapes task create/update payloads.
type TaskRequest struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Title       string `json:"title" binding:"required" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskService owns standalone follow-up tasks.
type TaskService struct {
	store     taskStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService constructs a TaskService.
func NewTaskService(store taskStore, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{store: store, validator: validate, logger: logger, now: time.Now}
}

// List returns tasks, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, status string) ([]models.Task, error) {
	return s.store.List(ctx, status)
}

// Create validates and stores a task. Status defaults to pending and
// priority to medium.
func (s *TaskService) Create(ctx context.Context, req TaskRequest, createdBy string) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "task title is required")
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      defaultString(req.Status, "pending"),
		Priority:    defaultString(req.Priority, "medium"),
		CreatedAt:   s.now().UTC(),
		CreatedBy:   createdBy,
	}
	if req.StudentID != "" {
		task.StudentID = &req.StudentID
	}
	if req.StudentName != "" {
		task.StudentName = &req.StudentName
	}
	if req.DueDate != "" {
		task.DueDate = &req.DueDate
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, "TASK_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create task")
	}
	return task, nil
}

// Update overwrites a task's editable fields.
func (s *TaskService) Update(ctx context.Context, id string, req TaskRequest) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.DueDate != "" {
		task.DueDate = &req.DueDate
	}
	if req.StudentID != "" {
		task.StudentID = &req.StudentID
	}
	if req.StudentName != "" {
		task.StudentName = &req.StudentName
	}

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
