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

type stubTaskStore struct {
	tasks   map[string]*models.Task
	created []models.Task
	updated []models.Task
}

func (s *stubTaskStore) List(ctx context.Context, status string) ([]models.Task, error) {
	out := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if status == "" || task.Status == status {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (s *stubTaskStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	if task, ok := s.tasks[id]; ok {
		clone := *task
		return &clone, nil
	}
	return nil, appErrors.ErrNotFound
}

func (s *stubTaskStore) Create(ctx context.Context, task *models.Task) error {
	s.created = append(s.created, *task)
	return nil
}

func (s *stubTaskStore) Update(ctx context.Context, task *models.Task) error {
	s.updated = append(s.updated, *task)
	return nil
}

func (s *stubTaskStore) Delete(ctx context.Context, id string) error {
	delete(s.tasks, id)
	return nil
}

func newTaskService(store *stubTaskStore) *TaskService {
	svc := NewTaskService(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	store := &stubTaskStore{}
	svc := newTaskService(store)

	task, err := svc.Create(context.Background(), TaskRequest{Title: "Call Alice"}, "advisor@example.com")
	require.NoError(t, err)

	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.Equal(t, "advisor@example.com", task.CreatedBy)
	assert.Equal(t, svc.now().UTC(), task.CreatedAt)
	require.Len(t, store.created, 1)
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	svc := newTaskService(&stubTaskStore{})

	_, err := svc.Create(context.Background(), TaskRequest{Description: "no title"}, "advisor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateTaskRejectsUnknownPriority(t *testing.T) {
	svc := newTaskService(&stubTaskStore{})

	_, err := svc.Create(context.Background(), TaskRequest{Title: "Call Alice", Priority: "urgent"}, "advisor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateTaskMergesFields(t *testing.T) {
	store := &stubTaskStore{tasks: map[string]*models.Task{
		"t1": {ID: "t1", Title: "Call Alice", Status: "pending", Priority: "medium"},
	}}
	svc := newTaskService(store)

	task, err := svc.Update(context.Background(), "t1", TaskRequest{Status: "done"})
	require.NoError(t, err)

	assert.Equal(t, "done", task.Status)
	assert.Equal(t, "Call Alice", task.Title, "unset fields keep their values")
	require.Len(t, store.updated, 1)
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := newTaskService(&stubTaskStore{tasks: map[string]*models.Task{}})

	_, err := svc.Update(context.Background(), "missing", TaskRequest{Status: "done"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
