package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type stubStudentStore struct {
	students  []models.Student
	byID      map[string]*models.Student
	existing  map[string]bool
	existsErr error
	created   []models.Student
	updated   []models.Student
	deleted   []string
}

func (s *stubStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return s.students, len(s.students), nil
}

func (s *stubStudentStore) ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	return s.students, nil
}

func (s *stubStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := s.byID[id]; ok {
		return student, nil
	}
	return nil, appErrors.ErrNotFound
}

func (s *stubStudentStore) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[email], nil
}

func (s *stubStudentStore) Create(ctx context.Context, student *models.Student) error {
	student.ID = "generated"
	s.created = append(s.created, *student)
	return nil
}

func (s *stubStudentStore) Update(ctx context.Context, student *models.Student) error {
	s.updated = append(s.updated, *student)
	return nil
}

func (s *stubStudentStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newStudentService(store *stubStudentStore) *StudentService {
	if store.existing == nil {
		store.existing = map[string]bool{}
	}
	svc := NewStudentService(store, NewValidator(), nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestStudentCreate(t *testing.T) {
	store := &stubStudentStore{}
	svc := newStudentService(store)

	student, err := svc.Create(context.Background(), Candidate{
		"name": "Alice Smith", "email": "alice@example.com", "country": "USA", "status": "Applying",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", student.ID)
	assert.Equal(t, models.StatusApplying, student.Status)
	assert.Equal(t, svc.now(), student.CreatedAt)
	assert.Nil(t, student.LastContactedAt)
}

func TestStudentCreateRejectsInvalid(t *testing.T) {
	store := &stubStudentStore{}
	svc := newStudentService(store)

	_, err := svc.Create(context.Background(), Candidate{"name": "A", "email": "bad", "country": "", "status": ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.created)
}

func TestStudentCreateDuplicate(t *testing.T) {
	store := &stubStudentStore{existing: map[string]bool{"alice@example.com": true}}
	svc := newStudentService(store)

	_, err := svc.Create(context.Background(), Candidate{
		"name": "Alice Smith", "email": "alice@example.com", "country": "USA", "status": "Exploring",
	})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestStudentRegisterDefaultsStatus(t *testing.T) {
	store := &stubStudentStore{}
	svc := newStudentService(store)

	student, err := svc.Register(context.Background(), Candidate{
		"name": "Alice Smith", "email": "alice@example.com", "country": "USA",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusExploring, student.Status)
}

func TestStudentUpdateKeepsTimestamps(t *testing.T) {
	contacted := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Student{
		ID: "s1", Name: "Alice Smith", Email: "alice@example.com", Country: "USA",
		Status:          models.StatusExploring,
		CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastContactedAt: &contacted,
	}
	store := &stubStudentStore{byID: map[string]*models.Student{"s1": existing}}
	svc := newStudentService(store)

	updated, err := svc.Update(context.Background(), "s1", Candidate{"status": "Applying"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusApplying, updated.Status)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.Equal(t, existing.LastContactedAt, updated.LastContactedAt)
	assert.Equal(t, svc.now(), updated.LastActive)
	assert.Equal(t, "alice@example.com", updated.Email, "unchanged fields survive partial updates")
}

func TestStudentUpdateNotFound(t *testing.T) {
	store := &stubStudentStore{byID: map[string]*models.Student{}}
	svc := newStudentService(store)

	_, err := svc.Update(context.Background(), "missing", Candidate{"name": "Alice Smith"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestValidateLiveDuplicateIsError(t *testing.T) {
	store := &stubStudentStore{existing: map[string]bool{"alice@example.com": true}}
	svc := newStudentService(store)

	outcome := svc.ValidateLive(context.Background(), Candidate{
		"name": "Alice Smith", "email": "alice@example.com", "country": "USA", "status": "Exploring",
	})
	assert.False(t, outcome.Valid)
	assert.Contains(t, outcome.Errors, "student with this email already exists")
}

func TestValidateLiveStoreFailureDowngradesToWarning(t *testing.T) {
	store := &stubStudentStore{existsErr: errors.New("store down")}
	svc := newStudentService(store)

	outcome := svc.ValidateLive(context.Background(), Candidate{
		"name": "Alice Smith", "email": "alice@example.com", "country": "USA", "status": "Exploring",
	})
	assert.True(t, outcome.Valid)
	assert.Contains(t, outcome.Warnings, "could not verify email uniqueness")
}

func TestStudentSearch(t *testing.T) {
	contacted := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	store := &stubStudentStore{students: []models.Student{
		{ID: "s1", Name: "Alice Smith", Email: "alice@example.com", Country: "USA", Status: models.StatusExploring, HighIntent: true, LastContactedAt: &contacted},
		{ID: "s2", Name: "Bob Jones", Email: "bob@example.com", Country: "India", Status: models.StatusApplying},
		{ID: "s3", Name: "Alice Wang", Email: "wang@example.com", Country: "China", Status: models.StatusExploring},
	}}
	svc := newStudentService(store)

	resp, err := svc.Search(context.Background(), dto.SearchRequest{Query: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.Search(context.Background(), dto.SearchRequest{Query: "alice", HighIntentOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "s1", resp.Students[0].ID)

	// Recently contacted students drop out of the stale filter.
	resp, err = svc.Search(context.Background(), dto.SearchRequest{NotContacted7Days: true})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestStudentSearchPagination(t *testing.T) {
	store := &stubStudentStore{students: []models.Student{
		{ID: "s1", Name: "Alice", Email: "a@example.com", Country: "USA"},
		{ID: "s2", Name: "Bob", Email: "b@example.com", Country: "USA"},
		{ID: "s3", Name: "Carol", Email: "c@example.com", Country: "USA"},
	}}
	svc := newStudentService(store)

	resp, err := svc.Search(context.Background(), dto.SearchRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Students, 2)
	assert.True(t, resp.HasMore)

	resp, err = svc.Search(context.Background(), dto.SearchRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Students, 1)
	assert.False(t, resp.HasMore)
}
