package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type studentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService owns single-record operations: CRUD, lightweight
// registration, live validation, and roster search.
type StudentService struct {
	store     studentStore
	validator *Validator
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService.
func NewStudentService(store studentStore, validator *Validator, cache *CacheService, logger *zap.Logger) *StudentService {
	if validator == nil {
		validator = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		store:     store,
		validator: validator,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns a page of students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, "STUDENT_LIST_FAILED", appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	return s.store.FindByID(ctx, id)
}

// Create validates and persists a new student. A candidate failing
// validation is rejected wholesale with the joined messages.
func (s *StudentService) Create(ctx context.Context, candidate Candidate) (*models.Student, error) {
	outcome := s.validator.Validate(candidate)
	if !outcome.Valid {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(outcome.Errors, ", "))
	}

	email := stringOr(candidate, "email")
	exists, err := s.store.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, "STUDENT_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to check for duplicate email")
	}
	if exists {
		return nil, appErrors.ErrDuplicateEmail
	}

	student := CandidateStudent(candidate)
	now := s.now().UTC()
	student.CreatedAt = now
	student.LastActive = now
	if err := s.store.Create(ctx, &student); err != nil {
		return nil, err
	}
	s.invalidateAggregates(ctx)
	return &student, nil
}

// Register is the lightweight public signup path. Status defaults to
// Exploring when absent, which is not an error here.
func (s *StudentService) Register(ctx context.Context, candidate Candidate) (*models.Student, error) {
	if _, ok := candidate["status"]; !ok {
		candidate["status"] = string(models.StatusExploring)
	}
	return s.Create(ctx, candidate)
}

// Update applies profile changes to an existing student and bumps
// last_active.
func (s *StudentService) Update(ctx context.Context, id string, candidate Candidate) (*models.Student, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := candidateOverExisting(candidate, existing)
	outcome := s.validator.Validate(merged)
	if !outcome.Valid {
		return nil, appErrors.Clone(appErrors.ErrValidation, strings.Join(outcome.Errors, ", "))
	}

	email := stringOr(merged, "email")
	if email != existing.Email {
		exists, err := s.store.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, "STUDENT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to check for duplicate email")
		}
		if exists {
			return nil, appErrors.ErrDuplicateEmail
		}
	}

	updated := CandidateStudent(merged)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.LastContactedAt = existing.LastContactedAt
	updated.AdditionalData = existing.AdditionalData
	updated.LastActive = s.now().UTC()
	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.invalidateAggregates(ctx)
	return &updated, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateAggregates(ctx)
	return nil
}

// ValidateLive runs the Validator and adds a store duplicate check for the
// live form path. A store failure downgrades the duplicate check to a
// warning instead of failing the request.
func (s *StudentService) ValidateLive(ctx context.Context, candidate Candidate) dto.ValidationOutcome {
	outcome := s.validator.Validate(candidate)

	email := stringOr(candidate, "email")
	if email == "" {
		return outcome
	}
	exists, err := s.store.ExistsByEmail(ctx, email, "")
	if err != nil {
		s.logger.Warn("live duplicate check failed", zap.Error(err))
		outcome.Warnings = append(outcome.Warnings, "could not verify email uniqueness")
		return outcome
	}
	if exists {
		outcome.Valid = false
		outcome.Errors = append(outcome.Errors, "student with this email already exists")
	}
	return outcome
}

// Search performs substring matching over name, email and country with the
// roster-level filters applied in memory.
func (s *StudentService) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	filter := models.StudentFilter{}
	if req.StatusFilter != "" {
		if !models.ValidStatus(req.StatusFilter) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
		filter.Statuses = []models.StudentStatus{models.StudentStatus(req.StatusFilter)}
	}

	students, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, "STUDENT_SEARCH_FAILED", appErrors.ErrInternal.Status, "failed to search students")
	}

	now := s.now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	query := strings.ToLower(strings.TrimSpace(req.Query))
	country := strings.ToLower(strings.TrimSpace(req.CountryFilter))

	matched := []models.Student{}
	for _, student := range students {
		if query != "" && !matchesQuery(student, query) {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(student.Country), country) {
			continue
		}
		if req.HighIntentOnly && !student.HighIntent {
			continue
		}
		if req.NeedsEssayHelpOnly && !student.NeedsEssayHelp {
			continue
		}
		if req.NotContacted7Days {
			if student.LastContactedAt != nil && !student.LastContactedAt.Before(weekAgo) {
				continue
			}
		}
		matched = append(matched, student)
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	total := len(matched)
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	return &dto.SearchResponse{
		Students: matched[offset:end],
		Total:    total,
		Page:     offset/limit + 1,
		Limit:    limit,
		HasMore:  end < total,
	}, nil
}

func matchesQuery(student models.Student, query string) bool {
	return strings.Contains(strings.ToLower(student.Name), query) ||
		strings.Contains(strings.ToLower(student.Email), query) ||
		strings.Contains(strings.ToLower(student.Country), query)
}

// candidateOverExisting overlays submitted fields onto the stored record so
// partial updates validate as a whole.
func candidateOverExisting(candidate Candidate, existing *models.Student) Candidate {
	merged := Candidate{
		"name":             existing.Name,
		"email":            existing.Email,
		"country":          existing.Country,
		"status":           string(existing.Status),
		"high_intent":      existing.HighIntent,
		"needs_essay_help": existing.NeedsEssayHelp,
	}
	if existing.Phone != nil {
		merged["phone"] = *existing.Phone
	}
	if existing.Grade != nil {
		merged["grade"] = *existing.Grade
	}
	if existing.Source != nil {
		merged["source"] = *existing.Source
	}
	for key, value := range candidate {
		if _, ok := recognizedFields[key]; ok {
			merged[key] = value
		}
	}
	return merged
}

func (s *StudentService) invalidateAggregates(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
