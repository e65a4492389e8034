package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
)

type importStore interface {
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// ImportServiceConfig tunes import behaviour.
type ImportServiceConfig struct {
	MaxBatchSize int
}

// ImportService reconciles batches of candidate records: validate, check for
// duplicates, write accepted rows, and report a per-row breakdown. One bad
// row never blocks the rest of the batch; partial success is the normal
// outcome, not an error state.
type ImportService struct {
	store     importStore
	validator *Validator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	cfg       ImportServiceConfig
}

// NewImportService constructs an ImportService.
func NewImportService(store importStore, validator *Validator, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg ImportServiceConfig) *ImportService {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = NewValidator()
	}
	return &ImportService{
		store:     store,
		validator: validator,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Import processes candidates in input order. Row numbers are 1-based.
//
// With validateOnly set, a row counts as imported when it would pass
// validation; no store access happens, so duplicates are not detected and
// the count can overstate how many rows a real import would accept.
func (s *ImportService) Import(ctx context.Context, candidates []Candidate, validateOnly bool) (*dto.ImportResult, error) {
	if len(candidates) > s.cfg.MaxBatchSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import batch exceeds maximum size")
	}

	result := &dto.ImportResult{
		Errors:   []dto.ImportRowError{},
		Warnings: []dto.ImportRowWarning{},
	}
	summary := &result.Summary
	summary.Total = len(candidates)

	for i, candidate := range candidates {
		row := i + 1
		email := stringOr(candidate, "email")

		outcome := s.validator.Validate(candidate)
		if !outcome.Valid {
			result.Failed++
			summary.ValidationErrors++
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:   row,
				Email: email,
				Error: strings.Join(outcome.Errors, ", "),
			})
			continue
		}
		if len(outcome.Warnings) > 0 {
			result.Warnings = append(result.Warnings, dto.ImportRowWarning{
				Row:      row,
				Email:    email,
				Warnings: outcome.Warnings,
			})
		}
		if validateOnly {
			result.Imported++
			continue
		}

		switch s.importRow(ctx, candidate, email) {
		case rowImported:
			result.Imported++
		case rowDuplicate:
			result.Failed++
			summary.DuplicateErrors++
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:   row,
				Email: email,
				Error: "student with this email already exists",
			})
		case rowStoreError:
			result.Failed++
			summary.OtherErrors++
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:   row,
				Email: email,
				Error: "failed to save student record",
			})
		}
	}

	result.Success = result.Imported > 0
	summary.Imported = result.Imported
	summary.Skipped = summary.DuplicateErrors

	if s.metrics != nil {
		s.metrics.RecordImportRows("imported", result.Imported)
		s.metrics.RecordImportRows("validation_error", summary.ValidationErrors)
		s.metrics.RecordImportRows("duplicate", summary.DuplicateErrors)
		s.metrics.RecordImportRows("store_error", summary.OtherErrors)
	}
	if !validateOnly && result.Imported > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
			s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
		}
	}
	return result, nil
}

type rowOutcome int

const (
	rowImported rowOutcome = iota
	rowDuplicate
	rowStoreError
)

// importRow runs the duplicate check and write for one valid candidate. The
// check and the write are two separate store calls with no transaction
// between them; the unique index on email closes the gap, surfacing a racing
// insert as ErrDuplicateEmail.
func (s *ImportService) importRow(ctx context.Context, candidate Candidate, email string) rowOutcome {
	exists, err := s.store.ExistsByEmail(ctx, email, "")
	if err != nil {
		s.logger.Warn("duplicate check failed", zap.String("email", email), zap.Error(err))
		return rowStoreError
	}
	if exists {
		return rowDuplicate
	}

	student := CandidateStudent(candidate)
	now := s.now().UTC()
	student.CreatedAt = now
	student.LastActive = now
	student.LastContactedAt = nil

	if err := s.store.Create(ctx, &student); err != nil {
		if errors.Is(err, appErrors.ErrDuplicateEmail) {
			return rowDuplicate
		}
		s.logger.Warn("student create failed", zap.String("email", email), zap.Error(err))
		return rowStoreError
	}
	return rowImported
}
