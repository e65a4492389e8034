package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crmdash/student-crm-api/internal/dto"
	"github.com/crmdash/student-crm-api/internal/models"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/export"
)

type exportStore interface {
	ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// defaultExportFields is the fixed column order used when the request carries
// no explicit projection.
var defaultExportFields = []string{
	"id", "name", "email", "phone", "grade", "country", "status",
	"high_intent", "needs_essay_help", "source",
	"created_at", "last_active", "last_contacted_at",
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	MaxRows int
}

// ExportService queries the store with the requested filters and serializes
// the result set into one downloadable encoding. All-or-nothing: a store
// failure fails the whole request, never a partial file.
type ExportService struct {
	store       exportStore
	serializers map[string]export.Serializer
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
	cfg         ExportServiceConfig
}

// NewExportService constructs an ExportService with the standard csv, json
// and xlsx serializers.
func NewExportService(store exportStore, metrics *MetricsService, logger *zap.Logger, cfg ExportServiceConfig) *ExportService {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 10000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store: store,
		serializers: map[string]export.Serializer{
			"csv":  export.NewCSVSerializer(),
			"json": export.NewJSONSerializer(),
			"xlsx": export.NewXLSXSerializer(),
		},
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Export renders the filtered record set as a downloadable file.
//
// Status, country and flag filters are AND-combined at the store; an empty
// dimension means no restriction. The creation-date range is applied after
// the fetch with inclusive bounds. Records sort by creation time descending.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportFile, error) {
	serializer, ok := s.serializers[req.Format]
	if !ok {
		return nil, appErrors.ErrInvalidFormat
	}

	filter := models.StudentFilter{
		Countries:      req.Countries,
		HighIntent:     req.HighIntent,
		NeedsEssayHelp: req.NeedsEssayHelp,
	}
	for _, raw := range req.Statuses {
		if !models.ValidStatus(raw) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
		}
		filter.Statuses = append(filter.Statuses, models.StudentStatus(raw))
	}

	students, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, "EXPORT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to fetch students for export")
	}
	students = filterByCreatedRange(students, req.CreatedFrom, req.CreatedTo)
	if len(students) > s.cfg.MaxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export exceeds the maximum row count")
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = defaultExportFields
	}

	dataset := export.Dataset{Fields: fields, Rows: make([]map[string]interface{}, 0, len(students))}
	for _, student := range students {
		row := make(map[string]interface{}, len(fields))
		for _, field := range fields {
			row[field] = studentFieldValue(student, field)
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	payload, err := serializer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, "EXPORT_RENDER_FAILED", appErrors.ErrInternal.Status, "failed to render export")
	}

	if s.metrics != nil {
		s.metrics.RecordExport(req.Format)
	}
	return &dto.ExportFile{
		Data:        payload,
		ContentType: serializer.ContentType(),
		Filename:    fmt.Sprintf("students_export_%s.%s", s.now().UTC().Format("2006-01-02"), serializer.Extension()),
	}, nil
}

// filterByCreatedRange keeps students whose creation time falls inside the
// inclusive bounds. A nil bound leaves that side open.
func filterByCreatedRange(students []models.Student, from, to *time.Time) []models.Student {
	if from == nil && to == nil {
		return students
	}
	kept := make([]models.Student, 0, len(students))
	for _, student := range students {
		if from != nil && student.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && student.CreatedAt.After(*to) {
			continue
		}
		kept = append(kept, student)
	}
	return kept
}

// studentFieldValue projects one field for serialization. Timestamps render
// as RFC 3339 text; absent optionals render as nil so each serializer
// chooses its own empty representation.
func studentFieldValue(student models.Student, field string) interface{} {
	switch field {
	case "id":
		return student.ID
	case "name":
		return student.Name
	case "email":
		return student.Email
	case "phone":
		return optionalString(student.Phone)
	case "grade":
		return optionalString(student.Grade)
	case "country":
		return student.Country
	case "status":
		return string(student.Status)
	case "high_intent":
		return student.HighIntent
	case "needs_essay_help":
		return student.NeedsEssayHelp
	case "source":
		return optionalString(student.Source)
	case "created_at":
		return student.CreatedAt.UTC().Format(time.RFC3339)
	case "last_active":
		return student.LastActive.UTC().Format(time.RFC3339)
	case "last_contacted_at":
		if student.LastContactedAt == nil {
			return nil
		}
		return student.LastContactedAt.UTC().Format(time.RFC3339)
	default:
		return nil
	}
}

func optionalString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
