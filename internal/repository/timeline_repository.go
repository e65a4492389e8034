package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crmdash/student-crm-api/internal/models"
)

// TimelineRepository persists notes, communications and interactions on
// student timelines.
type TimelineRepository struct {
	db *sqlx.DB
}

// NewTimelineRepository constructs a TimelineRepository.
func NewTimelineRepository(db *sqlx.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// ListByStudent returns a student's timeline newest first, optionally
// restricted to one event type.
func (r *TimelineRepository) ListByStudent(ctx context.Context, studentID string, eventType models.TimelineEventType) ([]models.TimelineEvent, error) {
	query := `SELECT id, student_id, type, title, subject, content, communication_type, direction, status, is_private, interaction_type, outcome, follow_up_required, follow_up_date, created_at, created_by
        FROM timeline_events WHERE student_id = $1`
	args := []interface{}{studentID}
	if eventType != "" {
		query += " AND type = $2"
		args = append(args, eventType)
	}
	query += " ORDER BY created_at DESC"

	events := []models.TimelineEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	return events, nil
}

// Create inserts a timeline event.
func (r *TimelineRepository) Create(ctx context.Context, event *models.TimelineEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timeline_events (id, student_id, type, title, subject, content, communication_type, direction, status, is_private, interaction_type, outcome, follow_up_required, follow_up_date, created_at, created_by)
        VALUES (:id, :student_id, :type, :title, :subject, :content, :communication_type, :direction, :status, :is_private, :interaction_type, :outcome, :follow_up_required, :follow_up_date, :created_at, :created_by)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create timeline event: %w", err)
	}
	return nil
}

// CountByType returns the number of events of one type recorded since cutoff.
func (r *TimelineRepository) CountByType(ctx context.Context, eventType models.TimelineEventType, since time.Time) (int, error) {
	const query = "SELECT COUNT(*) FROM timeline_events WHERE type = $1 AND created_at >= $2"
	var count int
	if err := r.db.GetContext(ctx, &count, query, eventType, since); err != nil {
		return 0, fmt.Errorf("count timeline events: %w", err)
	}
	return count, nil
}

// CountContactedStudents returns how many distinct students have at least one
// communication event on their timeline.
func (r *TimelineRepository) CountContactedStudents(ctx context.Context) (int, error) {
	const query = "SELECT COUNT(DISTINCT student_id) FROM timeline_events WHERE type = $1"
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.EventCommunication); err != nil {
		return 0, fmt.Errorf("count contacted students: %w", err)
	}
	return count, nil
}
