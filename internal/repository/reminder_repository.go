package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crmdash/student-crm-api/internal/models"
	apperrors "github.com/crmdash/student-crm-api/pkg/errors"
)

// ReminderRepository persists dashboard reminders.
type ReminderRepository struct {
	db *sqlx.DB
}

// NewReminderRepository constructs a ReminderRepository.
func NewReminderRepository(db *sqlx.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// List returns reminders ordered by their due date ascending.
func (r *ReminderRepository) List(ctx context.Context, status string) ([]models.Reminder, error) {
	query := `SELECT id, title, description, reminder_date, status, created_at, created_by FROM reminders`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY reminder_date ASC"

	reminders := []models.Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// ListPendingInRange returns pending reminders due between from and to.
func (r *ReminderRepository) ListPendingInRange(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	const query = `SELECT id, title, description, reminder_date, status, created_at, created_by
        FROM reminders WHERE status = 'pending' AND reminder_date >= $1 AND reminder_date < $2
        ORDER BY reminder_date ASC`

	reminders := []models.Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, from, to); err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	return reminders, nil
}

// CountPendingBefore returns how many pending reminders are overdue at cutoff.
func (r *ReminderRepository) CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM reminders WHERE status = 'pending' AND reminder_date < $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, cutoff); err != nil {
		return 0, fmt.Errorf("count overdue reminders: %w", err)
	}
	return count, nil
}

// Create inserts a reminder.
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reminders (id, title, description, reminder_date, status, created_at, created_by)
        VALUES (:id, :title, :description, :reminder_date, :status, :created_at, :created_by)`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

// UpdateStatus marks a reminder done or pending.
func (r *ReminderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE reminders SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update reminder status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reminder status: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a reminder.
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
