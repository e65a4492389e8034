package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/crmdash/student-crm-api/internal/models"
	apperrors "github.com/crmdash/student-crm-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func buildFilter(filter models.StudentFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(statuses))
	}
	if len(filter.Countries) > 0 {
		conditions = append(conditions, fmt.Sprintf("country = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.Countries))
	}
	if filter.HighIntent != nil {
		conditions = append(conditions, fmt.Sprintf("high_intent = $%d", len(args)+1))
		args = append(args, *filter.HighIntent)
	}
	if filter.NeedsEssayHelp != nil {
		conditions = append(conditions, fmt.Sprintf("needs_essay_help = $%d", len(args)+1))
		args = append(args, *filter.NeedsEssayHelp)
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.CreatedTo)
	}
	return strings.Join(conditions, " AND "), args
}

const studentColumns = "id, name, email, phone, grade, country, status, high_intent, needs_essay_help, source, additional_data, created_at, last_active, last_contacted_at"

// List returns students matching the provided filters along with the total
// count before pagination.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where, args := buildFilter(filter)

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":        "name",
		"email":       "email",
		"country":     "country",
		"status":      "status",
		"created_at":  "created_at",
		"last_active": "last_active",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d",
		studentColumns, where, column, order, size, offset)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListAll returns every student matching the filter without pagination,
// ordered by creation time descending. Export and analytics paths use this.
func (r *StudentRepository) ListAll(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	where, args := buildFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY created_at DESC", studentColumns, where)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// ExistsByEmail checks whether a student with the exact email exists,
// optionally excluding an ID. The comparison is byte-exact, not folded.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE email = $1"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new student. A unique index on email backs the duplicate
// check, so concurrent inserts of the same address surface as
// ErrDuplicateEmail instead of a second row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	if student.LastActive.IsZero() {
		student.LastActive = student.CreatedAt
	}
	const query = `INSERT INTO students (id, name, email, phone, grade, country, status, high_intent, needs_essay_help, source, additional_data, created_at, last_active, last_contacted_at)
        VALUES (:id, :name, :email, :phone, :grade, :country, :status, :high_intent, :needs_essay_help, :source, :additional_data, :created_at, :last_active, :last_contacted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET name = :name, email = :email, phone = :phone, grade = :grade, country = :country, status = :status,
        high_intent = :high_intent, needs_essay_help = :needs_essay_help, source = :source, additional_data = :additional_data,
        last_active = :last_active, last_contacted_at = :last_contacted_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("update student: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a student and its timeline entries.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TouchLastContacted advances last_contacted_at to ts. Earlier timestamps are
// ignored so out-of-order communication logging never rewinds the marker.
func (r *StudentRepository) TouchLastContacted(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE students SET last_contacted_at = $2, last_active = $2
        WHERE id = $1 AND (last_contacted_at IS NULL OR last_contacted_at < $2)`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("touch last contacted: %w", err)
	}
	return nil
}

// Search returns students whose name or email contains the query,
// case-insensitively, capped at limit.
func (r *StudentRepository) Search(ctx context.Context, q string, limit int) ([]models.Student, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM students
        WHERE LOWER(name) LIKE $1 OR LOWER(email) LIKE $1
        ORDER BY created_at DESC LIMIT %d`, studentColumns, limit)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, "%"+strings.ToLower(q)+"%"); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return students, nil
}
