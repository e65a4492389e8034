package models

import "time"

// TimelineEventType discriminates entries on a student's activity timeline.
type TimelineEventType string

const (
	EventNote          TimelineEventType = "note"
	EventCommunication TimelineEventType = "communication"
	EventInteraction   TimelineEventType = "interaction"
)

// TimelineEvent is a dated entry attached to one student. Note, communication
// and interaction payloads share the table; unused columns stay null.
type TimelineEvent struct {
	ID                string            `db:"id" json:"id"`
	StudentID         string            `db:"student_id" json:"student_id"`
	Type              TimelineEventType `db:"type" json:"type"`
	Title             *string           `db:"title" json:"title,omitempty"`
	Subject           *string           `db:"subject" json:"subject,omitempty"`
	Content           string            `db:"content" json:"content"`
	CommunicationType *string           `db:"communication_type" json:"communication_type,omitempty"`
	Direction         *string           `db:"direction" json:"direction,omitempty"`
	Status            *string           `db:"status" json:"status,omitempty"`
	IsPrivate         *bool             `db:"is_private" json:"is_private,omitempty"`
	InteractionType   *string           `db:"interaction_type" json:"interaction_type,omitempty"`
	Outcome           *string           `db:"outcome" json:"outcome,omitempty"`
	FollowUpRequired  *bool             `db:"follow_up_required" json:"follow_up_required,omitempty"`
	FollowUpDate      *time.Time        `db:"follow_up_date" json:"follow_up_date,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	CreatedBy         string            `db:"created_by" json:"created_by"`
}

// Task is a standalone follow-up item, optionally linked to a student.
type Task struct {
	ID          string     `db:"id" json:"id"`
	StudentID   *string    `db:"student_id" json:"student_id,omitempty"`
	StudentName *string    `db:"student_name" json:"student_name,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *string    `db:"due_date" json:"due_date,omitempty"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Reminder is a dated prompt surfaced on the dashboard.
type Reminder struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	ReminderDate time.Time `db:"reminder_date" json:"reminder_date"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
}
