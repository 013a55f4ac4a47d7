package models

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

var ErrInvalidStatus = errors.New("status must be one of pending, in_progress, completed")

// Statuses lists the legal task statuses in display order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// Task is the canonical task record. Tags and comments are stored as JSON
// columns so the row behaves like a single document: updates replace the
// whole record.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"not null;default:'pending'"`
	Tags        []string  `json:"tags" gorm:"serializer:json"`
	Comments    []Comment `json:"comments" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TagSet returns the task's tags as a set, dropping duplicates.
func (t *Task) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		set[tag] = struct{}{}
	}
	return set
}

// HasComment reports whether a comment with the given id already exists on
// the task.
func (t *Task) HasComment(id uuid.UUID) bool {
	for _, c := range t.Comments {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (t *Task) Validate() error {
	if !ValidStatus(t.Status) {
		return ErrInvalidStatus
	}
	if t.Title == "" {
		return errors.New("title is required")
	}
	if t.UserID == uuid.Nil {
		return errors.New("owner user id is required")
	}
	return nil
}
