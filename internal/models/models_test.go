package models_test

import (
	"errors"
	"testing"
	"time"

	"tasklist/backend/internal/models"

	"github.com/gofrs/uuid"
)

func TestTask_Validate(t *testing.T) {
	task := models.Task{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    uuid.Must(uuid.NewV4()),
		Title:     "Test Task",
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := task.Validate(); err != nil {
		t.Errorf("Expected valid task, got %v", err)
	}
}

func TestTask_Validate_InvalidStatus(t *testing.T) {
	task := models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: uuid.Must(uuid.NewV4()),
		Title:  "Test Task",
		Status: "paused",
	}

	if err := task.Validate(); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range models.Statuses {
		if !models.ValidStatus(status) {
			t.Errorf("Expected %q to be valid", status)
		}
	}
	if models.ValidStatus("") {
		t.Error("Expected empty status to be invalid")
	}
	if models.ValidStatus("done") {
		t.Error("Expected unknown status to be invalid")
	}
}

func TestTask_TagSet(t *testing.T) {
	task := models.Task{Tags: []string{"home", "urgent", "home"}}

	set := task.TagSet()
	if len(set) != 2 {
		t.Errorf("Expected 2 distinct tags, got %d", len(set))
	}
	if _, ok := set["urgent"]; !ok {
		t.Error("Expected 'urgent' in tag set")
	}
}

func TestTask_HasComment(t *testing.T) {
	commentID := uuid.Must(uuid.NewV4())
	task := models.Task{
		Comments: []models.Comment{{
			ID:        commentID,
			AuthorID:  uuid.Must(uuid.NewV4()),
			Text:      "note",
			CreatedAt: time.Now(),
		}},
	}

	if !task.HasComment(commentID) {
		t.Error("Expected comment to be found")
	}
	if task.HasComment(uuid.Must(uuid.NewV4())) {
		t.Error("Expected unknown comment id to be absent")
	}
}
