package store

import (
	"time"

	"tasklist/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TaskFilter narrows a task scan. Zero values mean "any". CreatedOn is
// matched against the UTC calendar day of the creation timestamp; Tag is
// matched in memory because tags live in a JSON column.
type TaskFilter struct {
	UserID    uuid.UUID
	Status    string
	Tag       string
	CreatedOn string // YYYY-MM-DD, UTC
}

func (f TaskFilter) Empty() bool {
	return f.UserID == uuid.Nil && f.Status == "" && f.Tag == "" && f.CreatedOn == ""
}

// TaskStore owns the canonical task records.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Insert(task *models.Task) error {
	return translate(s.db.Create(task).Error)
}

func (s *TaskStore) FindByID(id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := s.db.Where("id = ?", id).First(&task).Error
	return task, translate(err)
}

// Save replaces the stored record with the given one, document-store style.
func (s *TaskStore) Save(task *models.Task) error {
	result := s.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Select("user_id", "title", "description", "status", "tags", "comments", "updated_at").
		Updates(task)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every task, newest first.
func (s *TaskStore) All() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Order("created_at DESC").Find(&tasks).Error
	return tasks, translate(err)
}

// Find runs a filtered scan, newest first. Status, owner and creation-day
// filters push down to the database; the tag filter applies in memory.
func (s *TaskStore) Find(filter TaskFilter) ([]models.Task, error) {
	query := s.db.Order("created_at DESC")
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedOn != "" {
		day, err := time.Parse("2006-01-02", filter.CreatedOn)
		if err != nil {
			return nil, ErrInvalidDayFilter
		}
		query = query.Where("created_at >= ? AND created_at < ?", day, day.Add(24*time.Hour))
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}

	if filter.Tag == "" {
		return tasks, nil
	}
	matched := tasks[:0]
	for _, task := range tasks {
		if _, ok := task.TagSet()[filter.Tag]; ok {
			matched = append(matched, task)
		}
	}
	return matched, nil
}
