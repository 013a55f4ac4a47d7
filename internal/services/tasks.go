package services

import (
	"errors"
	"time"

	"tasklist/backend/internal/metrics"
	"tasklist/backend/internal/models"
	"tasklist/backend/internal/store"

	"github.com/gofrs/uuid"
)

var (
	// ErrPermissionDenied means the requester is not the task's owner.
	ErrPermissionDenied = errors.New("requester is not the task owner")
	// ErrInvalidReference means a task or comment references a user that
	// does not exist.
	ErrInvalidReference = errors.New("referenced user does not exist")
	// ErrTagNotFound means a replace-tag request named a tag the task
	// does not carry.
	ErrTagNotFound = errors.New("tag not found on task")
)

type CreateTaskInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Status      string
	Tags        []string
	Comments    []CommentInput
}

// CommentInput is a comment as submitted by a client. A nil ID (or an ID
// the task does not recognize) makes it a new comment.
type CommentInput struct {
	ID       *uuid.UUID
	AuthorID uuid.UUID
	Text     string
}

// TaskUpdate carries the accepted new field values of an update request.
// Nil fields are left as they are.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Tags        *[]string
	Comments    *[]CommentInput
}

type TaskService interface {
	CreateTask(input CreateTaskInput) (models.Task, error)
	GetTask(id uuid.UUID) (models.Task, error)
	ListTasks() ([]models.Task, error)
	SearchTasks(filter store.TaskFilter) ([]models.Task, error)
	UpdateTask(requesterID, taskID uuid.UUID, update TaskUpdate) (models.Task, error)
	DeleteTask(requesterID, taskID uuid.UUID) error
	AddComment(requesterID, taskID uuid.UUID, text string) (models.Task, error)
	AddTag(requesterID, taskID uuid.UUID, tag string) (models.Task, error)
	ReplaceTag(requesterID, taskID uuid.UUID, oldTag, newTag string) (models.Task, error)
	RecomputeMetrics() error
}

// TaskServiceImpl sequences every mutation the same way: read the current
// record, check ownership, write the new record, then hand the observed
// old/new pair to the metrics engine. Counter deltas are always derived
// from the actual transition, never from what the caller claimed changed.
type TaskServiceImpl struct {
	tasks  *store.TaskStore
	users  *store.UserStore
	engine *metrics.Engine
}

func NewTaskService(tasks *store.TaskStore, users *store.UserStore, engine *metrics.Engine) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, users: users, engine: engine}
}

func (s *TaskServiceImpl) CreateTask(input CreateTaskInput) (models.Task, error) {
	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if !models.ValidStatus(input.Status) {
		return models.Task{}, models.ErrInvalidStatus
	}
	if err := s.requireUser(input.OwnerID); err != nil {
		return models.Task{}, err
	}

	now := time.Now().UTC()
	comments := make([]models.Comment, 0, len(input.Comments))
	for _, in := range input.Comments {
		if err := s.requireUser(in.AuthorID); err != nil {
			return models.Task{}, err
		}
		comments = append(comments, models.Comment{
			ID:        uuid.Must(uuid.NewV4()),
			AuthorID:  in.AuthorID,
			Text:      in.Text,
			CreatedAt: now,
		})
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Tags:        input.Tags,
		Comments:    comments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := s.tasks.Insert(&task); err != nil {
		return models.Task{}, err
	}

	s.engine.OnTaskCreated(&task)
	return task, nil
}

func (s *TaskServiceImpl) GetTask(id uuid.UUID) (models.Task, error) {
	return s.tasks.FindByID(id)
}

func (s *TaskServiceImpl) ListTasks() ([]models.Task, error) {
	return s.tasks.All()
}

func (s *TaskServiceImpl) SearchTasks(filter store.TaskFilter) ([]models.Task, error) {
	return s.tasks.Find(filter)
}

func (s *TaskServiceImpl) UpdateTask(requesterID, taskID uuid.UUID, update TaskUpdate) (models.Task, error) {
	old, err := s.fetchOwned(requesterID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	updated := old
	if update.Title != nil {
		updated.Title = *update.Title
	}
	if update.Description != nil {
		updated.Description = *update.Description
	}
	if update.Status != nil {
		if !models.ValidStatus(*update.Status) {
			return models.Task{}, models.ErrInvalidStatus
		}
		updated.Status = *update.Status
	}
	if update.Tags != nil {
		updated.Tags = *update.Tags
	}
	if update.Comments != nil {
		comments, err := s.reconcileComments(&old, *update.Comments)
		if err != nil {
			return models.Task{}, err
		}
		updated.Comments = comments
	}

	return s.persistUpdate(&old, &updated)
}

func (s *TaskServiceImpl) DeleteTask(requesterID, taskID uuid.UUID) error {
	task, err := s.fetchOwned(requesterID, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(task.ID); err != nil {
		return err
	}
	s.engine.OnTaskDeleted(&task)
	return nil
}

func (s *TaskServiceImpl) AddComment(requesterID, taskID uuid.UUID, text string) (models.Task, error) {
	old, err := s.fetchOwned(requesterID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	updated := old
	updated.Comments = append(append([]models.Comment{}, old.Comments...), models.Comment{
		ID:        uuid.Must(uuid.NewV4()),
		AuthorID:  requesterID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})

	return s.persistUpdate(&old, &updated)
}

// AddTag adds a tag to the task's set; adding a tag the task already has
// is a no-op.
func (s *TaskServiceImpl) AddTag(requesterID, taskID uuid.UUID, tag string) (models.Task, error) {
	old, err := s.fetchOwned(requesterID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	updated := old
	if _, present := old.TagSet()[tag]; !present {
		updated.Tags = append(append([]string{}, old.Tags...), tag)
	}

	return s.persistUpdate(&old, &updated)
}

// ReplaceTag swaps oldTag for newTag on the task's tag set.
func (s *TaskServiceImpl) ReplaceTag(requesterID, taskID uuid.UUID, oldTag, newTag string) (models.Task, error) {
	old, err := s.fetchOwned(requesterID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if _, present := old.TagSet()[oldTag]; !present {
		return models.Task{}, ErrTagNotFound
	}

	updated := old
	tags := make([]string, 0, len(old.Tags))
	kept := false
	for _, tag := range old.Tags {
		if tag != oldTag {
			tags = append(tags, tag)
			if tag == newTag {
				kept = true
			}
		}
	}
	// Presence is checked against the rebuilt slice, not the old set, so
	// replacing a tag with itself keeps it.
	if !kept {
		tags = append(tags, newTag)
	}
	updated.Tags = tags

	return s.persistUpdate(&old, &updated)
}

// RecomputeMetrics rebuilds every counter from the canonical task set.
// Invocations are expected to be serialized by the caller (the maintenance
// worker runs them one at a time).
func (s *TaskServiceImpl) RecomputeMetrics() error {
	return s.engine.Recompute(s.tasks)
}

// fetchOwned loads the task and enforces ownership before anything is
// written anywhere.
func (s *TaskServiceImpl) fetchOwned(requesterID, taskID uuid.UUID) (models.Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.UserID != requesterID {
		return models.Task{}, ErrPermissionDenied
	}
	return task, nil
}

func (s *TaskServiceImpl) persistUpdate(old, updated *models.Task) (models.Task, error) {
	updated.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Save(updated); err != nil {
		return models.Task{}, err
	}
	s.engine.OnTaskUpdated(old, updated)
	return *updated, nil
}

// reconcileComments merges a resubmitted comment list against the stored
// one. A comment whose id matches an existing comment keeps that id and its
// original timestamp; anything else is treated as new and gets a fresh id
// and the current time.
func (s *TaskServiceImpl) reconcileComments(old *models.Task, inputs []CommentInput) ([]models.Comment, error) {
	existing := make(map[uuid.UUID]models.Comment, len(old.Comments))
	for _, c := range old.Comments {
		existing[c.ID] = c
	}

	now := time.Now().UTC()
	comments := make([]models.Comment, 0, len(inputs))
	for _, in := range inputs {
		if err := s.requireUser(in.AuthorID); err != nil {
			return nil, err
		}
		if in.ID != nil {
			if prior, known := existing[*in.ID]; known {
				comments = append(comments, models.Comment{
					ID:        prior.ID,
					AuthorID:  in.AuthorID,
					Text:      in.Text,
					CreatedAt: prior.CreatedAt,
				})
				continue
			}
		}
		comments = append(comments, models.Comment{
			ID:        uuid.Must(uuid.NewV4()),
			AuthorID:  in.AuthorID,
			Text:      in.Text,
			CreatedAt: now,
		})
	}
	return comments, nil
}

func (s *TaskServiceImpl) requireUser(id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidReference
	}
	exists, err := s.users.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidReference
	}
	return nil
}
