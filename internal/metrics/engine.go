package metrics

import (
	"log"
	"time"

	"tasklist/backend/internal/models"
)

// TaskSource supplies the canonical task set for a full recompute.
type TaskSource interface {
	All() ([]models.Task, error)
}

// Engine keeps the counter store in step with task mutations. Every write
// here is best-effort: the task-store write has already committed by the
// time the engine runs, so counter failures are logged and left for the
// next recompute instead of failing the request.
type Engine struct {
	counters  *CounterStore
	retention time.Duration
}

// NewEngine builds an engine. retention bounds how long day-bucketed keys
// live; zero or negative disables expiry.
func NewEngine(counters *CounterStore, retention time.Duration) *Engine {
	return &Engine{counters: counters, retention: retention}
}

// OnTaskCreated applies the creation deltas: live-status count, created-day
// bucket, and one sorted-set point per tag. The three effects are
// independent; one failing does not stop the others.
func (e *Engine) OnTaskCreated(task *models.Task) {
	userID := task.UserID.String()

	e.incr(statusKey(userID, task.Status))
	e.bumpDay(createdKey(userID, task.CreatedAt))
	for tag := range task.TagSet() {
		e.zincr(tagsKey(userID), 1, tag)
	}
}

// OnTaskUpdated applies deltas for the transition from old to updated.
// Only fields that actually changed produce counter traffic, which keeps
// repeated identical updates idempotent.
func (e *Engine) OnTaskUpdated(old, updated *models.Task) {
	userID := old.UserID.String()

	if old.Status != updated.Status {
		e.decr(statusKey(userID, old.Status))
		e.incr(statusKey(userID, updated.Status))

		if updated.Status == models.StatusCompleted {
			// The record's update timestamp is the completion time; a
			// recompute derives the same bucket from the same field.
			completedAt := updated.UpdatedAt
			if completedAt.IsZero() {
				completedAt = time.Now().UTC()
			}
			e.bumpDay(completedKey(userID, completedAt))
			e.recordCompletion(userID, old.CreatedAt, completedAt)
		}
	}

	oldTags := old.TagSet()
	newTags := updated.TagSet()
	for tag := range oldTags {
		if _, kept := newTags[tag]; !kept {
			e.zincr(tagsKey(userID), -1, tag)
		}
	}
	for tag := range newTags {
		if _, had := oldTags[tag]; !had {
			e.zincr(tagsKey(userID), 1, tag)
		}
	}
}

// OnTaskDeleted retires the task's live contributions. Day-bucketed history
// is immutable once recorded, so only the status count and tag scores move.
func (e *Engine) OnTaskDeleted(task *models.Task) {
	userID := task.UserID.String()

	e.decr(statusKey(userID, task.Status))
	for tag := range task.TagSet() {
		e.zincr(tagsKey(userID), -1, tag)
	}
}

// Recompute deletes every counter key and rebuilds the lot from the
// canonical task set. Running it twice in a row yields the same state as
// running it once, because it always resets to zero first. Not safe to run
// concurrently with itself; callers serialize invocations.
func (e *Engine) Recompute(source TaskSource) error {
	if err := e.reset(); err != nil {
		return err
	}

	tasks, err := source.All()
	if err != nil {
		return err
	}

	for i := range tasks {
		task := &tasks[i]
		e.OnTaskCreated(task)
		if task.Status == models.StatusCompleted {
			userID := task.UserID.String()
			// The last-update timestamp is the best available record
			// of when the task reached completed.
			e.bumpDay(completedKey(userID, task.UpdatedAt))
			e.recordCompletion(userID, task.CreatedAt, task.UpdatedAt)
		}
	}

	log.Printf("metrics: recompute finished over %d tasks", len(tasks))
	return nil
}

func (e *Engine) reset() error {
	for _, pattern := range resetPatterns {
		keys, err := e.counters.ScanKeys(pattern)
		if err != nil {
			return err
		}
		if err := e.counters.Delete(keys...); err != nil {
			return err
		}
	}
	return nil
}

// recordCompletion feeds the completion-latency accumulators. A negative
// duration means clock skew or a malformed creation timestamp; the stats
// stay untouched in that case.
func (e *Engine) recordCompletion(userID string, createdAt, completedAt time.Time) {
	duration := completedAt.Sub(createdAt.UTC()).Seconds()
	if duration < 0 {
		log.Printf("metrics: skipping negative completion duration (%.0fs) for user %s", duration, userID)
		return
	}
	if err := e.counters.IncrByFloat(completionSumKey(userID), duration); err != nil {
		log.Printf("metrics: %v", err)
		return
	}
	e.incr(completedCountKey(userID))
}

// bumpDay increments a day-bucketed counter and refreshes its retention
// window so per-day keys do not accumulate forever.
func (e *Engine) bumpDay(key string) {
	if err := e.counters.Incr(key); err != nil {
		log.Printf("metrics: %v", err)
		return
	}
	if e.retention > 0 {
		if err := e.counters.Expire(key, e.retention); err != nil {
			log.Printf("metrics: %v", err)
		}
	}
}

func (e *Engine) incr(key string) {
	if err := e.counters.Incr(key); err != nil {
		log.Printf("metrics: %v", err)
	}
}

func (e *Engine) decr(key string) {
	if err := e.counters.Decr(key); err != nil {
		log.Printf("metrics: %v", err)
	}
}

func (e *Engine) zincr(set string, amount float64, member string) {
	if err := e.counters.ZIncrBy(set, amount, member); err != nil {
		log.Printf("metrics: %v", err)
	}
}
