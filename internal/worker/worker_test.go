package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tasklist/backend/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupWorker(t *testing.T) (*worker.Worker, *worker.JobQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return worker.NewWorker(client), worker.NewJobQueue(client), mr
}

func TestEnqueuePushesToMaintenanceQueue(t *testing.T) {
	_, queue, mr := setupWorker(t)

	if err := queue.Enqueue(worker.JobTypeMetricsRecompute, nil); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	jobs, err := mr.List("maintenance_queue")
	if err != nil {
		t.Fatalf("Failed to read queue: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("Expected 1 queued job, got %d", len(jobs))
	}
}

func TestWorkerExecutesJob(t *testing.T) {
	w, queue, _ := setupWorker(t)

	done := make(chan worker.JobType, 1)
	w.RegisterHandler(worker.JobTypeMetricsRecompute, func(ctx context.Context, job *worker.Job) error {
		done <- job.Type
		return nil
	})

	w.Start()
	defer w.Stop()

	if err := queue.Enqueue(worker.JobTypeMetricsRecompute, nil); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case jobType := <-done:
		if jobType != worker.JobTypeMetricsRecompute {
			t.Errorf("Unexpected job type: %s", jobType)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for job execution")
	}
}

func TestWorkerSerializesJobs(t *testing.T) {
	w, queue, _ := setupWorker(t)

	var mu sync.Mutex
	running := 0
	overlapped := false
	executed := make(chan struct{}, 3)

	w.RegisterHandler(worker.JobTypeMetricsRecompute, func(ctx context.Context, job *worker.Job) error {
		mu.Lock()
		running++
		if running > 1 {
			overlapped = true
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		executed <- struct{}{}
		return nil
	})

	w.Start()
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := queue.Enqueue(worker.JobTypeMetricsRecompute, nil); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-executed:
		case <-time.After(5 * time.Second):
			t.Fatalf("Timed out waiting for job %d", i+1)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if overlapped {
		t.Error("Expected jobs to run one at a time")
	}
}

func TestWorkerStop(t *testing.T) {
	w, _, _ := setupWorker(t)
	w.Start()

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("Worker did not stop in time")
	}
}
