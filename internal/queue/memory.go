package queue

import (
	"context"
	"time"
)

// DefaultCapacity bounds a MemoryQueue created with a non-positive capacity.
const DefaultCapacity = 1000

// MemoryQueue is a bounded in-process FIFO.
type MemoryQueue struct {
	tasks chan Task
}

// NewMemoryQueue creates a queue holding at most capacity tasks.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryQueue{tasks: make(chan Task, capacity)}
}

// Enqueue adds a task without blocking. It returns ErrQueueFull when the
// queue is at capacity.
func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue waits up to wait for a task.
func (q *MemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (Task, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case task := <-q.tasks:
		return task, nil
	case <-timer.C:
		return Task{}, ErrEmpty
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// Drain removes and returns every waiting task in FIFO order.
func (q *MemoryQueue) Drain() []Task {
	var out []Task
	for {
		select {
		case task := <-q.tasks:
			out = append(out, task)
		default:
			return out
		}
	}
}

// Len returns the number of waiting tasks.
func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}
