// Package queue hands parsed imports to background consumers.
package queue

import (
	"context"
	"errors"
	"time"
)

// ErrQueueFull is returned when a bounded queue cannot take another task.
var ErrQueueFull = errors.New("import queue is full")

// ErrEmpty is returned by Dequeue when no task arrived before the deadline.
var ErrEmpty = errors.New("import queue is empty")

// Task is an import waiting to be processed downstream.
type Task struct {
	ImportID   string    `json:"import_id"`
	TenantID   string    `json:"tenant_id,omitempty"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"file_name"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue accepts import tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

// Consumer takes tasks off a queue. Dequeue blocks for at most wait and
// returns ErrEmpty when nothing arrived.
type Consumer interface {
	Dequeue(ctx context.Context, wait time.Duration) (Task, error)
}
