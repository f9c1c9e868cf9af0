package coordination

import (
	"context"
	"errors"
	"time"
)

// ErrNotImplemented is returned by the stub coordinator for every task. The
// distributed execution layer behind this interface does not exist yet.
var ErrNotImplemented = errors.New("[Coordination] task execution is not implemented")

// Task describes one unit of work handed to the coordination layer.
type Task struct {
	TaskID  string         `json:"taskId"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// TaskResult reports the outcome of a coordinated task.
type TaskResult struct {
	TaskID string `json:"taskId"`

	Result any `json:"result,omitempty"`

	// Confidence in [0, 1]. Zero until a real executor produces results.
	Confidence float64 `json:"confidence"`

	// Elapsed is the measured wall-clock time the task occupied the
	// coordinator, never a synthetic value.
	Elapsed time.Duration `json:"elapsed"`
}

// Coordinator dispatches tasks to an execution layer.
type Coordinator interface {
	Execute(ctx context.Context, task Task) (TaskResult, error)
}

// Stub is the placeholder Coordinator. It rejects every task with
// ErrNotImplemented while still reporting honest timing, so callers can be
// written and tested against the final contract today.
type Stub struct{}

// NewStub returns the placeholder coordinator.
func NewStub() *Stub { return &Stub{} }

// Execute measures how long the call actually took and rejects the task.
func (s *Stub) Execute(_ context.Context, task Task) (TaskResult, error) {
	start := time.Now()
	return TaskResult{
		TaskID:  task.TaskID,
		Elapsed: time.Since(start),
	}, ErrNotImplemented
}
