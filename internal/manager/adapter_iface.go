package manager

import (
	"context"
	"time"

	"sllm/internal/container"
	"sllm/internal/scheduler"
	"sllm/pkg/types"
)

// ProcessManager abstracts the container runtime CLI.
// *container.Client satisfies it.
type ProcessManager interface {
	PullImage(ctx context.Context, image string) error
	PullModel(ctx context.Context, name, model string) error
	Run(ctx context.Context, spec container.RunSpec) error
	State(ctx context.Context, name string) (container.State, error)
	Stop(ctx context.Context, name string) error
	Image(ctx context.Context, image string) (container.Image, bool, error)
	// StopCommand is the argv a scheduler runs to stop the named container.
	StopCommand(name string) []string
}

// TaskScheduler abstracts the OS-level one-shot timer facility.
// *scheduler.Systemd satisfies it.
type TaskScheduler interface {
	Schedule(ctx context.Context, name string, delay time.Duration, command []string) error
	// Cancel must treat a missing timer as success.
	Cancel(ctx context.Context, name string) error
	Lookup(ctx context.Context, name string) (scheduler.Timer, bool, error)
}

// ServerInspector queries the model server's informational endpoints for
// status reports. *chat.Client satisfies it.
type ServerInspector interface {
	Version(ctx context.Context) (string, error)
	Models(ctx context.Context) ([]types.ModelTag, error)
}

// Probe reports whether the server answers its health endpoint. It never
// fails; every problem reads as "not ready".
type Probe interface {
	IsReady(ctx context.Context) bool
}
