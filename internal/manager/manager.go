package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sllm/internal/config"
	"sllm/internal/container"
	"sllm/internal/scheduler"
)

type Manager struct {
	mu    sync.RWMutex
	state State

	rt        config.Runtime
	proc      ProcessManager
	sched     TaskScheduler
	probe     Probe
	inspector ServerInspector
	clock     Clock
	log       zerolog.Logger

	pollInterval time.Duration
	pollAttempts int
}

// New wires the real container runtime, the systemd scheduler and the HTTP
// health probe for rt.
func New(rt config.Runtime, log zerolog.Logger) *Manager {
	return NewWithConfig(ManagerConfig{
		Runtime:   rt,
		Process:   container.New(rt.Tool, log),
		Scheduler: scheduler.New(log),
		Log:       log,
	})
}

// SetInspector installs the API client used by Status for version and model
// lookups.
func (m *Manager) SetInspector(in ServerInspector) {
	m.mu.Lock()
	m.inspector = in
	m.mu.Unlock()
}

// Runtime returns the configuration the Manager was built with.
func (m *Manager) Runtime() config.Runtime { return m.rt }

// Snapshot returns the last lifecycle transition this Manager performed. It
// is informational only; State re-derives the real server state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	prev := m.state
	m.state = s
	m.mu.Unlock()
	if prev != s {
		m.log.Debug().Str("from", string(prev)).Str("to", string(s)).Msg("event=state")
	}
}

func (m *Manager) getInspector() ServerInspector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inspector
}
