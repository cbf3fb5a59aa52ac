package manager

import (
	"time"

	"github.com/rs/zerolog"

	"sllm/internal/config"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultPollInterval = 500 * time.Millisecond
	defaultPollAttempts = 10
	defaultProbeTimeout = time.Second
)

// ManagerConfig encapsulates all collaborators and tunables for Manager
// construction. Nil ports are filled with the real adapters by New, not by
// NewWithConfig, so tests can leave them out only if they never reach them.
type ManagerConfig struct {
	Runtime   config.Runtime
	Process   ProcessManager
	Scheduler TaskScheduler
	Probe     Probe
	Inspector ServerInspector
	Clock     Clock
	Log       zerolog.Logger

	// Readiness polling budget.
	PollInterval time.Duration
	PollAttempts int
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		rt:        cfg.Runtime,
		proc:      cfg.Process,
		sched:     cfg.Scheduler,
		probe:     cfg.Probe,
		inspector: cfg.Inspector,
		clock:     cfg.Clock,
		log:       cfg.Log,
		state:     StateUnknown,
	}
	// Apply defaults if unset
	if cfg.PollInterval <= 0 {
		m.pollInterval = defaultPollInterval
	} else {
		m.pollInterval = cfg.PollInterval
	}
	if cfg.PollAttempts <= 0 {
		m.pollAttempts = defaultPollAttempts
	} else {
		m.pollAttempts = cfg.PollAttempts
	}
	if m.clock == nil {
		m.clock = realClock{}
	}
	if m.probe == nil {
		m.probe = NewHTTPProbe(cfg.Runtime.BaseURL()+cfg.Runtime.HealthPath, defaultProbeTimeout, cfg.Log)
	}
	return m
}
