package manager

import (
	"context"
	"fmt"
	"time"

	"sllm/internal/metrics"
)

// ScheduleShutdown replaces any pending shutdown timer with one that stops
// the server after interval. interval <= 0 uses the configured default.
func (m *Manager) ScheduleShutdown(ctx context.Context, interval time.Duration) (err error) {
	defer func() { metrics.LifecycleOp("schedule_shutdown", err) }()
	if interval <= 0 {
		interval = m.rt.ShutdownInterval
	}
	m.CancelScheduledShutdown(ctx)
	cmd := m.proc.StopCommand(m.rt.Name)
	if err := m.sched.Schedule(ctx, m.rt.ShutdownName, interval, cmd); err != nil {
		return fmt.Errorf("schedule shutdown in %s: %w", interval, err)
	}
	m.log.Debug().Str("timer", m.rt.ShutdownName).Dur("in", interval).Msg("event=shutdown_scheduled")
	m.setState(StateShutdownScheduled)
	return nil
}

// CancelScheduledShutdown removes the pending shutdown timer, if any.
// Failures are logged and swallowed.
func (m *Manager) CancelScheduledShutdown(ctx context.Context) {
	if err := m.sched.Cancel(ctx, m.rt.ShutdownName); err != nil {
		m.log.Debug().Err(err).Str("timer", m.rt.ShutdownName).Msg("event=cancel_shutdown_failed")
	}
}

// Stop cancels the shutdown timer and stops the server. Stopping a server
// that is not running is harmless; failures are logged at warn only.
func (m *Manager) Stop(ctx context.Context) {
	m.CancelScheduledShutdown(ctx)
	st, err := m.proc.State(ctx, m.rt.Name)
	if err == nil && !st.Exists {
		m.setState(StateStopped)
		return
	}
	err = m.proc.Stop(ctx, m.rt.Name)
	metrics.LifecycleOp("stop", err)
	if err != nil {
		m.log.Warn().Err(err).Str("name", m.rt.Name).Msg("event=stop_failed")
		return
	}
	m.log.Info().Str("name", m.rt.Name).Msg("event=stopped")
	m.setState(StateStopped)
}

// State derives the server state from the container runtime and the health
// endpoint.
func (m *Manager) State(ctx context.Context) ServerState {
	out := ServerState{Process: ProcessUnknown}
	st, err := m.proc.State(ctx, m.rt.Name)
	switch {
	case err != nil:
		m.log.Debug().Err(err).Msg("event=inspect_failed")
	case st.Running():
		out.Process = ProcessRunning
		out.Status = st.Status
	default:
		out.Process = ProcessStopped
		out.Status = st.Status
	}
	out.Reachable = m.probe.IsReady(ctx)
	return out
}
