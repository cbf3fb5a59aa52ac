package manager

import (
	"context"
	"fmt"

	"sllm/internal/container"
	"sllm/internal/metrics"
)

// EnsureRuntimeDownloaded pulls the runtime image and the configured model.
// The model is pulled through the running server, so the server is started
// first when it is not answering.
func (m *Manager) EnsureRuntimeDownloaded(ctx context.Context) (err error) {
	defer func() { metrics.LifecycleOp("download", err) }()
	m.setState(StateDownloading)
	m.log.Info().Str("image", m.rt.Image).Msg("event=pull_image")
	if err := m.proc.PullImage(ctx, m.rt.Image); err != nil {
		m.setState(StateUnknown)
		return pullFailed(m.rt.Image, err)
	}
	if !m.probe.IsReady(ctx) {
		if err := m.start(ctx); err != nil {
			return err
		}
		if err := m.ScheduleShutdown(ctx, 0); err != nil {
			m.log.Warn().Err(err).Msg("event=schedule_shutdown_failed")
		}
	}
	m.log.Info().Str("model", m.rt.Model).Msg("event=pull_model")
	if err := m.proc.PullModel(ctx, m.rt.Name, m.rt.Model); err != nil {
		return pullFailed(m.rt.Model, err)
	}
	m.setState(StateRunning)
	return nil
}

// EnsureStarted brings the server up unless it already answers its health
// check. A ready server costs a single probe and no subprocess calls.
func (m *Manager) EnsureStarted(ctx context.Context) (err error) {
	if m.probe.IsReady(ctx) {
		m.setState(StateRunning)
		return nil
	}
	defer func() { metrics.LifecycleOp("start", err) }()
	return m.start(ctx)
}

func (m *Manager) start(ctx context.Context) error {
	st, err := m.proc.State(ctx, m.rt.Name)
	if err != nil {
		m.log.Debug().Err(err).Str("name", m.rt.Name).Msg("event=inspect_failed")
	}
	m.setState(StateStarting)
	if st.Running() {
		// Container is up but the API is not answering yet.
		m.log.Debug().Str("name", m.rt.Name).Msg("event=await_running")
	} else {
		m.log.Info().Str("name", m.rt.Name).Str("image", m.rt.Image).Msg("event=start")
		spec := container.RunSpec{
			Name:    m.rt.Name,
			Image:   m.rt.Image,
			Volume:  m.rt.Volume,
			Publish: m.rt.Publish(),
		}
		if err := m.proc.Run(ctx, spec); err != nil {
			m.setState(StateStopped)
			return startFailed(m.rt.Name, err)
		}
	}
	n, err := WaitReady(ctx, m.probe, m.pollInterval, m.pollAttempts, m.clock)
	metrics.ObserveReadiness(n)
	if err != nil {
		m.setState(StateUnknown)
		if IsReadinessTimeout(err) {
			return err
		}
		return fmt.Errorf("wait for server: %w", err)
	}
	m.log.Debug().Int("attempts", n).Msg("event=ready")
	m.setState(StateRunning)
	return nil
}

// Ensure is the frontend entry point: the runtime is downloaded, the server is
// running and the idle-shutdown timer is re-armed. Timer failures are logged
// and do not fail the call.
func (m *Manager) Ensure(ctx context.Context) error {
	if err := m.EnsureRuntimeDownloaded(ctx); err != nil {
		return err
	}
	if err := m.EnsureStarted(ctx); err != nil {
		return err
	}
	if err := m.ScheduleShutdown(ctx, 0); err != nil {
		m.log.Warn().Err(err).Msg("event=schedule_shutdown_failed")
	}
	return nil
}
