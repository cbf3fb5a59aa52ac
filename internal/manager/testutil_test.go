package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sllm/internal/config"
	"sllm/internal/container"
	"sllm/internal/execx"
	"sllm/internal/scheduler"
	"sllm/pkg/types"
)

// fakeProcess is an in-memory ProcessManager.
type fakeProcess struct {
	mu       sync.Mutex
	calls    []string
	running  bool
	pullErr  error
	modelErr error
	runErr   error
	stopErr  error
	image    *container.Image
	onRun    func()
}

func (f *fakeProcess) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeProcess) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProcess) PullImage(ctx context.Context, image string) error {
	f.record("pull " + image)
	return f.pullErr
}

func (f *fakeProcess) PullModel(ctx context.Context, name, model string) error {
	f.record("pull-model " + model)
	return f.modelErr
}

func (f *fakeProcess) Run(ctx context.Context, spec container.RunSpec) error {
	f.record("run " + spec.Name)
	if f.runErr != nil {
		return f.runErr
	}
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun()
	}
	return nil
}

func (f *fakeProcess) State(ctx context.Context, name string) (container.State, error) {
	f.record("inspect " + name)
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return container.State{}, nil
	}
	return container.State{Exists: true, Status: "running"}, nil
}

func (f *fakeProcess) Stop(ctx context.Context, name string) error {
	f.record("stop " + name)
	if f.stopErr != nil {
		return f.stopErr
	}
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
	return nil
}

func (f *fakeProcess) Image(ctx context.Context, image string) (container.Image, bool, error) {
	f.record("image " + image)
	if f.image == nil {
		return container.Image{}, false, nil
	}
	return *f.image, true, nil
}

func (f *fakeProcess) StopCommand(name string) []string {
	return []string{"/usr/bin/podman", "stop", name}
}

// fakeScheduler keeps timers in a map and, like systemd, refuses to create a
// timer whose name is taken.
type fakeScheduler struct {
	mu        sync.Mutex
	timers    map[string]time.Duration
	commands  map[string][]string
	created   int
	schedErr  error
	cancelErr error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{timers: map[string]time.Duration{}, commands: map[string][]string{}}
}

func (s *fakeScheduler) Schedule(ctx context.Context, name string, delay time.Duration, command []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedErr != nil {
		return s.schedErr
	}
	if _, ok := s.timers[name]; ok {
		return errors.New("unit " + name + ".timer already exists")
	}
	s.timers[name] = delay
	s.commands[name] = command
	s.created++
	return nil
}

func (s *fakeScheduler) Cancel(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelErr != nil {
		return s.cancelErr
	}
	delete(s.timers, name)
	return nil
}

func (s *fakeScheduler) Lookup(ctx context.Context, name string) (scheduler.Timer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.timers[name]
	if !ok {
		return scheduler.Timer{}, false, nil
	}
	return scheduler.Timer{Unit: name + ".timer", Next: time.Unix(1700000000, 0).Add(d)}, true, nil
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// fakeProbe fails its first failFirst checks, then succeeds. failFirst < 0
// never succeeds.
type fakeProbe struct {
	mu        sync.Mutex
	failFirst int
	calls     int
}

func (p *fakeProbe) IsReady(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failFirst < 0 {
		return false
	}
	return p.calls > p.failFirst
}

func (p *fakeProbe) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeClock advances instantly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1700000000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps++
	c.mu.Unlock()
	return nil
}

type fakeInspector struct {
	version string
	tags    []types.ModelTag
	err     error
}

func (f *fakeInspector) Version(ctx context.Context) (string, error) { return f.version, f.err }

func (f *fakeInspector) Models(ctx context.Context) ([]types.ModelTag, error) { return f.tags, f.err }

// newTestManager wires fakes around the default runtime configuration.
func newTestManager(proc ProcessManager, sched TaskScheduler, probe Probe, clock Clock) *Manager {
	return NewWithConfig(ManagerConfig{
		Runtime:   config.Defaults(),
		Process:   proc,
		Scheduler: sched,
		Probe:     probe,
		Clock:     clock,
		Log:       zerolog.Nop(),
	})
}

func exitErr(code int, stderr string) error {
	return &execx.ExitError{Cmd: "podman", Code: code, Stderr: stderr}
}
