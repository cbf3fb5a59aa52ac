// Package scheduler registers one-shot deferred commands with the user's
// systemd instance. Timers outlive the sllm process that created them.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sllm/internal/execx"
)

// systemctl exits 5 when the unit is not loaded.
const exitUnitNotLoaded = 5

// Timer is one entry of `systemctl --user list-timers`.
type Timer struct {
	Unit      string
	Activates string
	Next      time.Time // zero when systemd reports no next elapse
}

// Systemd talks to `systemd-run --user` and `systemctl --user`.
type Systemd struct {
	Runner execx.Runner
	Log    zerolog.Logger
}

// New returns a Systemd scheduler backed by the host's process table.
func New(log zerolog.Logger) *Systemd {
	return &Systemd{Runner: execx.OS{}, Log: log}
}

func timerUnit(name string) string { return name + ".timer" }

// Schedule registers a transient timer named name that runs command once,
// after delay. It fails if a unit with that name already exists.
func (s *Systemd) Schedule(ctx context.Context, name string, delay time.Duration, command []string) error {
	if name == "" || len(command) == 0 {
		return errors.New("schedule: name and command are required")
	}
	secs := int64(delay / time.Second)
	if secs < 1 {
		secs = 1
	}
	args := []string{"--user", "--collect", "--unit", name, "--on-active", fmt.Sprintf("%ds", secs)}
	args = append(args, command...)
	res, err := s.Runner.Run(ctx, execx.Cmd{Path: "systemd-run", Args: args})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.Log.Debug().Str("unit", timerUnit(name)).Str("stderr", strings.TrimSpace(res.Stderr)).Msg("event=timer_created")
	return nil
}

// Cancel stops the named timer. A timer that does not exist counts as
// cancelled and returns nil.
func (s *Systemd) Cancel(ctx context.Context, name string) error {
	_, err := s.Runner.Run(ctx, execx.Cmd{Path: "systemctl", Args: []string{"--user", "stop", timerUnit(name)}})
	if err == nil {
		return nil
	}
	if execx.ExitCode(err) == exitUnitNotLoaded {
		return nil
	}
	return fmt.Errorf("cancel %s: %w", name, err)
}

type listEntry struct {
	Unit      string `json:"unit"`
	Activates string `json:"activates"`
	Next      *int64 `json:"next"` // microseconds since epoch
}

// Timers lists the user's timers.
func (s *Systemd) Timers(ctx context.Context) ([]Timer, error) {
	res, err := s.Runner.Run(ctx, execx.Cmd{Path: "systemctl", Args: []string{"--user", "list-timers", "--all", "--output", "json"}})
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	var entries []listEntry
	if err := json.Unmarshal([]byte(res.Stdout), &entries); err != nil {
		return nil, fmt.Errorf("parse list-timers JSON: %w", err)
	}
	out := make([]Timer, 0, len(entries))
	for _, e := range entries {
		t := Timer{Unit: e.Unit, Activates: e.Activates}
		if e.Next != nil && *e.Next > 0 {
			t.Next = time.UnixMicro(*e.Next)
		}
		out = append(out, t)
	}
	return out, nil
}

// Lookup finds the timer created by Schedule(name, ...).
func (s *Systemd) Lookup(ctx context.Context, name string) (Timer, bool, error) {
	timers, err := s.Timers(ctx)
	if err != nil {
		return Timer{}, false, err
	}
	for _, t := range timers {
		if t.Unit == timerUnit(name) {
			return t, true, nil
		}
	}
	return Timer{}, false, nil
}
