package execx

import (
	"context"
	"strings"
	"sync"
)

// Fake is an in-memory Runner. Handler decides the outcome of every call;
// all calls are recorded in order.
type Fake struct {
	mu      sync.Mutex
	calls   []Cmd
	Handler func(c Cmd) Result
}

// Run records c and returns the handler's Result. A non-zero ExitCode is
// reported as *ExitError, mirroring OS.
func (f *Fake) Run(ctx context.Context, c Cmd) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	h := f.Handler
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, err
	}
	var res Result
	if h != nil {
		res = h(c)
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Cmd: c.String(), Code: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

// Calls returns a copy of the recorded commands.
func (f *Fake) Calls() []Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Cmd(nil), f.calls...)
}

// CallLines returns the recorded commands rendered with Cmd.String.
func (f *Fake) CallLines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Reset forgets recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// HasPrefix reports whether the command line starts with prefix.
func HasPrefix(c Cmd, prefix string) bool {
	return strings.HasPrefix(c.String(), prefix)
}
