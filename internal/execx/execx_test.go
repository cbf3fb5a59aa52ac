package execx

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestOSRun_CapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res, err := OS{}.Run(context.Background(), Cmd{Path: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" || res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestOSRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res, err := OS{}.Run(context.Background(), Cmd{Path: "sh", Args: []string{"-c", "echo boom 1>&2; exit 3"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if ee.Code != 3 || res.ExitCode != 3 || ExitCode(err) != 3 {
		t.Fatalf("exit code: err=%d res=%d", ee.Code, res.ExitCode)
	}
	if ee.Stderr != "boom\n" {
		t.Fatalf("stderr: %q", ee.Stderr)
	}
}

func TestOSRun_MissingBinary(t *testing.T) {
	_, err := OS{}.Run(context.Background(), Cmd{Path: "definitely-not-a-binary-sllm"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsExitError(err) {
		t.Fatalf("missing binary must not look like an exit error")
	}
	if ExitCode(err) != -1 {
		t.Fatalf("exit code: %d", ExitCode(err))
	}
}

func TestFake_RecordsCalls(t *testing.T) {
	f := &Fake{Handler: func(c Cmd) Result {
		if HasPrefix(c, "podman pull") {
			return Result{ExitCode: 1, Stderr: "denied"}
		}
		return Result{Stdout: "ok"}
	}}
	if _, err := f.Run(context.Background(), Cmd{Path: "podman", Args: []string{"ps"}}); err != nil {
		t.Fatalf("ps: %v", err)
	}
	_, err := f.Run(context.Background(), Cmd{Path: "podman", Args: []string{"pull", "img"}})
	if ExitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	lines := f.CallLines()
	if len(lines) != 2 || lines[0] != "podman ps" || lines[1] != "podman pull img" {
		t.Fatalf("calls: %v", lines)
	}
	f.Reset()
	if len(f.Calls()) != 0 {
		t.Fatalf("reset failed")
	}
}
