package container

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"sllm/internal/execx"
)

func newFake(h func(c execx.Cmd) execx.Result) (*Client, *execx.Fake) {
	f := &execx.Fake{Handler: h}
	return &Client{Tool: "podman", Runner: f, Log: zerolog.Nop()}, f
}

func TestRun_BuildsDetachedCommand(t *testing.T) {
	c, f := newFake(nil)
	err := c.Run(context.Background(), RunSpec{Name: "sllm", Image: "img:latest", Volume: "ollama:/root/.ollama", Publish: "6574:11434"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "podman run --detach --rm --volume ollama:/root/.ollama --publish 6574:11434 --name sllm img:latest"
	if got := f.CallLines(); len(got) != 1 || got[0] != want {
		t.Fatalf("calls: %v", got)
	}
}

func TestRun_RequiresNameAndImage(t *testing.T) {
	c, f := newFake(nil)
	if err := c.Run(context.Background(), RunSpec{Name: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if len(f.Calls()) != 0 {
		t.Fatalf("no command expected")
	}
}

func TestPull_PropagatesExitCode(t *testing.T) {
	c, _ := newFake(func(execx.Cmd) execx.Result {
		return execx.Result{ExitCode: 125, Stderr: "unauthorized"}
	})
	err := c.PullImage(context.Background(), "img")
	if execx.ExitCode(err) != 125 {
		t.Fatalf("expected exit 125, got %v", err)
	}
	if !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("stderr missing from error: %v", err)
	}
}

func TestPullModel_ExecsInsideContainer(t *testing.T) {
	c, f := newFake(nil)
	if err := c.PullModel(context.Background(), "sllm", "llama3.2:3b"); err != nil {
		t.Fatalf("pull model: %v", err)
	}
	if got := f.CallLines()[0]; got != "podman exec sllm ollama pull llama3.2:3b" {
		t.Fatalf("cmd: %s", got)
	}
}

func TestState(t *testing.T) {
	c, _ := newFake(func(execx.Cmd) execx.Result {
		return execx.Result{Stdout: `[{"State":{"Status":"running"}}]`}
	})
	st, err := c.State(context.Background(), "sllm")
	if err != nil || !st.Running() {
		t.Fatalf("expected running, got %+v %v", st, err)
	}

	c, _ = newFake(func(execx.Cmd) execx.Result {
		return execx.Result{Stdout: `[{"State":{"Status":"exited"}}]`}
	})
	st, _ = c.State(context.Background(), "sllm")
	if !st.Exists || st.Running() {
		t.Fatalf("expected exited, got %+v", st)
	}

	c, _ = newFake(func(execx.Cmd) execx.Result {
		return execx.Result{ExitCode: 125, Stderr: "no such container"}
	})
	st, err = c.State(context.Background(), "sllm")
	if err != nil || st.Exists {
		t.Fatalf("missing container should be Exists=false without error: %+v %v", st, err)
	}

	c, _ = newFake(func(execx.Cmd) execx.Result { return execx.Result{Stdout: "nope"} })
	if _, err := c.State(context.Background(), "sllm"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestImage(t *testing.T) {
	c, _ := newFake(func(execx.Cmd) execx.Result {
		return execx.Result{Stdout: `[{"Id":"abc","RepoTags":["docker.io/ollama/ollama:latest"],"Size":2147483648}]`}
	})
	img, ok, err := c.Image(context.Background(), "docker.io/ollama/ollama:latest")
	if err != nil || !ok {
		t.Fatalf("expected image, got ok=%v err=%v", ok, err)
	}
	if img.ID != "abc" || img.Size != 2<<30 {
		t.Fatalf("unexpected image: %+v", img)
	}

	c, _ = newFake(func(execx.Cmd) execx.Result { return execx.Result{ExitCode: 1} })
	if _, ok, err := c.Image(context.Background(), "x"); ok || err != nil {
		t.Fatalf("absent image: ok=%v err=%v", ok, err)
	}
}

func TestDockerTool(t *testing.T) {
	f := &execx.Fake{}
	c := &Client{Tool: "docker", Runner: f, Log: zerolog.Nop()}
	_ = c.Stop(context.Background(), "sllm")
	if got := f.CallLines()[0]; got != "docker stop sllm" {
		t.Fatalf("cmd: %s", got)
	}
	argv := c.StopCommand("sllm")
	if len(argv) != 3 || !strings.HasSuffix(argv[0], "docker") || argv[1] != "stop" || argv[2] != "sllm" {
		t.Fatalf("stop argv: %v", argv)
	}
}
