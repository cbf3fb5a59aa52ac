// Package container drives a podman or docker CLI to manage the named model
// server container. Every call is a short-lived subprocess; nothing is cached.
package container

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sllm/internal/execx"
)

// Client issues runtime CLI commands through Runner.
type Client struct {
	Tool   string // "podman" or "docker"
	Runner execx.Runner
	Log    zerolog.Logger
}

// New returns a Client for tool backed by the host's process table.
func New(tool string, log zerolog.Logger) *Client {
	return &Client{Tool: tool, Runner: execx.OS{}, Log: log}
}

// RunSpec describes the detached server container.
type RunSpec struct {
	Name    string
	Image   string
	Volume  string // "volume:/path"
	Publish string // "hostPort:containerPort"
}

// State is the container status as reported by inspect.
type State struct {
	Exists bool
	Status string // running, exited, created, ... ("" when missing)
}

// Running reports whether the container process is up.
func (s State) Running() bool { return s.Exists && s.Status == "running" }

// Image is the subset of image inspect output sllm reports on.
type Image struct {
	ID       string   `json:"Id"`
	RepoTags []string `json:"RepoTags"`
	Size     int64    `json:"Size"`
}

func (c *Client) tool() string {
	if c.Tool == "" {
		return "podman"
	}
	return c.Tool
}

func (c *Client) run(ctx context.Context, args ...string) (execx.Result, error) {
	cmd := execx.Cmd{Path: c.tool(), Args: args}
	c.Log.Debug().Str("cmd", cmd.String()).Msg("event=exec")
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		c.Log.Debug().Str("cmd", cmd.String()).Int("exit", res.ExitCode).Str("stderr", strings.TrimSpace(res.Stderr)).Msg("event=exec_failed")
	}
	return res, err
}

// PullImage downloads image into the local store.
func (c *Client) PullImage(ctx context.Context, image string) error {
	_, err := c.run(ctx, "pull", image)
	return err
}

// PullModel asks the server inside the running container to fetch model.
func (c *Client) PullModel(ctx context.Context, name, model string) error {
	_, err := c.run(ctx, "exec", name, "ollama", "pull", model)
	return err
}

// Run starts the server container detached. It does not wait for readiness.
func (c *Client) Run(ctx context.Context, spec RunSpec) error {
	if spec.Name == "" || spec.Image == "" {
		return errors.New("run: name and image are required")
	}
	args := []string{"run", "--detach", "--rm"}
	if spec.Volume != "" {
		args = append(args, "--volume", spec.Volume)
	}
	if spec.Publish != "" {
		args = append(args, "--publish", spec.Publish)
	}
	args = append(args, "--name", spec.Name, spec.Image)
	_, err := c.run(ctx, args...)
	return err
}

// State inspects the named container. A missing container is reported as
// State{Exists: false} with a nil error.
func (c *Client) State(ctx context.Context, name string) (State, error) {
	res, err := c.run(ctx, "container", "inspect", name)
	if err != nil {
		if execx.IsExitError(err) {
			return State{}, nil
		}
		return State{}, err
	}
	var arr []struct {
		State struct {
			Status string `json:"Status"`
		} `json:"State"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &arr); err != nil {
		return State{}, fmt.Errorf("parse %s inspect JSON: %w", c.tool(), err)
	}
	if len(arr) < 1 {
		return State{}, nil
	}
	status := arr[0].State.Status
	if status == "" {
		status = "unknown"
	}
	return State{Exists: true, Status: status}, nil
}

// Stop stops the named container.
func (c *Client) Stop(ctx context.Context, name string) error {
	_, err := c.run(ctx, "stop", name)
	return err
}

// Image looks image up in the local store. ok is false when it is absent.
func (c *Client) Image(ctx context.Context, image string) (Image, bool, error) {
	res, err := c.run(ctx, "image", "inspect", image)
	if err != nil {
		if execx.IsExitError(err) {
			return Image{}, false, nil
		}
		return Image{}, false, err
	}
	var arr []Image
	if err := json.Unmarshal([]byte(res.Stdout), &arr); err != nil {
		return Image{}, false, fmt.Errorf("parse %s image inspect JSON: %w", c.tool(), err)
	}
	if len(arr) < 1 {
		return Image{}, false, nil
	}
	return arr[0], true, nil
}

// StopCommand is the argv that stops the named container, for schedulers that
// run it later on our behalf.
func (c *Client) StopCommand(name string) []string {
	bin := c.tool()
	if p, ok := execx.LookPath(bin); ok {
		bin = p
	}
	return []string{bin, "stop", name}
}
