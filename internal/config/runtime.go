// Package config builds the immutable runtime configuration shared by every
// sllm component. Values are layered: built-in defaults, then an optional
// config file (yaml, json or toml), then environment variables.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported container runtimes.
const (
	ToolPodman = "podman"
	ToolDocker = "docker"
)

// Defaults applied when nothing overrides them.
const (
	DefaultTool             = ToolPodman
	DefaultImage            = "docker.io/ollama/ollama:latest"
	DefaultModel            = "llama3.2:3b"
	DefaultName             = "sllm"
	DefaultShutdownName     = "sllm-shutdown"
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 6574
	DefaultContainerPort    = 11434
	DefaultVolume           = "ollama:/root/.ollama"
	DefaultShutdownInterval = 15 * time.Minute
	DefaultHealthPath       = "/"
	DefaultChatPath         = "/v1/chat/completions"
	DefaultRequestTimeout   = 120 * time.Second
	DefaultConnectTimeout   = 500 * time.Millisecond
	DefaultCanaryTimeout    = 10 * time.Second
	DefaultTemperature      = 0.8
)

// Runtime is the resolved configuration. It is built once at process start
// and passed by value; nothing mutates it afterwards.
type Runtime struct {
	Tool             string // podman or docker
	Image            string // runtime image serving the model
	Model            string // model pulled into the runtime
	Name             string // container name
	ShutdownName     string // scheduler unit name for the idle shutdown
	Host             string
	Port             int // published host port
	ContainerPort    int // port the server listens on inside the container
	Volume           string
	ShutdownInterval time.Duration
	HealthPath       string
	ChatPath         string
	RequestTimeout   time.Duration
	ConnectTimeout   time.Duration
	CanaryTimeout    time.Duration
	Canary           bool
	Temperature      float64
	PromptDir        string
	MetricsFile      string
}

// Defaults returns the built-in configuration.
func Defaults() Runtime {
	return Runtime{
		Tool:             DefaultTool,
		Image:            DefaultImage,
		Model:            DefaultModel,
		Name:             DefaultName,
		ShutdownName:     DefaultShutdownName,
		Host:             DefaultHost,
		Port:             DefaultPort,
		ContainerPort:    DefaultContainerPort,
		Volume:           DefaultVolume,
		ShutdownInterval: DefaultShutdownInterval,
		HealthPath:       DefaultHealthPath,
		ChatPath:         DefaultChatPath,
		RequestTimeout:   DefaultRequestTimeout,
		ConnectTimeout:   DefaultConnectTimeout,
		CanaryTimeout:    DefaultCanaryTimeout,
		Canary:           true,
		Temperature:      DefaultTemperature,
	}
}

// New resolves the configuration from defaults, the optional file at path and
// the environment.
func New(path string, env Getenv) (Runtime, error) {
	rt := Defaults()
	if path != "" {
		p, err := ExpandHome(path)
		if err != nil {
			return rt, err
		}
		f, err := Load(p)
		if err != nil {
			return rt, fmt.Errorf("config: %w", err)
		}
		if rt, err = f.apply(rt); err != nil {
			return rt, fmt.Errorf("config %s: %w", p, err)
		}
	}
	if env != nil {
		var err error
		if rt, err = applyEnv(rt, env); err != nil {
			return rt, fmt.Errorf("config: %w", err)
		}
	}
	if rt.PromptDir != "" {
		p, err := ExpandHome(rt.PromptDir)
		if err != nil {
			return rt, err
		}
		rt.PromptDir = p
	}
	if err := rt.Validate(); err != nil {
		return rt, err
	}
	return rt, nil
}

// Validate checks the invariants every component relies on.
func (rt Runtime) Validate() error {
	tool := strings.TrimSpace(rt.Tool)
	if tool != ToolPodman && tool != ToolDocker {
		return fmt.Errorf("invalid runtime %q: must be %q or %q", rt.Tool, ToolPodman, ToolDocker)
	}
	if strings.TrimSpace(rt.Image) == "" {
		return fmt.Errorf("image must not be empty")
	}
	if strings.TrimSpace(rt.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	if strings.TrimSpace(rt.Name) == "" || strings.TrimSpace(rt.ShutdownName) == "" {
		return fmt.Errorf("server and shutdown names must not be empty")
	}
	if rt.Name == rt.ShutdownName {
		return fmt.Errorf("shutdown name %q collides with server name", rt.ShutdownName)
	}
	if rt.Port <= 0 || rt.Port > 65535 {
		return fmt.Errorf("invalid port %d", rt.Port)
	}
	if rt.ContainerPort <= 0 || rt.ContainerPort > 65535 {
		return fmt.Errorf("invalid container port %d", rt.ContainerPort)
	}
	if rt.ShutdownInterval <= 0 {
		return fmt.Errorf("shutdown interval must be positive, got %s", rt.ShutdownInterval)
	}
	if rt.RequestTimeout <= 0 || rt.ConnectTimeout <= 0 || rt.CanaryTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if rt.Temperature < 0 || rt.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", rt.Temperature)
	}
	if !strings.HasPrefix(rt.HealthPath, "/") || !strings.HasPrefix(rt.ChatPath, "/") {
		return fmt.Errorf("health and chat paths must start with '/'")
	}
	return nil
}

// BaseURL is the root of the model server's HTTP API on the host.
func (rt Runtime) BaseURL() string {
	u := url.URL{Scheme: "http", Host: rt.Host + ":" + strconv.Itoa(rt.Port)}
	return u.String()
}

// Publish renders the host:container port mapping for the runtime CLI.
func (rt Runtime) Publish() string {
	return fmt.Sprintf("%d:%d", rt.Port, rt.ContainerPort)
}
