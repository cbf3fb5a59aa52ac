package e2e

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sllm/internal/chat"
	"sllm/internal/config"
	"sllm/internal/container"
	"sllm/internal/execx"
	"sllm/internal/manager"
	"sllm/internal/scheduler"
	"sllm/pkg/types"
)

// fakeServer plays the containerized model server. It answers its health
// endpoint only while "running", which the fake runtime CLI toggles.
type fakeServer struct {
	mu      sync.Mutex
	running bool
	pulled  bool
	reply   string
	chats   []types.ChatRequest
}

func (f *fakeServer) setRunning(v bool) {
	f.mu.Lock()
	f.running = v
	f.mu.Unlock()
}

func (f *fakeServer) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeServer) snapshot() (pulled bool, chats []types.ChatRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pulled, append([]types.ChatRequest(nil), f.chats...)
}

func (f *fakeServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !f.isRunning() {
				http.Error(w, "down", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Ollama is running"))
	})
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.VersionResponse{Version: "0.5.7"})
	})
	r.Get("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		var tags types.TagsResponse
		f.mu.Lock()
		if f.pulled {
			tags.Models = append(tags.Models, types.ModelTag{
				Name: "llama3.2:3b", Size: 2019393189, Details: types.ModelDetails{QuantizationLevel: "Q4_K_M"},
			})
		}
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(tags)
	})
	r.Post("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.chats = append(f.chats, req)
		reply := f.reply
		f.mu.Unlock()
		if len(req.Messages) == 2 && strings.TrimSpace(req.Messages[1].Content) == "ping" {
			reply = "Pong"
		}
		_ = json.NewEncoder(w).Encode(types.ChatResponse{
			Choices: []types.ChatChoice{{Message: types.ChatMessage{Role: types.RoleAssistant, Content: reply}}},
			Usage:   &types.Usage{PromptTokens: 40, CompletionTokens: 3},
		})
	})
	return r
}

// handle plays podman and systemd for the commands sllm issues.
func (f *fakeServer) handle(c execx.Cmd) execx.Result {
	line := c.String()
	switch {
	case strings.HasPrefix(line, "podman pull"):
		return execx.Result{Stdout: "sha256:0123\n"}
	case strings.HasPrefix(line, "podman run"):
		f.setRunning(true)
		return execx.Result{Stdout: "c0ffee\n"}
	case strings.HasPrefix(line, "podman exec sllm ollama pull"):
		f.mu.Lock()
		f.pulled = true
		f.mu.Unlock()
		return execx.Result{}
	case strings.HasPrefix(line, "podman container inspect"):
		if !f.isRunning() {
			return execx.Result{ExitCode: 125, Stderr: "Error: no such container sllm"}
		}
		return execx.Result{Stdout: `[{"State":{"Status":"running"}}]`}
	case strings.HasPrefix(line, "podman image inspect"):
		return execx.Result{Stdout: `[{"Id":"0123","RepoTags":["docker.io/ollama/ollama:latest"],"Size":3221225472}]`}
	case strings.HasPrefix(line, "podman stop"):
		f.setRunning(false)
		return execx.Result{}
	case strings.HasPrefix(line, "systemctl --user stop"):
		return execx.Result{ExitCode: 5, Stderr: "Failed to stop sllm-shutdown.timer: Unit sllm-shutdown.timer not loaded."}
	case strings.HasPrefix(line, "systemctl --user list-timers"):
		return execx.Result{Stdout: "[]"}
	}
	return execx.Result{}
}

type stack struct {
	srv    *fakeServer
	runner *execx.Fake
	rt     config.Runtime
	mgr    *manager.Manager
	client *chat.Client
}

// newStack wires the real manager, runtime adapter, scheduler, probe and chat
// client against the fake server and fake process table.
func newStack(t *testing.T) *stack {
	t.Helper()
	srv := &fakeServer{reply: "good"}
	ts := httptest.NewServer(srv.router())
	t.Cleanup(ts.Close)

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(ts.URL, "http://"))
	if err != nil {
		t.Fatalf("split %s: %v", ts.URL, err)
	}
	port, _ := strconv.Atoi(portStr)
	rt := config.Defaults()
	rt.Host, rt.Port = host, port

	log := zerolog.Nop()
	runner := &execx.Fake{Handler: srv.handle}
	client := chat.NewFromRuntime(rt, log)
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Runtime:      rt,
		Process:      &container.Client{Tool: rt.Tool, Runner: runner, Log: log},
		Scheduler:    &scheduler.Systemd{Runner: runner, Log: log},
		Inspector:    client,
		Log:          log,
		PollInterval: 5 * time.Millisecond,
	})
	return &stack{srv: srv, runner: runner, rt: rt, mgr: mgr, client: client}
}

func (s *stack) callsWithPrefix(prefix string) []string {
	var out []string
	for _, l := range s.runner.CallLines() {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}
