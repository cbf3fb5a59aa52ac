package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by sllm.
const (
	EnvModel            = "SLLM_MODEL"
	EnvImage            = "SLLM_OLLAMA"
	EnvShutdownInterval = "SLLM_SHUTDOWN_INTERVAL"
	EnvRuntime          = "SLLM_RUNTIME"
	EnvConfig           = "SLLM_CONFIG"
	EnvPromptDir        = "SLLM_PROMPT_DIR"
	EnvMetricsFile      = "SLLM_METRICS_FILE"
	EnvNoCanary         = "SLLM_NO_CANARY"
)

// Getenv matches os.Getenv; tests pass a map lookup instead.
type Getenv func(string) string

// MapEnv adapts a map to Getenv.
func MapEnv(m map[string]string) Getenv {
	return func(k string) string { return m[k] }
}

func (g Getenv) str(key, def string) string {
	if v := strings.TrimSpace(g(key)); v != "" {
		return v
	}
	return def
}

func (g Getenv) boolean(key string, def bool) bool {
	v := strings.TrimSpace(g(key))
	if v == "" {
		return def
	}
	s := strings.ToLower(v)
	return s == "1" || s == "true" || s == "yes"
}

func applyEnv(rt Runtime, env Getenv) (Runtime, error) {
	rt.Tool = env.str(EnvRuntime, rt.Tool)
	rt.Image = env.str(EnvImage, rt.Image)
	rt.Model = env.str(EnvModel, rt.Model)
	rt.PromptDir = env.str(EnvPromptDir, rt.PromptDir)
	rt.MetricsFile = env.str(EnvMetricsFile, rt.MetricsFile)
	if env.boolean(EnvNoCanary, false) {
		rt.Canary = false
	}
	if v := env.str(EnvShutdownInterval, ""); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return rt, fmt.Errorf("%s: %w", EnvShutdownInterval, err)
		}
		rt.ShutdownInterval = d
	}
	return rt, nil
}

// ParseDuration accepts Go durations ("15m", "90s"), systemd style minutes
// ("15min") and bare seconds ("900").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if strings.HasSuffix(s, "min") {
		s = strings.TrimSuffix(s, "min") + "m"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Dir returns the per-user configuration directory for sllm.
func Dir() string {
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, "sllm")
	}
	return filepath.Join(".config", "sllm")
}

// LoadEnvFile populates the process environment from a dotenv file.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = filepath.Join(Dir(), "env")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// DefaultFile returns the first existing config.{toml,yaml,yml,json} in Dir,
// or "" when there is none.
func DefaultFile() string {
	dir := Dir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
