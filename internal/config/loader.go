package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File holds settings read from a config file.
// Zero values mean "unspecified" and leave the defaults in place.
type File struct {
	Runtime          string   `json:"runtime" yaml:"runtime" toml:"runtime"`
	Image            string   `json:"image" yaml:"image" toml:"image"`
	Model            string   `json:"model" yaml:"model" toml:"model"`
	Name             string   `json:"name" yaml:"name" toml:"name"`
	ShutdownName     string   `json:"shutdown_name" yaml:"shutdown_name" toml:"shutdown_name"`
	Host             string   `json:"host" yaml:"host" toml:"host"`
	Port             int      `json:"port" yaml:"port" toml:"port"`
	ContainerPort    int      `json:"container_port" yaml:"container_port" toml:"container_port"`
	Volume           string   `json:"volume" yaml:"volume" toml:"volume"`
	ShutdownInterval string   `json:"shutdown_interval" yaml:"shutdown_interval" toml:"shutdown_interval"`
	HealthPath       string   `json:"health_path" yaml:"health_path" toml:"health_path"`
	ChatPath         string   `json:"chat_path" yaml:"chat_path" toml:"chat_path"`
	RequestTimeout   string   `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	ConnectTimeout   string   `json:"connect_timeout" yaml:"connect_timeout" toml:"connect_timeout"`
	CanaryTimeout    string   `json:"canary_timeout" yaml:"canary_timeout" toml:"canary_timeout"`
	Canary           *bool    `json:"canary" yaml:"canary" toml:"canary"`
	Temperature      *float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	PromptDir        string   `json:"prompt_dir" yaml:"prompt_dir" toml:"prompt_dir"`
	MetricsFile      string   `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return f, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return f, nil
}

// apply overlays the non-zero fields of f onto rt.
func (f File) apply(rt Runtime) (Runtime, error) {
	setStr(&rt.Tool, f.Runtime)
	setStr(&rt.Image, f.Image)
	setStr(&rt.Model, f.Model)
	setStr(&rt.Name, f.Name)
	setStr(&rt.ShutdownName, f.ShutdownName)
	setStr(&rt.Host, f.Host)
	setStr(&rt.Volume, f.Volume)
	setStr(&rt.HealthPath, f.HealthPath)
	setStr(&rt.ChatPath, f.ChatPath)
	setStr(&rt.PromptDir, f.PromptDir)
	setStr(&rt.MetricsFile, f.MetricsFile)
	if f.Port != 0 {
		rt.Port = f.Port
	}
	if f.ContainerPort != 0 {
		rt.ContainerPort = f.ContainerPort
	}
	if f.Canary != nil {
		rt.Canary = *f.Canary
	}
	if f.Temperature != nil {
		rt.Temperature = *f.Temperature
	}
	durations := []struct {
		key string
		val string
		dst *time.Duration
	}{
		{"shutdown_interval", f.ShutdownInterval, &rt.ShutdownInterval},
		{"request_timeout", f.RequestTimeout, &rt.RequestTimeout},
		{"connect_timeout", f.ConnectTimeout, &rt.ConnectTimeout},
		{"canary_timeout", f.CanaryTimeout, &rt.CanaryTimeout},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.val) == "" {
			continue
		}
		v, err := ParseDuration(d.val)
		if err != nil {
			return rt, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}
	return rt, nil
}

func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
