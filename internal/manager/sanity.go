package manager

import (
	"sllm/internal/execx"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	Tool           string `json:"tool"`
	ToolFound      bool   `json:"tool_found"`
	ToolPath       string `json:"tool_path,omitempty"`
	SchedulerFound bool   `json:"scheduler_found"`
	Error          string `json:"error,omitempty"`
}

// SanityCheck validates that required external binaries are available.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{Tool: m.rt.Tool}
	if p, ok := execx.LookPath(m.rt.Tool); ok {
		r.ToolFound = true
		r.ToolPath = p
	}
	_, r.SchedulerFound = execx.LookPath("systemd-run")
	switch {
	case !r.ToolFound:
		r.Error = m.rt.Tool + " not found in PATH"
	case !r.SchedulerFound:
		r.Error = "systemd-run not found in PATH"
	}
	return r
}
