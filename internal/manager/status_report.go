package manager

import (
	"context"
	"strings"
	"time"

	"sllm/pkg/types"
)

// RuntimeStatus reports the runtime image in the local store.
type RuntimeStatus struct {
	Image   string `json:"image"`
	Present bool   `json:"present"`
	Size    int64  `json:"size,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServerStatus reports the API endpoint.
type ServerStatus struct {
	URL       string `json:"url"`
	Process   string `json:"process"`
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ModelStatus reports the configured model inside the server.
type ModelStatus struct {
	Name         string `json:"name"`
	Present      bool   `json:"present"`
	Quantization string `json:"quantization,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ShutdownStatus reports the idle-shutdown timer.
type ShutdownStatus struct {
	Timer     string    `json:"timer"`
	Scheduled bool      `json:"scheduled"`
	Next      time.Time `json:"next,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// StatusReport is the diagnostics view printed by `sllm status`.
type StatusReport struct {
	Runtime  RuntimeStatus  `json:"runtime"`
	Server   ServerStatus   `json:"server"`
	Model    ModelStatus    `json:"model"`
	Shutdown ShutdownStatus `json:"shutdown"`
}

// Status builds the diagnostics report. It never fails; each section carries
// its own error.
func (m *Manager) Status(ctx context.Context) StatusReport {
	var r StatusReport

	r.Runtime.Image = m.rt.Image
	img, ok, err := m.proc.Image(ctx, m.rt.Image)
	if err != nil {
		r.Runtime.Error = err.Error()
	} else if ok {
		r.Runtime.Present = true
		r.Runtime.Size = img.Size
	}

	st := m.State(ctx)
	r.Server.URL = m.rt.BaseURL()
	r.Server.Process = st.Process
	r.Server.Reachable = st.Reachable

	r.Model.Name = m.rt.Model
	if in := m.getInspector(); in != nil && st.Reachable {
		if v, err := in.Version(ctx); err != nil {
			r.Server.Error = err.Error()
		} else {
			r.Server.Version = v
		}
		if tags, err := in.Models(ctx); err != nil {
			r.Model.Error = err.Error()
		} else if tag, ok := findModel(tags, m.rt.Model); ok {
			r.Model.Present = true
			r.Model.Quantization = tag.Details.QuantizationLevel
			r.Model.Size = tag.Size
		}
	} else if !st.Reachable {
		r.Server.Error = "server is not reachable"
		r.Model.Error = "server is not reachable"
	}

	r.Shutdown.Timer = m.rt.ShutdownName
	if t, ok, err := m.sched.Lookup(ctx, m.rt.ShutdownName); err != nil {
		r.Shutdown.Error = err.Error()
	} else if ok {
		r.Shutdown.Scheduled = true
		r.Shutdown.Next = t.Next
	}
	return r
}

// findModel matches by substring so "llama3.2" finds "llama3.2:latest".
func findModel(tags []types.ModelTag, model string) (types.ModelTag, bool) {
	for _, t := range tags {
		if t.Name == model || t.Model == model {
			return t, true
		}
	}
	for _, t := range tags {
		if strings.Contains(t.Name, model) {
			return t, true
		}
	}
	return types.ModelTag{}, false
}
