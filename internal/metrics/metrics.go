// Package metrics holds the prometheus collectors for sllm. A CLI process is
// short-lived, so metrics are exported by writing a node_exporter textfile
// rather than by serving /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry every sllm collector is registered with.
var Registry = prometheus.NewRegistry()

var (
	chatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sllm",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of chat-completion requests",
		},
		[]string{"kind", "outcome"},
	)

	chatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sllm",
			Subsystem: "chat",
			Name:      "request_duration_seconds",
			Help:      "Duration of chat-completion requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	chatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sllm",
			Subsystem: "chat",
			Name:      "tokens_total",
			Help:      "Tokens reported by the model server",
		},
		[]string{"type"},
	)

	readinessAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sllm",
			Subsystem: "runtime",
			Name:      "readiness_attempts",
			Help:      "Health probes issued while waiting for the server to start",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
	)

	lifecycleOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sllm",
			Subsystem: "runtime",
			Name:      "operations_total",
			Help:      "Lifecycle operations by outcome",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	Registry.MustRegister(chatRequestsTotal, chatRequestDuration, chatTokensTotal, readinessAttempts, lifecycleOpsTotal)
}

// ObserveChat records one chat request. kind is "canary" or "completion".
func ObserveChat(kind, outcome string, d time.Duration) {
	chatRequestsTotal.WithLabelValues(kind, outcome).Inc()
	chatRequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddTokens records prompt and completion token counts.
func AddTokens(prompt, completion int) {
	if prompt > 0 {
		chatTokensTotal.WithLabelValues("prompt").Add(float64(prompt))
	}
	if completion > 0 {
		chatTokensTotal.WithLabelValues("completion").Add(float64(completion))
	}
}

// ObserveReadiness records how many probes a start needed.
func ObserveReadiness(attempts int) {
	readinessAttempts.Observe(float64(attempts))
}

// LifecycleOp counts a lifecycle operation. err == nil counts as "ok".
func LifecycleOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	lifecycleOpsTotal.WithLabelValues(op, outcome).Inc()
}

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
