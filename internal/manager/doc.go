// Package manager owns the lifecycle of the local model server container.
// It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: lifecycle State, derived ServerState.
//   - adapter_iface.go: ProcessManager, TaskScheduler and ServerInspector ports.
//   - errors.go: error types and helpers (IsPullFailed, IsStartFailed, IsReadinessTimeout).
//   - probe.go: HTTP health probe.
//   - poll.go: Clock and the bounded readiness poll.
//   - ensure.go: EnsureRuntimeDownloaded / EnsureStarted / Ensure.
//   - shutdown.go: idle-shutdown timer scheduling, cancellation and Stop.
//   - status_report.go: diagnostics report for `sllm status`.
//   - sanity.go: presence of the external binaries.
//
// Every query re-derives state from the container runtime and the health
// endpoint; the Manager keeps only the last transition for logging. Two sllm
// processes may race on the same named container; nothing guards against it.
package manager
