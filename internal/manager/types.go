package manager

// State is the lifecycle position of the server as last observed by this
// Manager.
type State string

const (
	StateUnknown           State = "unknown"
	StateDownloading       State = "downloading"
	StateStopped           State = "stopped"
	StateStarting          State = "starting"
	StateRunning           State = "running"
	StateShutdownScheduled State = "shutdown_scheduled"
)

// Process states reported in ServerState.
const (
	ProcessRunning = "running"
	ProcessStopped = "stopped"
	ProcessUnknown = "unknown"
)

// ServerState is derived on demand from the container runtime and the health
// endpoint. It is never cached.
type ServerState struct {
	Process   string // ProcessRunning, ProcessStopped or ProcessUnknown
	Status    string // raw runtime status (running, exited, ...)
	Reachable bool   // health endpoint answered 2xx
}

// Running reports whether the server can take requests.
func (s ServerState) Running() bool {
	return s.Process == ProcessRunning && s.Reachable
}
