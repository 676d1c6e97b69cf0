package shell

// State is the application lifecycle state
type State int32

const (
	StateNotStarted State = iota
	StateReady
	StateRunning
	StateQuitting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateQuitting:
		return "quitting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Signal is a process-level lifecycle event delivered by the platform
type Signal int

const (
	// SignalReady fires once when the platform can create windows
	SignalReady Signal = iota
	// SignalActivate fires on dock or taskbar reactivation
	SignalActivate
	// SignalAllClosed fires when the last window has closed
	SignalAllClosed
	// SignalWillQuit fires once the platform has committed to exiting
	SignalWillQuit
)

func (s Signal) String() string {
	switch s {
	case SignalReady:
		return "ready"
	case SignalActivate:
		return "activate"
	case SignalAllClosed:
		return "window-all-closed"
	case SignalWillQuit:
		return "will-quit"
	default:
		return "unknown"
	}
}
