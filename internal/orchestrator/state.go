package orchestrator

import "time"

// State is a step of a launch run.
type State int

const (
	StateIdle State = iota
	StateInstallingDeps
	StateStartingBackend
	StateWaitingBackend
	StateStartingFrontend
	StateWaitingFrontend
	StateVerifying
	StateRunning
	StateShuttingDown
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateInstallingDeps:   "installing-deps",
	StateStartingBackend:  "starting-backend",
	StateWaitingBackend:   "waiting-backend",
	StateStartingFrontend: "starting-frontend",
	StateWaitingFrontend:  "waiting-frontend",
	StateVerifying:        "verifying",
	StateRunning:          "running",
	StateShuttingDown:     "shutting-down",
	StateDone:             "done",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Transition records a state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}
