package model

// State is the recorded operational state of a service.
type State string

const (
	StateUnset State = ""
	StateOK    State = "OK"
	StateNotOK State = "Not OK"
)

// Canned comments written by a state toggle.
const (
	CommentConnected = "Connected"
	CommentFailure   = "Connection Failure"
)

// Label returns the text shown for the state; unset services read as a prompt.
func (s State) Label() string {
	if s == StateUnset {
		return "click here to set state"
	}
	return string(s)
}

// Touched reports whether the state was ever set.
func (s State) Touched() bool {
	return s == StateOK || s == StateNotOK
}

// Service is a single checkable item of a system.
type Service struct {
	Name    string `json:"name" yaml:"name"`
	State   State  `json:"state" yaml:"state"`
	Comment string `json:"comment" yaml:"comment"`
}

// Task groups the services of one network system on the checklist.
type Task struct {
	ID       string    `json:"id" yaml:"id"`
	System   string    `json:"system" yaml:"system"`
	Services []Service `json:"services" yaml:"services"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Services = append([]Service(nil), t.Services...)
	return out
}
