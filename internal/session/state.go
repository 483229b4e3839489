// Package session holds the single source of truth for session status.
// The machine consumes repository results and exposes a state stream to
// the presentation layer.
package session

import "github.com/Dastanbekov/jumushtap1/internal/domain"

// Status enumerates session lifecycle states.
type Status string

const (
	// StatusUnknown is the initial state at process start. Nothing
	// transitions back to it; only a restart recreates it.
	StatusUnknown Status = "unknown"
	// StatusLoading is transient, entered for every in-flight operation
	// except the fast local check.
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	// StatusError is not sticky: any subsequent event transitions away.
	StatusError Status = "error"
)

// State is the externally visible session state. Role is set only when
// Status is authenticated; Message only when Status is error.
type State struct {
	Status  Status
	Role    domain.Role
	Message string
}

func unknown() State         { return State{Status: StatusUnknown} }
func loading() State         { return State{Status: StatusLoading} }
func unauthenticated() State { return State{Status: StatusUnauthenticated} }

func authenticated(role domain.Role) State {
	return State{Status: StatusAuthenticated, Role: role}
}

func failed(message string) State {
	return State{Status: StatusError, Message: message}
}
