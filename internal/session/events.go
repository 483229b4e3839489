package session

import "github.com/Dastanbekov/jumushtap1/internal/domain"

// Event is the closed set of inputs the machine accepts. The unexported
// marker keeps the set sealed to this package.
type Event interface {
	isEvent()
}

// CheckRequested asks for a fast local session probe. It emits no
// Loading state.
type CheckRequested struct{}

// LoginRequested starts a login round trip.
type LoginRequested struct {
	Email    string
	Password string
}

// RegisterRequested starts a registration round trip.
type RegisterRequested struct {
	Registration domain.Registration
}

// LogoutRequested clears the session. It never fails observably.
type LogoutRequested struct{}

func (CheckRequested) isEvent()    {}
func (LoginRequested) isEvent()    {}
func (RegisterRequested) isEvent() {}
func (LogoutRequested) isEvent()   {}
