package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/pkg/util/errorutil"
)

const mailboxSize = 16

// Repository is the slice of the auth repository the machine depends on.
type Repository interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, reg domain.Registration) error
	Logout(ctx context.Context) error
	IsLoggedIn(ctx context.Context) bool
	CurrentRole(ctx context.Context) (domain.Role, bool)
}

// Machine is the sole mutator of session status. Events are processed
// strictly one at a time in arrival order: an event's repository call,
// network round trip included, fully resolves before the next event
// starts.
type Machine struct {
	repo     Repository
	logger   *zap.Logger
	notifier *notifier
	mailbox  chan Event

	mu      sync.RWMutex
	current State
}

// NewMachine builds a machine in the Unknown state. Run must be started
// for dispatched events to be processed.
func NewMachine(repo Repository, logger *zap.Logger) *Machine {
	return &Machine{
		repo:     repo,
		logger:   logger,
		notifier: newNotifier(),
		mailbox:  make(chan Event, mailboxSize),
		current:  unknown(),
	}
}

// Subscribe registers a listener for every emitted state.
func (m *Machine) Subscribe(l Listener) {
	m.notifier.subscribe(l)
}

// Current returns a snapshot of the session state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Dispatch enqueues an event. A full mailbox blocks the caller rather
// than reordering or dropping events.
func (m *Machine) Dispatch(event Event) {
	m.mailbox <- event
}

// Run consumes the mailbox until ctx is cancelled. It is the single
// worker; starting it more than once would break event serialization.
func (m *Machine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-m.mailbox:
			m.handle(ctx, event)
		}
	}
}

func (m *Machine) handle(ctx context.Context, event Event) {
	switch e := event.(type) {
	case CheckRequested:
		// Fast local probe, no Loading emitted.
		if !m.repo.IsLoggedIn(ctx) {
			m.emit(unauthenticated())
			return
		}
		role, ok := m.repo.CurrentRole(ctx)
		if !ok {
			m.emit(unauthenticated())
			return
		}
		m.emit(authenticated(role))

	case LoginRequested:
		m.emit(loading())
		if err := m.repo.Login(ctx, e.Email, e.Password); err != nil {
			m.emit(failed(errorutil.Message(err)))
			return
		}
		m.emitAuthenticated(ctx)

	case RegisterRequested:
		m.emit(loading())
		if err := m.repo.Register(ctx, e.Registration); err != nil {
			m.emit(failed(errorutil.Message(err)))
			return
		}
		m.emitAuthenticated(ctx)

	case LogoutRequested:
		m.emit(loading())
		_ = m.repo.Logout(ctx)
		m.emit(unauthenticated())

	default:
		m.logger.Warn("unhandled session event")
	}
}

func (m *Machine) emitAuthenticated(ctx context.Context) {
	role, _ := m.repo.CurrentRole(ctx)
	m.emit(authenticated(role))
}

func (m *Machine) emit(state State) {
	m.mu.Lock()
	m.current = state
	m.mu.Unlock()

	m.logger.Debug("session state",
		zap.String("status", string(state.Status)),
		zap.String("role", string(state.Role)),
	)
	m.notifier.publish(state)
}
