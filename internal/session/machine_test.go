package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/pkg/util/errorutil"
)

type fakeRepo struct {
	mu       sync.Mutex
	loggedIn bool
	role     domain.Role

	loginErr    error
	registerErr error
	logoutErr   error
	loginDelay  time.Duration

	calls []string
}

func (f *fakeRepo) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeRepo) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeRepo) Login(_ context.Context, _, _ string) error {
	f.record("login")
	time.Sleep(f.loginDelay)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.mu.Lock()
	f.loggedIn = true
	f.mu.Unlock()
	return nil
}

func (f *fakeRepo) Register(_ context.Context, reg domain.Registration) error {
	f.record("register")
	if f.registerErr != nil {
		return f.registerErr
	}
	f.mu.Lock()
	f.loggedIn = true
	f.role = reg.Role
	f.mu.Unlock()
	return nil
}

func (f *fakeRepo) Logout(_ context.Context) error {
	f.record("logout")
	f.mu.Lock()
	f.loggedIn = false
	f.role = ""
	f.mu.Unlock()
	return f.logoutErr
}

func (f *fakeRepo) IsLoggedIn(_ context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeRepo) CurrentRole(_ context.Context) (domain.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.role, f.role != ""
}

func startMachine(t *testing.T, repo Repository) (*Machine, <-chan State) {
	t.Helper()

	machine := NewMachine(repo, zap.NewNop())
	states := make(chan State, 32)
	machine.Subscribe(func(s State) { states <- s })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go machine.Run(ctx)

	return machine, states
}

func nextState(t *testing.T, states <-chan State) State {
	t.Helper()
	select {
	case s := <-states:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return State{}
	}
}

func TestMachine_InitialStateUnknown(t *testing.T) {
	t.Parallel()

	machine := NewMachine(&fakeRepo{}, zap.NewNop())
	require.Equal(t, StatusUnknown, machine.Current().Status)
}

func TestMachine_CheckOnEmptyStore(t *testing.T) {
	t.Parallel()

	machine, states := startMachine(t, &fakeRepo{})
	machine.Dispatch(CheckRequested{})

	// The fast local check emits no Loading.
	state := nextState(t, states)
	require.Equal(t, StatusUnauthenticated, state.Status)
}

func TestMachine_CheckIdempotent(t *testing.T) {
	t.Parallel()

	machine, states := startMachine(t, &fakeRepo{loggedIn: true, role: domain.RoleWorker})

	machine.Dispatch(CheckRequested{})
	machine.Dispatch(CheckRequested{})

	first := nextState(t, states)
	second := nextState(t, states)
	require.Equal(t, first, second)
	require.Equal(t, StatusAuthenticated, first.Status)
	require.Equal(t, domain.RoleWorker, first.Role)
}

func TestMachine_CheckWithTokenButNoRole(t *testing.T) {
	t.Parallel()

	machine, states := startMachine(t, &fakeRepo{loggedIn: true})
	machine.Dispatch(CheckRequested{})

	require.Equal(t, StatusUnauthenticated, nextState(t, states).Status)
}

func TestMachine_LoginSuccess(t *testing.T) {
	t.Parallel()

	machine, states := startMachine(t, &fakeRepo{role: domain.RoleWorker})
	machine.Dispatch(LoginRequested{Email: "worker@example.com", Password: "pass"})

	require.Equal(t, StatusLoading, nextState(t, states).Status)

	state := nextState(t, states)
	require.Equal(t, StatusAuthenticated, state.Status)
	require.Equal(t, domain.RoleWorker, state.Role)
}

func TestMachine_LoginFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{loginErr: errorutil.NewValidation("Login failed")}
	machine, states := startMachine(t, repo)
	machine.Dispatch(LoginRequested{Email: "w@example.com", Password: "nope"})

	require.Equal(t, StatusLoading, nextState(t, states).Status)

	state := nextState(t, states)
	require.Equal(t, StatusError, state.Status)
	require.Equal(t, "Login failed", state.Message)
}

func TestMachine_ErrorIsNotSticky(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{loginErr: errors.New("boom")}
	machine, states := startMachine(t, repo)

	machine.Dispatch(LoginRequested{})
	require.Equal(t, StatusLoading, nextState(t, states).Status)
	require.Equal(t, StatusError, nextState(t, states).Status)

	machine.Dispatch(CheckRequested{})
	require.Equal(t, StatusUnauthenticated, nextState(t, states).Status)
}

func TestMachine_RegisterSuccess(t *testing.T) {
	t.Parallel()

	machine, states := startMachine(t, &fakeRepo{})
	machine.Dispatch(RegisterRequested{Registration: domain.Registration{
		Role:    domain.RoleBusiness,
		Profile: domain.BusinessProfile{CompanyName: "LLP", BIN: "1"},
	}})

	require.Equal(t, StatusLoading, nextState(t, states).Status)

	state := nextState(t, states)
	require.Equal(t, StatusAuthenticated, state.Status)
	require.Equal(t, domain.RoleBusiness, state.Role)
}

func TestMachine_LogoutNeverFailsObservably(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{loggedIn: true, role: domain.RoleWorker, logoutErr: errors.New("store down")}
	machine, states := startMachine(t, repo)
	machine.Dispatch(LogoutRequested{})

	require.Equal(t, StatusLoading, nextState(t, states).Status)
	require.Equal(t, StatusUnauthenticated, nextState(t, states).Status)
}

func TestMachine_EventsProcessedInArrivalOrder(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{role: domain.RoleWorker, loginDelay: 100 * time.Millisecond}
	machine, states := startMachine(t, repo)

	// Both queued before the first resolves: the logout must not start
	// until the login's transition is emitted.
	machine.Dispatch(LoginRequested{Email: "w@example.com", Password: "pass"})
	machine.Dispatch(LogoutRequested{})

	var statuses []Status
	for i := 0; i < 4; i++ {
		statuses = append(statuses, nextState(t, states).Status)
	}
	require.Equal(t, []Status{StatusLoading, StatusAuthenticated, StatusLoading, StatusUnauthenticated}, statuses)
	require.Equal(t, []string{"login", "logout"}, repo.callOrder())
}
