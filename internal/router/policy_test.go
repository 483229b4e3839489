package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/internal/session"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		state session.State
		want  Route
	}{
		{"worker home", session.State{Status: session.StatusAuthenticated, Role: domain.RoleWorker}, RouteWorkerHome},
		{"business shares client home", session.State{Status: session.StatusAuthenticated, Role: domain.RoleBusiness}, RouteClientHome},
		{"individual shares client home", session.State{Status: session.StatusAuthenticated, Role: domain.RoleIndividual}, RouteClientHome},
		{"authenticated without role falls back to entry", session.State{Status: session.StatusAuthenticated}, RouteEntry},
		{"unauthenticated", session.State{Status: session.StatusUnauthenticated}, RouteEntry},
		{"error", session.State{Status: session.StatusError, Message: "Login failed"}, RouteEntry},
		{"unknown holds", session.State{Status: session.StatusUnknown}, RouteNone},
		{"loading holds", session.State{Status: session.StatusLoading}, RouteNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Resolve(tc.state))
		})
	}
}
