// Package router maps session states onto navigation targets. It is the
// contract consumed by presentation code; the session core never
// navigates itself.
package router

import (
	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/internal/session"
)

// Route names a home surface.
type Route string

const (
	// RouteNone means hold the current surface (unknown/loading states).
	RouteNone       Route = ""
	RouteEntry      Route = "entry"
	RouteWorkerHome Route = "worker_home"
	RouteClientHome Route = "client_home"
)

// Resolve picks the navigation target for a session state. Business and
// individual accounts share the client home surface.
func Resolve(state session.State) Route {
	switch state.Status {
	case session.StatusAuthenticated:
		switch state.Role {
		case domain.RoleWorker:
			return RouteWorkerHome
		case domain.RoleBusiness, domain.RoleIndividual:
			return RouteClientHome
		default:
			// Authenticated without a usable role should not happen;
			// send the user back through entry rather than guessing.
			return RouteEntry
		}
	case session.StatusUnauthenticated, session.StatusError:
		return RouteEntry
	default:
		return RouteNone
	}
}
