package domain

import "fmt"

// Role discriminates the three mutually-exclusive account kinds.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleBusiness   Role = "business"
	RoleIndividual Role = "individual"
)

// ParseRole maps a backend user_type value onto a Role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleWorker, RoleBusiness, RoleIndividual:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown user type %q", value)
	}
}

// Valid reports whether the role is one of the known kinds.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
