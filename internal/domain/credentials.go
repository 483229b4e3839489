package domain

// CredentialPair is the token pair issued by login and registration.
// Lifetimes are backend-defined and opaque to the client.
type CredentialPair struct {
	Access  string
	Refresh string
}

// Valid reports whether both tokens are present. An incomplete pair is
// discarded rather than partially stored.
func (p CredentialPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}

// Registration is the client-side registration payload. Profile must
// match Role; the repository rejects mismatched payloads before any
// network call.
type Registration struct {
	Email    string
	Password string
	Phone    string
	Role     Role
	Profile  Profile
}
