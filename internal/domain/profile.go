package domain

// Profile is the role-discriminated profile attached to an account.
// Exactly one concrete variant exists per Role.
type Profile interface {
	Role() Role
}

// WorkerProfile is the profile variant for worker accounts.
type WorkerProfile struct {
	FullName string
}

// Role identifies the variant.
func (WorkerProfile) Role() Role { return RoleWorker }

// BusinessProfile is the profile variant for business accounts.
type BusinessProfile struct {
	CompanyName   string
	BIN           string
	INN           string
	LegalAddress  string
	ContactName   string
	ContactNumber string
}

// Role identifies the variant.
func (BusinessProfile) Role() Role { return RoleBusiness }

// IndividualProfile is the profile variant for individual client accounts.
type IndividualProfile struct {
	FullNameRu string
}

// Role identifies the variant.
func (IndividualProfile) Role() Role { return RoleIndividual }

// Account is the /me view of the authenticated user. It is fetched on
// demand and never persisted beyond the session lifetime.
type Account struct {
	ID      string
	Email   string
	Phone   string
	Role    Role
	Profile Profile
}
