package dto

import (
	"fmt"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
)

// LoginRequest payload for POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPairResponse is the success body of login and registration.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Pair converts the wire body into the domain credential pair.
func (r TokenPairResponse) Pair() domain.CredentialPair {
	return domain.CredentialPair{Access: r.Access, Refresh: r.Refresh}
}

// RegisterRequest payload for POST /auth/register/. Profile carries the
// role-specific variant selected by UserType.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
	Profile  any    `json:"profile"`
}

// WorkerProfilePayload is the worker registration profile body.
type WorkerProfilePayload struct {
	FullName string `json:"full_name"`
}

// BusinessProfilePayload is the business registration profile body.
type BusinessProfilePayload struct {
	CompanyName   string `json:"company_name"`
	BIN           string `json:"bin"`
	INN           string `json:"inn"`
	LegalAddress  string `json:"legal_address"`
	ContactName   string `json:"contact_name"`
	ContactNumber string `json:"contact_number"`
}

// IndividualProfilePayload is the individual registration profile body.
type IndividualProfilePayload struct {
	FullNameRu string `json:"full_name_ru"`
}

// NewRegisterRequest builds the wire payload from a domain registration.
func NewRegisterRequest(reg domain.Registration) (RegisterRequest, error) {
	req := RegisterRequest{
		Email:    reg.Email,
		Password: reg.Password,
		Phone:    reg.Phone,
		UserType: string(reg.Role),
	}

	switch profile := reg.Profile.(type) {
	case domain.WorkerProfile:
		req.Profile = WorkerProfilePayload{FullName: profile.FullName}
	case domain.BusinessProfile:
		req.Profile = BusinessProfilePayload{
			CompanyName:   profile.CompanyName,
			BIN:           profile.BIN,
			INN:           profile.INN,
			LegalAddress:  profile.LegalAddress,
			ContactName:   profile.ContactName,
			ContactNumber: profile.ContactNumber,
		}
	case domain.IndividualProfile:
		req.Profile = IndividualProfilePayload{FullNameRu: profile.FullNameRu}
	default:
		return RegisterRequest{}, fmt.Errorf("registration profile missing or unknown")
	}

	if reg.Profile.Role() != reg.Role {
		return RegisterRequest{}, fmt.Errorf("registration profile does not match role %q", reg.Role)
	}
	return req, nil
}

// MeResponse is the role-discriminated body of GET /auth/me/. Role
// fields arrive flattened next to the common account fields.
type MeResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`

	FullName string `json:"full_name,omitempty"`

	CompanyName   string `json:"company_name,omitempty"`
	BIN           string `json:"bin,omitempty"`
	INN           string `json:"inn,omitempty"`
	LegalAddress  string `json:"legal_address,omitempty"`
	ContactName   string `json:"contact_name,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`

	FullNameRu string `json:"full_name_ru,omitempty"`
}

// Account decodes the tagged union by user_type. Unrecognized tags fail
// explicitly instead of defaulting to a variant.
func (m MeResponse) Account() (*domain.Account, error) {
	role, err := domain.ParseRole(m.UserType)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:    m.ID,
		Email: m.Email,
		Phone: m.Phone,
		Role:  role,
	}

	switch role {
	case domain.RoleWorker:
		account.Profile = domain.WorkerProfile{FullName: m.FullName}
	case domain.RoleBusiness:
		account.Profile = domain.BusinessProfile{
			CompanyName:   m.CompanyName,
			BIN:           m.BIN,
			INN:           m.INN,
			LegalAddress:  m.LegalAddress,
			ContactName:   m.ContactName,
			ContactNumber: m.ContactNumber,
		}
	case domain.RoleIndividual:
		account.Profile = domain.IndividualProfile{FullNameRu: m.FullNameRu}
	}
	return account, nil
}

// RefreshRequest payload for POST /auth/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is the success body of a token refresh.
type RefreshResponse struct {
	Access string `json:"access"`
}
