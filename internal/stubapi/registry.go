package stubapi

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
)

var (
	errEmailTaken = errors.New("email already registered")
	errBINTaken   = errors.New("bin already registered")
	errNoSuchUser = errors.New("user not found")
)

// UserRecord is a registered account held by the stub.
type UserRecord struct {
	ID           string
	Email        string
	Phone        string
	PasswordHash string
	Role         domain.Role
	Profile      domain.Profile
}

// Registry is the stub's in-memory account storage.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*UserRecord
	byEmail map[string]*UserRecord
	byBIN   map[string]*UserRecord
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*UserRecord),
		byEmail: make(map[string]*UserRecord),
		byBIN:   make(map[string]*UserRecord),
	}
}

// Create registers an account, enforcing unique email and business BIN.
func (r *Registry) Create(rec *UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[rec.Email]; exists {
		return errEmailTaken
	}
	var bin string
	if business, ok := rec.Profile.(domain.BusinessProfile); ok {
		bin = business.BIN
		if _, exists := r.byBIN[bin]; exists && bin != "" {
			return errBINTaken
		}
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.byID[rec.ID] = rec
	r.byEmail[rec.Email] = rec
	if bin != "" {
		r.byBIN[bin] = rec
	}
	return nil
}

// GetByEmail looks an account up by email.
func (r *Registry) GetByEmail(email string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byEmail[email]
	if !ok {
		return nil, errNoSuchUser
	}
	return rec, nil
}

// GetByID looks an account up by ID.
func (r *Registry) GetByID(id string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, errNoSuchUser
	}
	return rec, nil
}
