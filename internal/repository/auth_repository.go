// Package repository orchestrates network calls and secure store
// reads/writes into the auth domain operations. It is a stateless
// mediator: the store owns durable artifacts, the session machine owns
// the in-memory status.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/api"
	"github.com/Dastanbekov/jumushtap1/internal/api/dto"
	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/internal/securestore"
	"github.com/Dastanbekov/jumushtap1/pkg/util/errorutil"
)

// AuthRepository performs login, registration, profile and session
// queries against the backend and the secure store.
type AuthRepository struct {
	client *api.Client
	store  securestore.Store
	logger *zap.Logger
}

// SessionInfo is an unverified view of the stored access token's claims,
// for display purposes only. Validity is decided by the backend.
type SessionInfo struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewAuthRepository builds the repository.
func NewAuthRepository(client *api.Client, store securestore.Store, logger *zap.Logger) *AuthRepository {
	return &AuthRepository{client: client, store: store, logger: logger}
}

// Login exchanges credentials for a token pair, persists it and resolves
// the role from /auth/me/. When the profile fetch fails the token write
// is rolled back so no partial session survives.
func (r *AuthRepository) Login(ctx context.Context, email, password string) error {
	resp, err := r.client.Post(ctx, "/auth/login/", dto.LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorutil.FromResponse(resp.Status, resp.Body)
	}

	pair, err := decodePair(resp)
	if err != nil {
		return err
	}
	if err := r.writePair(ctx, pair); err != nil {
		return err
	}

	account, err := r.fetchAccount(ctx, pair.Access)
	if err != nil {
		r.rollback(ctx)
		return errorutil.Normalize(err)
	}
	if err := r.store.Write(ctx, securestore.KeyUserType, string(account.Role)); err != nil {
		r.rollback(ctx)
		return errorutil.NewStorage(err)
	}

	r.logger.Info("session established", zap.String("role", string(account.Role)))
	return nil
}

// Register creates an account and establishes a session like Login. The
// role comes from /auth/me/; when that fetch fails after a successful
// registration the user_type supplied in the payload is trusted instead,
// since it is known a priori.
func (r *AuthRepository) Register(ctx context.Context, reg domain.Registration) error {
	payload, err := dto.NewRegisterRequest(reg)
	if err != nil {
		return errorutil.NewValidation(err.Error())
	}

	resp, err := r.client.Post(ctx, "/auth/register/", payload, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorutil.FromResponse(resp.Status, resp.Body)
	}

	pair, err := decodePair(resp)
	if err != nil {
		return err
	}
	if err := r.writePair(ctx, pair); err != nil {
		return err
	}

	role := reg.Role
	if account, err := r.fetchAccount(ctx, pair.Access); err != nil {
		r.logger.Warn("profile fetch after registration failed, trusting payload role", zap.Error(err))
	} else {
		role = account.Role
	}
	if err := r.store.Write(ctx, securestore.KeyUserType, string(role)); err != nil {
		r.rollback(ctx)
		return errorutil.NewStorage(err)
	}

	r.logger.Info("account registered", zap.String("role", string(role)))
	return nil
}

// GetProfile fetches /auth/me/ with the stored access token. It never
// refreshes silently: an expired token surfaces as a failure.
func (r *AuthRepository) GetProfile(ctx context.Context) (*domain.Account, error) {
	access, err := r.store.Read(ctx, securestore.KeyAccessToken)
	if errors.Is(err, securestore.ErrNotFound) {
		return nil, errorutil.NewSessionAbsent("no active session")
	}
	if err != nil {
		return nil, errorutil.NewStorage(err)
	}
	return r.fetchAccount(ctx, access)
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. It is never invoked implicitly by other operations.
func (r *AuthRepository) Refresh(ctx context.Context) error {
	refresh, err := r.store.Read(ctx, securestore.KeyRefreshToken)
	if errors.Is(err, securestore.ErrNotFound) {
		return errorutil.NewSessionAbsent("no refresh token stored")
	}
	if err != nil {
		return errorutil.NewStorage(err)
	}

	resp, err := r.client.Post(ctx, "/auth/token/refresh/", dto.RefreshRequest{Refresh: refresh}, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorutil.FromResponse(resp.Status, resp.Body)
	}

	var body dto.RefreshResponse
	if err := api.Decode(resp, &body); err != nil {
		return err
	}
	if body.Access == "" {
		return errorutil.NewMalformedResponse("refresh response is missing the access token")
	}
	if err := r.store.Write(ctx, securestore.KeyAccessToken, body.Access); err != nil {
		return errorutil.NewStorage(err)
	}
	return nil
}

// Logout clears all stored session artifacts. It always succeeds from
// the caller's perspective; a failing store is treated as already
// logged out.
func (r *AuthRepository) Logout(ctx context.Context) error {
	if err := r.store.DeleteAll(ctx); err != nil {
		r.logger.Warn("clearing session store failed, treating as logged out", zap.Error(err))
	}
	return nil
}

// IsLoggedIn reports whether an access token is stored. This is a local
// liveness check only; it validates neither expiry nor signature.
func (r *AuthRepository) IsLoggedIn(ctx context.Context) bool {
	_, err := r.store.Read(ctx, securestore.KeyAccessToken)
	return err == nil
}

// CurrentRole reads the cached role tag without a network call.
func (r *AuthRepository) CurrentRole(ctx context.Context) (domain.Role, bool) {
	value, err := r.store.Read(ctx, securestore.KeyUserType)
	if err != nil {
		return "", false
	}
	role, err := domain.ParseRole(value)
	if err != nil {
		return "", false
	}
	return role, true
}

// SessionInfo decodes the stored access token's claims without verifying
// the signature.
func (r *AuthRepository) SessionInfo(ctx context.Context) (*SessionInfo, error) {
	access, err := r.store.Read(ctx, securestore.KeyAccessToken)
	if errors.Is(err, securestore.ErrNotFound) {
		return nil, errorutil.NewSessionAbsent("no active session")
	}
	if err != nil {
		return nil, errorutil.NewStorage(err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, errorutil.NewMalformedResponse("stored access token is not a valid JWT")
	}

	info := &SessionInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if role, ok := r.CurrentRole(ctx); ok {
		info.Role = role
	}
	return info, nil
}

func (r *AuthRepository) fetchAccount(ctx context.Context, access string) (*domain.Account, error) {
	resp, err := r.client.Get(ctx, "/auth/me/", access)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorutil.FromResponse(resp.Status, resp.Body)
	}

	var body dto.MeResponse
	if err := api.Decode(resp, &body); err != nil {
		return nil, err
	}
	account, err := body.Account()
	if err != nil {
		// Unknown role tags degrade to profile-unavailable, never a crash.
		return nil, errorutil.NewMalformedResponse("profile unavailable: " + err.Error())
	}
	return account, nil
}

func decodePair(resp *api.Response) (domain.CredentialPair, error) {
	var body dto.TokenPairResponse
	if err := api.Decode(resp, &body); err != nil {
		return domain.CredentialPair{}, err
	}
	pair := body.Pair()
	if !pair.Valid() {
		return domain.CredentialPair{}, errorutil.NewMalformedResponse("token payload is missing access or refresh token")
	}
	return pair, nil
}

func (r *AuthRepository) writePair(ctx context.Context, pair domain.CredentialPair) error {
	if err := r.store.Write(ctx, securestore.KeyAccessToken, pair.Access); err != nil {
		return errorutil.NewStorage(err)
	}
	if err := r.store.Write(ctx, securestore.KeyRefreshToken, pair.Refresh); err != nil {
		r.rollback(ctx)
		return errorutil.NewStorage(err)
	}
	return nil
}

func (r *AuthRepository) rollback(ctx context.Context) {
	if err := r.store.DeleteAll(ctx); err != nil {
		r.logger.Warn("session rollback failed", zap.Error(err))
	}
}
