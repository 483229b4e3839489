package stubapi

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Dastanbekov/jumushtap1/internal/domain"
)

// TokenManager issues and validates the stub's JWT pairs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims describes the stub JWT payload.
type Claims struct {
	UserType  domain.Role `json:"user_type"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

// GeneratePair signs an access/refresh pair for the user.
func (tm *TokenManager) GeneratePair(userID string, role domain.Role) (access, refresh string, err error) {
	access, err = tm.sign(userID, role, "access", tm.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = tm.sign(userID, role, "refresh", tm.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GenerateAccess signs a fresh access token, used by the refresh endpoint.
func (tm *TokenManager) GenerateAccess(userID string, role domain.Role) (string, error) {
	return tm.sign(userID, role, "access", tm.accessTTL)
}

func (tm *TokenManager) sign(userID string, role domain.Role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserType:  role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Parse validates a token and checks its token_type discriminator.
func (tm *TokenManager) Parse(tokenStr, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != wantType {
		return nil, errors.New("wrong token type")
	}
	return claims, nil
}
