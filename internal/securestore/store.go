// Package securestore provides encrypted-at-rest key/value persistence
// for session artifacts: the token pair and the resolved role tag.
package securestore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/config"
)

// Keys used by the auth repository.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserType     = "user_type"
)

// ErrNotFound is returned by Read when the key is absent.
var ErrNotFound = errors.New("securestore: key not found")

// Store is durable, encrypted key/value persistence. DeleteAll is atomic
// with respect to concurrent reads: no reader observes a partially
// cleared store.
type Store interface {
	Write(ctx context.Context, key, value string) error
	Read(ctx context.Context, key string) (string, error)
	DeleteAll(ctx context.Context) error
}

// New selects a store backend from configuration.
func New(cfg config.StoreConfig, redisCfg config.RedisConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.Path, cfg.Passphrase, logger)
	case "redis":
		return NewRedisStore(redisCfg, cfg.Passphrase, logger)
	case "memory":
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
