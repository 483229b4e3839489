package securestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/config"
)

// RedisStore keeps sealed values in Redis. Intended for headless
// deployments (kiosks, shared terminals) where no local filesystem
// should hold session artifacts.
type RedisStore struct {
	client *redis.Client
	box    *cipherBox
	prefix string
	logger *zap.Logger
}

// NewRedisStore connects to Redis using the provided configuration. The
// per-store salt lives under <prefix>:salt and is created on first use.
func NewRedisStore(cfg config.RedisConfig, passphrase string, logger *zap.Logger) (*RedisStore, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("securestore: passphrase required for redis backend")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	s := &RedisStore{client: client, prefix: cfg.KeyPrefix, logger: logger}
	salt, err := s.ensureSalt(ctx)
	if err != nil {
		return nil, err
	}
	box, err := newCipherBox(passphrase, salt)
	if err != nil {
		return nil, err
	}
	s.box = box
	return s, nil
}

// Write stores a single sealed value.
func (s *RedisStore) Write(ctx context.Context, key, value string) error {
	sealed, err := s.box.seal([]byte(value))
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(key), sealed, 0).Err(); err != nil {
		return fmt.Errorf("securestore: redis set: %w", err)
	}
	return nil
}

// Read fetches a single value, ErrNotFound when absent.
func (s *RedisStore) Read(ctx context.Context, key string) (string, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("securestore: redis get: %w", err)
	}
	plaintext, err := s.box.open(raw)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DeleteAll removes every session key in one DEL, which Redis applies
// atomically.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	keys := []string{s.key(KeyAccessToken), s.key(KeyRefreshToken), s.key(KeyUserType)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("securestore: redis del: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() {
	if s != nil && s.client != nil {
		_ = s.client.Close()
	}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *RedisStore) ensureSalt(ctx context.Context) ([]byte, error) {
	saltKey := s.prefix + ":salt"

	salt, err := s.client.Get(ctx, saltKey).Bytes()
	if err == nil && len(salt) == saltSize {
		return salt, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("securestore: redis get salt: %w", err)
	}

	salt, err = newSalt()
	if err != nil {
		return nil, err
	}
	// SETNX so two processes sharing the prefix agree on one salt.
	set, err := s.client.SetNX(ctx, saltKey, salt, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("securestore: redis set salt: %w", err)
	}
	if !set {
		salt, err = s.client.Get(ctx, saltKey).Bytes()
		if err != nil {
			return nil, fmt.Errorf("securestore: redis get salt: %w", err)
		}
	}
	return salt, nil
}
