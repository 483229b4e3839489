package securestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps all values in a single encrypted file. The file layout
// is a fixed-size scrypt salt followed by one sealed JSON blob; every
// write replaces the file atomically via rename.
type FileStore struct {
	path       string
	passphrase string
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewFileStore opens (or prepares) the encrypted file at path. When the
// file already exists its contents are decrypted once to fail fast on a
// wrong passphrase.
func NewFileStore(path, passphrase string, logger *zap.Logger) (*FileStore, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("securestore: passphrase required for file backend")
	}
	s := &FileStore{path: path, passphrase: passphrase, logger: logger}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write stores a single value.
func (s *FileStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.persist(values)
}

// Read fetches a single value, ErrNotFound when absent.
func (s *FileStore) Read(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// DeleteAll removes the backing file. Readers never observe a partially
// cleared store because every operation holds the store mutex.
func (s *FileStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("securestore: clear file: %w", err)
	}
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("securestore: read file: %w", err)
	}
	if len(raw) <= saltSize {
		return nil, errCorruptBlob
	}

	box, err := newCipherBox(s.passphrase, raw[:saltSize])
	if err != nil {
		return nil, err
	}
	plaintext, err := box.open(raw[saltSize:])
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, errCorruptBlob
	}
	return values, nil
}

func (s *FileStore) persist(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("securestore: encode values: %w", err)
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	box, err := newCipherBox(s.passphrase, salt)
	if err != nil {
		return err
	}
	sealed, err := box.seal(plaintext)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("securestore: create dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(salt, sealed...), 0o600); err != nil {
		return fmt.Errorf("securestore: write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("securestore: replace file: %w", err)
	}
	return nil
}
