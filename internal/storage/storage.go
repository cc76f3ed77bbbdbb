package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"authform/internal/models"
)

// CredentialsKey is the single record written after a successful authentication
const CredentialsKey = "user"

var ErrNotFound = errors.New("storage: key not found")

// Storage is the persistent client-side key/value capability
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SaveCredentials overwrites the credentials record
func SaveCredentials(ctx context.Context, s Storage, c models.Credentials) error {
	buf, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := s.Set(ctx, CredentialsKey, string(buf)); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	return nil
}

// LoadCredentials reads the credentials record back. ErrNotFound if nobody is signed in
func LoadCredentials(ctx context.Context, s Storage) (models.Credentials, error) {
	raw, err := s.Get(ctx, CredentialsKey)
	if err != nil {
		return models.Credentials{}, err
	}
	var c models.Credentials
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return models.Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return c, nil
}

// MemoryStore keeps values for the lifetime of the process
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
