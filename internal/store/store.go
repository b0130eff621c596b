// Package store persists user settings as independent JSON documents in
// a generic key-value store. Every key loads with a safe default on
// missing or corrupt data and is saved on every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Well-known settings keys.
const (
	KeyOfferings       = "offerings"
	KeySavedProjects   = "saved_projects"
	KeyAppliedProjects = "applied_projects"
	KeyNotes           = "notes"
	KeyTemplate        = "proposal_template"
	KeyDisplayName     = "display_name"
)

// ErrNotFound is returned when a key has never been saved.
var ErrNotFound = errors.New("setting not found")

// Store is the persistence port for user settings.
type Store interface {
	Load(ctx context.Context, key string, into any) error
	Save(ctx context.Context, key string, value any) error
}

// LoadOr fills into from the store, falling back to the zero value on a
// missing key and logging (not failing) on corrupt data.
func LoadOr(ctx context.Context, s Store, logger *zap.Logger, key string, into any) {
	err := s.Load(ctx, key, into)
	if err == nil || errors.Is(err, ErrNotFound) {
		return
	}
	if logger != nil {
		logger.Warn("ignoring corrupt persisted setting",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Memory is an in-process Store used in tests and store-less runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string, into any) error {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, into)
}

func (m *Memory) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
