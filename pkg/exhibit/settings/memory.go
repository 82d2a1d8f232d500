package settings

import (
	"context"
	"sync"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

// MemoryStore keeps settings in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]models.Settings
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.Settings)}
}

// Load returns the settings saved for widgetID, or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context, widgetID string) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[widgetID]
	if !ok {
		return models.Settings{}, ErrNotFound
	}
	return v, nil
}

// Save stores v for widgetID as given.
func (s *MemoryStore) Save(_ context.Context, widgetID string, v models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[widgetID] = v
	return nil
}
