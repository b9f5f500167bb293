package cache

import (
	"context"
	"sync"

	"github.com/hlra-health/profilesync/profiles"
)

// MemoryCache keeps profile sets for the lifetime of the process
type MemoryCache struct {
	mu   sync.RWMutex
	sets map[string]profiles.ProfileSet
}

var _ profiles.Cache = &MemoryCache{}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{sets: map[string]profiles.ProfileSet{}}
}

func (m *MemoryCache) Load(_ context.Context, accountId string) (*profiles.ProfileSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.sets[accountId]
	if !ok {
		return nil, nil
	}
	clone := set.Clone()
	return &clone, nil
}

func (m *MemoryCache) Save(_ context.Context, set profiles.ProfileSet) error {
	if err := validateAccountId(set.AccountId); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set.AccountId] = set.Clone()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, accountId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, accountId)
	return nil
}
