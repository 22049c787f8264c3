package dnssec

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a KeyStore kept in memory. It backs tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	zones map[string]map[uint64]Key
	// Updates counts calls to SetActive.
	Updates int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{zones: make(map[string]map[uint64]Key)}
}

// Put stores key under zone, replacing a key with the same id.
func (m *MemoryStore) Put(zone string, key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zones[zone] == nil {
		m.zones[zone] = make(map[uint64]Key)
	}

	m.zones[zone][key.ID] = key
}

// List implements KeyStore.
func (m *MemoryStore) List(_ context.Context, zone string) ([]Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]Key, 0, len(m.zones[zone]))
	for _, k := range m.zones[zone] {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })

	return keys, nil
}

// Get implements KeyStore.
func (m *MemoryStore) Get(_ context.Context, zone string, id uint64) (*Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.zones[zone][id]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return &k, nil
}

// SetActive implements KeyStore.
func (m *MemoryStore) SetActive(_ context.Context, zone string, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.zones[zone][id]
	if !ok {
		return ErrKeyNotFound
	}

	k.Active = active
	m.zones[zone][id] = k
	m.Updates++

	return nil
}
