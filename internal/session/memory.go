package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// sweepEvery — как часто Save вычищает истёкшие сессии.
const sweepEvery = time.Minute

// MemoryStore — хранилище в памяти процесса, для локального запуска без Redis.
// Истёкшие записи удаляются при Save, не чаще раза в sweepEvery.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.Before(s.nextSweep) {
		s.sweepLocked(now)
	}
	s.entries[id] = memoryEntry{data: data, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(sweepEvery)
}

func (s *MemoryStore) Load(_ context.Context, id string, dst any) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return ErrNotFound
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return fmt.Errorf("unmarshal session: %w", err)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
