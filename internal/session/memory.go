package session

import (
	"context"
	"sync"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStorage keeps slots in process memory. Used for local runs and tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStorage returns an empty storage; a zero ttl keeps slots forever.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		slots: make(map[string]map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStorage) Get(ctx context.Context, key, slot string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.slots[key][slot]
	if !ok || (!e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)) {
		return "", types.ErrSessionNotFound
	}
	return e.value, nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, slot, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	if s.slots[key] == nil {
		s.slots[key] = make(map[string]memoryEntry)
	}
	s.slots[key][slot] = entry
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string, slots ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.slots[key]
	if !ok {
		return nil
	}
	for _, slot := range slots {
		delete(m, slot)
	}
	if len(m) == 0 {
		delete(s.slots, key)
	}
	return nil
}

// Len returns the number of session keys with at least one slot.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
