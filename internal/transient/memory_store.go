package transient

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"paypal-payments-gateway/internal/metric"
)

type memoryItem struct {
	data      []byte
	expiresAt int64
}

// MemoryStore is a single-process Store. Expired entries are dropped by GC.
type MemoryStore struct {
	items map[string]memoryItem
	sync.RWMutex
	ticker *time.Ticker
	log    *slog.Logger
	now    func() time.Time
}

func NewMemoryStore(cleanupInterval time.Duration, log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		items:  make(map[string]memoryItem),
		ticker: time.NewTicker(cleanupInterval),
		log:    log,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.RLock()
	defer s.RUnlock()

	item, ok := s.items[key]
	if !ok || s.expired(item) {
		return nil, false, nil
	}
	return item.data, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.Lock()
	defer s.Unlock()
	s.put(key, value, ttl)
	return nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	s.Lock()
	defer s.Unlock()

	if item, ok := s.items[key]; ok && !s.expired(item) {
		return false, nil
	}
	s.put(key, value, ttl)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.items[key]; ok {
		delete(s.items, key)
		metric.TransientEntries.Dec()
	}
	return nil
}

func (s *MemoryStore) DeleteIfValue(_ context.Context, key string, value []byte) (bool, error) {
	s.Lock()
	defer s.Unlock()
	item, ok := s.items[key]
	if !ok || !bytes.Equal(item.data, value) {
		return false, nil
	}
	delete(s.items, key)
	metric.TransientEntries.Dec()
	return true, nil
}

func (s *MemoryStore) Take(_ context.Context, key string) ([]byte, bool, error) {
	s.Lock()
	defer s.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	delete(s.items, key)
	metric.TransientEntries.Dec()
	if s.expired(item) {
		return nil, false, nil
	}
	return item.data, true, nil
}

func (s *MemoryStore) put(key string, value []byte, ttl time.Duration) {
	if _, exists := s.items[key]; !exists {
		metric.TransientEntries.Inc()
	}
	s.items[key] = memoryItem{data: value, expiresAt: s.now().Add(ttl).UnixNano()}
}

func (s *MemoryStore) expired(item memoryItem) bool {
	return s.now().UnixNano() >= item.expiresAt
}

// GC drops expired entries on every tick until ctx is done.
func (s *MemoryStore) GC(ctx context.Context) error {
	for {
		select {
		case <-s.ticker.C:
			if n := s.purge(); n > 0 {
				s.log.Debug("transient GC", slog.Int("deleted", n))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *MemoryStore) purge() int {
	s.Lock()
	defer s.Unlock()

	deleted := 0
	for key, item := range s.items {
		if s.expired(item) {
			delete(s.items, key)
			metric.TransientEntries.Dec()
			deleted++
		}
	}
	return deleted
}

func (s *MemoryStore) Stop() {
	s.ticker.Stop()
}
