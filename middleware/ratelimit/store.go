package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tech-arch1tect/greenpoll/config"
)

type Store interface {
	Get(key string) (count int, resetTime time.Time, exists bool)
	Increment(key string, resetTime time.Time) (count int)
	Reset(key string)
}

type entry struct {
	count     int
	resetTime time.Time
}

func (e *entry) live(now time.Time) bool {
	return e != nil && now.Before(e.resetTime)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
	stop chan struct{}
	once sync.Once
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*entry),
		stop: make(chan struct{}),
	}

	go store.cleanup(time.Minute)

	return store
}

func (s *MemoryStore) Get(key string) (count int, resetTime time.Time, exists bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e := s.data[key]; e.live(time.Now()) {
		return e.count, e.resetTime, true
	}
	return 0, time.Time{}, false
}

func (s *MemoryStore) Increment(key string, resetTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.data[key]; e.live(time.Now()) {
		e.count++
		return e.count
	}

	s.data[key] = &entry{count: 1, resetTime: resetTime}
	return 1
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, e := range s.data {
				if !e.live(now) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// LRUStore bounds memory by evicting the least recently used clients once
// size keys are tracked. Entries also expire after one period.
type LRUStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *entry]
}

func NewLRUStore(size int, period time.Duration) *LRUStore {
	if size <= 0 {
		size = 10000
	}
	return &LRUStore{
		cache: expirable.NewLRU[string, *entry](size, nil, period),
	}
}

func (s *LRUStore) Get(key string) (count int, resetTime time.Time, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Peek(key); ok && e.live(time.Now()) {
		return e.count, e.resetTime, true
	}
	return 0, time.Time{}, false
}

func (s *LRUStore) Increment(key string, resetTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(key); ok && e.live(time.Now()) {
		e.count++
		return e.count
	}

	s.cache.Add(key, &entry{count: 1, resetTime: resetTime})
	return 1
}

func (s *LRUStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
}

func (s *LRUStore) Len() int {
	return s.cache.Len()
}

func NewStore(cfg *config.RateLimitConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "lru":
		return NewLRUStore(cfg.LRUSize, cfg.Period), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit store: %s (supported: memory, lru)", cfg.Store)
	}
}
