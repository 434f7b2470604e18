package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache in-memory кэш с вытеснением давно не читанных записей
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	defaultTTL time.Duration
	capacity   int

	hits   atomic.Int64
	misses atomic.Int64

	closed atomic.Bool
	done   chan struct{}
	wg     sync.WaitGroup
}

type entry struct {
	data     []byte
	deadline time.Time // zero = бессрочно
	lastRead time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

func (e *entry) remaining(now time.Time) time.Duration {
	if e.deadline.IsZero() {
		return -1
	}
	return max(e.deadline.Sub(now), 0)
}

// NewMemoryCache создаёт кэш и запускает фоновую очистку
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	capacity := opts.MaxEntries
	if capacity <= 0 {
		capacity = 1000
	}
	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}

	c := &MemoryCache{
		entries:    make(map[string]*entry),
		defaultTTL: opts.DefaultTTL,
		capacity:   capacity,
		done:       make(chan struct{}),
	}

	c.wg.Add(1)
	go c.janitor(interval)

	return c
}

// lookup под мьютексом; обновляет lastRead и счётчики
func (c *MemoryCache) lookup(key string) (*entry, time.Time, bool) {
	now := time.Now()
	e, ok := c.entries[key]
	if !ok || e.expired(now) {
		c.misses.Add(1)
		return nil, now, false
	}
	c.hits.Add(1)
	e.lastRead = now
	return e, now, true
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, _, ok := c.lookup(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return clone(e.data), nil
}

func (c *MemoryCache) GetWithTTL(_ context.Context, key string) ([]byte, time.Duration, error) {
	if c.closed.Load() {
		return nil, 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, now, ok := c.lookup(key)
	if !ok {
		return nil, 0, ErrKeyNotFound
	}
	return clone(e.data), e.remaining(now), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	e := &entry{data: clone(value), lastRead: now}
	if ttl > 0 {
		e.deadline = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity {
			c.evict()
		}
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && !e.expired(time.Now()), nil
}

func (c *MemoryCache) Keys(_ context.Context, pattern string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var keys []string
	for k, e := range c.entries {
		if !e.expired(now) && matchPattern(pattern, k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for k := range c.entries {
		if matchPattern(pattern, k) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *MemoryCache) Stats(_ context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		KeysByPrefix: make(map[string]int64),
		Backend:      BackendMemory,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}

	now := time.Now()
	for k, e := range c.entries {
		if e.expired(now) {
			continue
		}
		s.TotalKeys++
		s.MemoryBytes += int64(len(e.data))
		s.KeysByPrefix[keyPrefix(k)]++
	}
	return s, nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
	return nil
}

// Close останавливает очистку; повторный вызов безопасен
func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)
	c.wg.Wait()

	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) janitor(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *MemoryCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
}

// evict удаляет запись с самым старым lastRead. Вызывать под мьютексом
func (c *MemoryCache) evict() {
	var victim string
	var oldest time.Time
	for k, e := range c.entries {
		if victim == "" || e.lastRead.Before(oldest) {
			victim, oldest = k, e.lastRead
		}
	}
	delete(c.entries, victim)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// matchPattern поддерживает одну звёздочку: "*", "calc:*", "*:gray", "calc:*:gray"
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}
	prefix, suffix, hasStar := strings.Cut(pattern, "*")
	if !hasStar {
		return pattern == key
	}
	return len(key) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}

func keyPrefix(key string) string {
	if p, _, ok := strings.Cut(key, ":"); ok && p != "" {
		return p
	}
	return "other"
}
