// Package cache хранит сериализованные результаты расчётов по ключу
// отпечатка входных данных. Две реализации: in-memory (LRU + TTL) и Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"wellflow/pkg/config"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrKeyNotFound ключ отсутствует или просрочен
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed операция над закрытым кэшем
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache общий контракт хранилища результатов
type Cache interface {
	// Get возвращает копию значения; ErrKeyNotFound если ключа нет
	Get(ctx context.Context, key string) ([]byte, error)
	// Set сохраняет значение; ttl <= 0 означает TTL по умолчанию
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetWithTTL значение и оставшееся время жизни
	GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error)
	// Keys ключи по glob-паттерну вида "prefix*suffix"
	Keys(ctx context.Context, pattern string) ([]string, error)
	// DeleteByPattern удаляет ключи по паттерну, возвращает количество
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Clear(ctx context.Context) error
	Close() error
}

// Stats статистика кэша
type Stats struct {
	TotalKeys    int64
	Hits         int64
	Misses       int64
	HitRate      float64
	MemoryBytes  int64
	KeysByPrefix map[string]int64 // по префиксу до первого ':'
	Backend      string
}

// Options параметры создания кэша
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// memory
	MaxEntries      int
	CleanupInterval time.Duration

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions in-memory кэш на 1000 результатов с TTL 30 минут
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      30 * time.Minute,
		MaxEntries:      1000,
		CleanupInterval: time.Minute,
		RedisAddr:       "localhost:6379",
		RedisPoolSize:   10,
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	opts := DefaultOptions()
	opts.Backend = cfg.Driver
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}
	if cfg.MaxEntries > 0 {
		opts.MaxEntries = cfg.MaxEntries
	}
	opts.RedisAddr = cfg.Address()
	opts.RedisPassword = cfg.Password
	opts.RedisDB = cfg.DB
	return opts
}

// New создаёт кэш; неизвестный backend даёт in-memory
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.Backend == BackendRedis {
		return NewRedisCache(opts)
	}
	return NewMemoryCache(opts), nil
}
