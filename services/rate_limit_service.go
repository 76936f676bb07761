package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
// CheckLimit counts one attempt for key and reports whether it is within
// limit for the current window, and if not, how long until the window resets.
type RateLimiterInterface interface {
	CheckLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, time.Duration, error)
}

// RateLimitService provides fixed window rate limiting using Redis.
// It implements the RateLimiterInterface.
type RateLimitService struct {
	redis     redis.Cmdable
	keyPrefix string
}

func NewRateLimitService(client redis.Cmdable) *RateLimitService {
	return &RateLimitService{
		redis:     client,
		keyPrefix: "rate_limit:",
	}
}

func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, time.Duration, error) {
	rKey := s.keyPrefix + key

	// ExpireNX sets the TTL only on the first hit so later attempts do not
	// extend the window.
	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.ExpireNX(ctx, rKey, duration)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if incr.Val() > int64(limit) {
		ttl, err := s.redis.TTL(ctx, rKey).Result()
		if err != nil || ttl <= 0 {
			ttl = duration
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

type memoryWindow struct {
	count int
	reset time.Time
}

// MemoryRateLimiter is the single instance fallback used when Redis is not
// configured. Counters live in process memory.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

func (m *MemoryRateLimiter) CheckLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return false, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &memoryWindow{reset: now.Add(duration)}
		m.windows[key] = w
	}
	w.count++

	if w.count > limit {
		return false, w.reset.Sub(now), nil
	}
	return true, 0, nil
}

// StartJanitor drops expired windows every interval until Close is called.
func (m *MemoryRateLimiter) StartJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemoryRateLimiter) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, w := range m.windows {
		if !now.Before(w.reset) {
			delete(m.windows, key)
		}
	}
}

// Close stops the janitor. Safe to call more than once.
func (m *MemoryRateLimiter) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
