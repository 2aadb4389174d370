package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedLimiter rate-limits independently per key. The aggregator keys it
// by destination airport so one busy route cannot starve the others.
type KeyedLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

func NewKeyedLimiter(config Config) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewKeyedLimiterWithDefaults() *KeyedLimiter {
	return NewKeyedLimiter(DefaultConfig())
}

func (k *KeyedLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.RLock()
	limiter, exists := k.limiters[key]
	k.mu.RUnlock()

	if exists {
		return limiter
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if limiter, exists = k.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(k.defaults.RequestsPerSecond), k.defaults.BurstSize)
	k.limiters[key] = limiter
	return limiter
}

func (k *KeyedLimiter) SetLimit(key string, rps float64, burst int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.limiters[key] = rate.NewLimiter(rate.Limit(rps), burst)
}

func (k *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return k.GetLimiter(key).Wait(ctx)
}
