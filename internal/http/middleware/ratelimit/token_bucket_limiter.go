package ratelimit

import (
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped; 0 keeps them
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one token bucket per caller key.
type TokenBucketLimiter struct {
	cfg Config
	now Clock

	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	tokens float64
	at     time.Time
}

// NewTokenBucketLimiter normalizes cfg. A nil clock means time.Now.
func NewTokenBucketLimiter(now Clock, cfg Config) *TokenBucketLimiter {
	if now == nil {
		now = time.Now
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		now:     now,
		buckets: make(map[string]*bucket),
	}
}

// Take spends a token of key.
func (l *TokenBucketLimiter) Take(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		// a full table turns new callers away until a sweep frees slots
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			return Decision{RetryAfter: time.Second}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), at: now}
		l.buckets[key] = b
	}

	b.refill(now, l.cfg.Rate, float64(l.cfg.Burst))
	if b.tokens < 1 {
		missing := (1 - b.tokens) / l.cfg.Rate
		return Decision{RetryAfter: time.Duration(missing * float64(time.Second))}
	}
	b.tokens--
	return Decision{Allowed: true, Remaining: int(b.tokens)}
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	if dt := now.Sub(b.at); dt > 0 {
		b.tokens += dt.Seconds() * rate
		if b.tokens > burst {
			b.tokens = burst
		}
		b.at = now
	}
}

// sweep drops idle buckets at most once per max(TTL/2, 1m). Callers hold l.mu.
func (l *TokenBucketLimiter) sweep(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	every := time.Minute
	if half := l.cfg.TTL / 2; half > every {
		every = half
	}
	if !l.swept.IsZero() && now.Sub(l.swept) < every {
		return
	}
	l.swept = now

	for key, b := range l.buckets {
		if now.Sub(b.at) > l.cfg.TTL {
			delete(l.buckets, key)
		}
	}
}
