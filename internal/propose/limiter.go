package propose

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ModelLimiter rate-limits proposal requests per model name so a batch run
// stays inside each chat model's request budget.
type ModelLimiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewModelLimiter creates a limiter with the given steady rate.
func NewModelLimiter(requestsPerSecond float64, burst int) *ModelLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ModelLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until a request to the given model is allowed or ctx ends.
func (l *ModelLimiter) Wait(ctx context.Context, modelName string) error {
	return l.get(modelName).Wait(ctx)
}

// Allow reports whether a request may proceed immediately.
func (l *ModelLimiter) Allow(modelName string) bool {
	return l.get(modelName).Allow()
}

func (l *ModelLimiter) get(modelName string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[modelName]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[modelName]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[modelName] = limiter
	return limiter
}
