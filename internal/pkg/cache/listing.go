package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Listing memoizes one derived listing (e.g. the site picker) with an
// explicit TTL and an explicit Invalidate. Staleness is a visible parameter:
// a TTL of 0 means entries live until someone calls Invalidate. Concurrent
// cold reads collapse into a single upstream load.
type Listing[T any] struct {
	ttl time.Duration

	mu       sync.RWMutex
	value    T
	loadedAt time.Time
	valid    bool

	group singleflight.Group
}

func NewListing[T any](ttl time.Duration) *Listing[T] {
	return &Listing[T]{ttl: ttl}
}

// Get returns the cached value, loading it through loader when the cache is
// cold or expired.
func (l *Listing[T]) Get(ctx context.Context, loader func(context.Context) (T, error)) (T, error) {
	if v, ok := l.cached(); ok {
		return v, nil
	}

	result, err, _ := l.group.Do("listing", func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have loaded.
		if v, ok := l.cached(); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.value = v
		l.loadedAt = time.Now()
		l.valid = true
		l.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Invalidate drops the cached value.
func (l *Listing[T]) Invalidate() {
	l.mu.Lock()
	l.valid = false
	l.mu.Unlock()
}

func (l *Listing[T]) cached() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.valid {
		var zero T
		return zero, false
	}
	if l.ttl > 0 && time.Since(l.loadedAt) > l.ttl {
		var zero T
		return zero, false
	}
	return l.value, true
}
