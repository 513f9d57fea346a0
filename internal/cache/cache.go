// Package cache provides report caches shared by the service layer.
package cache

import (
	"context"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) (T, bool)

	// Set stores a value in the cache
	Set(ctx context.Context, key string, data T)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)
}

// Noop never stores anything. It is used when caching is disabled.
type Noop[T any] struct{}

func (Noop[T]) Get(context.Context, string) (T, bool) {
	var zero T
	return zero, false
}

func (Noop[T]) Set(context.Context, string, T) {}

func (Noop[T]) Delete(context.Context, string) {}

// Manager handles cache lifecycle and cleanup
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup. Caches that do not
// expire entries locally are ignored.
func (m *Manager) Register(cache any) {
	if c, ok := cache.(Cleaner); ok {
		m.caches = append(m.caches, c)
	}
}

// StartCleanup begins periodic cleanup of all registered caches.
// onClean, if set, receives the number of entries removed by each sweep.
func (m *Manager) StartCleanup(interval time.Duration, onClean func(removed int)) {
	m.started = true
	go m.cleanup(interval, onClean)
}

func (m *Manager) cleanup(interval time.Duration, onClean func(int)) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			total := 0
			for _, c := range m.caches {
				total += c.CleanExpired()
			}
			if onClean != nil && total > 0 {
				onClean(total)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	m.started = false
	close(m.stopCleanup)
	<-m.cleanupDone
}
