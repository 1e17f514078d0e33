// Package locks provides per-account exclusive locks with bounded
// acquisition. Single-account operations hold one lock; transfers hold two,
// always acquired in ascending key order so that concurrent
// opposite-direction transfers cannot deadlock.
package locks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/domain"
)

// DefaultTimeout bounds lock acquisition when the Manager is built with a
// non-positive timeout.
const DefaultTimeout = 3 * time.Second

// Manager hands out exclusive per-key locks. Keys are account IDs. A lock is
// a 1-buffered channel; acquisition is a send, release a receive, so a
// blocked acquire can race a timeout without busy waiting.
type Manager struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]chan struct{}
	timeout time.Duration
}

// NewManager creates a Manager with the given acquisition timeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		locks:   make(map[uuid.UUID]chan struct{}),
		timeout: timeout,
	}
}

func (m *Manager) lockChan(key uuid.UUID) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

// Acquire takes the exclusive lock for key, waiting at most the configured
// timeout. It returns a release function the caller must defer, or
// domain.ErrLockTimeout when the wait bound or ctx expires.
func (m *Manager) Acquire(ctx context.Context, key uuid.UUID) (func(), error) {
	ch := m.lockChan(key)
	timer := time.NewTimer(m.timeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, domain.ErrLockTimeout
	case <-ctx.Done():
		return nil, domain.ErrLockTimeout
	}
}

// AcquirePair takes both locks in ascending UUID order regardless of the
// argument order, so every caller touching the same two accounts agrees on
// acquisition order. The returned release function unlocks both.
func (m *Manager) AcquirePair(ctx context.Context, a, b uuid.UUID) (func(), error) {
	first, second := a, b
	if second.String() < first.String() {
		first, second = second, first
	}
	releaseFirst, err := m.Acquire(ctx, first)
	if err != nil {
		return nil, err
	}
	releaseSecond, err := m.Acquire(ctx, second)
	if err != nil {
		releaseFirst()
		return nil, err
	}
	return func() {
		releaseSecond()
		releaseFirst()
	}, nil
}
