package lockout

import (
	"context"
	"sync"
	"time"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

// DefaultCooldown applies when the configured cooldown is not positive.
const DefaultCooldown = 15 * time.Minute

type entry struct {
	failures    int
	lockedUntil time.Time
}

// MemoryStore is an in-memory LoginLockoutStore suitable for single-instance deployment. For multi-instance, use RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]*entry
	max      int
	cooldown time.Duration
	now      func() time.Time
}

// NewMemoryStore returns a lockout store with given max attempts and cooldown. maxAttempts 0 = disabled.
func NewMemoryStore(maxAttempts, cooldownSeconds int) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]*entry),
		max:      maxAttempts,
		cooldown: cooldownOrDefault(cooldownSeconds),
		now:      time.Now,
	}
}

func cooldownOrDefault(seconds int) time.Duration {
	cd := time.Duration(seconds) * time.Second
	if cd <= 0 {
		return DefaultCooldown
	}
	return cd
}

func (s *MemoryStore) IsLocked(_ context.Context, username string) (locked bool, retryAfterSeconds int) {
	if s.max <= 0 {
		return false, 0
	}
	s.mu.RLock()
	e, ok := s.data[username]
	s.mu.RUnlock()
	if !ok || e == nil {
		return false, 0
	}
	now := s.now()
	if now.Before(e.lockedUntil) {
		return true, retryAfter(e.lockedUntil.Sub(now))
	}
	return false, 0
}

func (s *MemoryStore) RecordFailure(_ context.Context, username string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.data[username]
	if e == nil {
		e = &entry{}
		s.data[username] = e
	}
	// An expired lock starts a fresh window.
	now := s.now()
	if !e.lockedUntil.IsZero() && !now.Before(e.lockedUntil) {
		e.failures = 0
		e.lockedUntil = time.Time{}
	}
	e.failures++
	if e.failures >= s.max {
		e.lockedUntil = now.Add(s.cooldown)
	}
}

func (s *MemoryStore) RecordSuccess(_ context.Context, username string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, username)
}

func retryAfter(d time.Duration) int {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)
