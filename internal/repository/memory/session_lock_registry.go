package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionLockRegistry hands out one mutex per review session so mutations on
// the same session serialize (single-writer) without any cross-session
// contention. Locks for committed sessions age out of the cache; an expired
// entry is simply recreated, which is safe because a committed session
// rejects all mutations anyway.
type SessionLockRegistry struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionLockRegistry() *SessionLockRegistry {
	c := cache.New(12*time.Hour, 30*time.Minute)
	return &SessionLockRegistry{
		cache: c,
	}
}

func (r *SessionLockRegistry) Get(sessionID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionID.String()
	if x, found := r.cache.Get(key); found {
		// Touch the entry so active sessions never expire mid-review.
		r.cache.Set(key, x, cache.DefaultExpiration)
		return x.(*sync.Mutex)
	}

	lock := &sync.Mutex{}
	r.cache.Set(key, lock, cache.DefaultExpiration)
	return lock
}
