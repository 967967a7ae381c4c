package common

import (
	"sync"
	"time"
)

type cooldownKey struct {
	userID  string
	command string
}

// CooldownRegistry tracks per-user, per-command cooldowns in process memory.
// Expired entries are dropped lazily on read and by the periodic sweep.
type CooldownRegistry struct {
	mu      sync.Mutex
	entries map[cooldownKey]time.Time

	// now is swappable for tests
	now func() time.Time
}

// NewCooldownRegistry creates an empty cooldown registry
func NewCooldownRegistry() *CooldownRegistry {
	return &CooldownRegistry{
		entries: make(map[cooldownKey]time.Time),
		now:     time.Now,
	}
}

// Arm starts a cooldown for the (user, command) pair
func (r *CooldownRegistry) Arm(userID, command string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[cooldownKey{userID, command}] = r.now().Add(d)
}

// Remaining returns how long the cooldown has left. Zero means no active
// cooldown; expired entries are removed on the way out.
func (r *CooldownRegistry) Remaining(userID, command string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cooldownKey{userID, command}
	endsAt, ok := r.entries[key]
	if !ok {
		return 0
	}

	remaining := endsAt.Sub(r.now())
	if remaining <= 0 {
		delete(r.entries, key)
		return 0
	}
	return remaining
}

// Clear removes a cooldown before its natural expiry
func (r *CooldownRegistry) Clear(userID, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, cooldownKey{userID, command})
}

// Sweep drops every expired entry and returns how many were removed
func (r *CooldownRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, endsAt := range r.entries {
		if !endsAt.After(now) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}
