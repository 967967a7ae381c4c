package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRegistry(start time.Time) (*CooldownRegistry, *time.Time) {
	current := start
	r := NewCooldownRegistry()
	r.now = func() time.Time { return current }
	return r, &current
}

func TestCooldownRegistry_ArmAndRemaining(t *testing.T) {
	r, clock := newTestRegistry(time.Unix(1000, 0))

	r.Arm("user1", "settings", 5*time.Minute)

	assert.Equal(t, 5*time.Minute, r.Remaining("user1", "settings"))

	// Commands and users are independent
	assert.Zero(t, r.Remaining("user1", "language"))
	assert.Zero(t, r.Remaining("user2", "settings"))

	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 3*time.Minute, r.Remaining("user1", "settings"))
}

func TestCooldownRegistry_ExpiryDropsEntry(t *testing.T) {
	r, clock := newTestRegistry(time.Unix(1000, 0))

	r.Arm("user1", "settings", time.Minute)
	*clock = clock.Add(time.Minute)

	assert.Zero(t, r.Remaining("user1", "settings"))

	// Re-arming after expiry works
	r.Arm("user1", "settings", time.Minute)
	assert.Equal(t, time.Minute, r.Remaining("user1", "settings"))
}

func TestCooldownRegistry_Clear(t *testing.T) {
	r, _ := newTestRegistry(time.Unix(1000, 0))

	r.Arm("user1", "settings", time.Hour)
	r.Clear("user1", "settings")

	assert.Zero(t, r.Remaining("user1", "settings"))
}

func TestCooldownRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(time.Unix(1000, 0))

	r.Arm("user1", "settings", time.Minute)
	r.Arm("user2", "settings", time.Hour)

	*clock = clock.Add(2 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, r.Remaining("user1", "settings"))
	assert.Equal(t, 58*time.Minute, r.Remaining("user2", "settings"))
}
