package experience

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Confirmation windows for the removal sub-flow
const (
	confirmWindow = 30 * time.Second
	amountWindow  = 30 * time.Second
)

type confirmState int

const (
	confirmPending confirmState = iota
	confirmAwaitingAmount
)

// confirm is one invoker's pending removal confirmation
type confirm struct {
	invokerID string
	targetID  string
	serverID  string
	channelID string
	language  string
	reason    string

	state    confirmState
	deadline time.Time
	seq      int

	interaction *discordgo.Interaction // the confirmation message
}

// confirmRegistry tracks pending removal confirmations, one per invoking
// user. Same expiry discipline as the settings session registry.
type confirmRegistry struct {
	mu      sync.Mutex
	pending map[string]*confirm

	// now is swappable for tests
	now func() time.Time
}

func newConfirmRegistry() *confirmRegistry {
	return &confirmRegistry{
		pending: make(map[string]*confirm),
		now:     time.Now,
	}
}

// open registers a confirmation for the invoker, replacing any expired one.
// Returns false when a live confirmation already exists.
func (r *confirmRegistry) open(c *confirm) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.pending[c.invokerID]; ok && existing.deadline.After(r.now()) {
		return false
	}

	c.state = confirmPending
	c.deadline = r.now().Add(confirmWindow)
	r.pending[c.invokerID] = c
	return true
}

// get returns the invoker's live confirmation, dropping expired ones
func (r *confirmRegistry) get(invokerID string) (*confirm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(invokerID)
}

func (r *confirmRegistry) getLocked(invokerID string) (*confirm, bool) {
	c, ok := r.pending[invokerID]
	if !ok {
		return nil, false
	}
	if !c.deadline.After(r.now()) {
		delete(r.pending, invokerID)
		return nil, false
	}
	return c, true
}

// awaitAmount transitions a pending confirmation into collecting a numeric
// amount, with a fresh deadline
func (r *confirmRegistry) awaitAmount(invokerID string) (*confirm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.getLocked(invokerID)
	if !ok || c.state != confirmPending {
		return nil, false
	}

	c.state = confirmAwaitingAmount
	c.deadline = r.now().Add(amountWindow)
	c.seq++
	return c, true
}

// findAwaitingAmount locates the confirmation collecting an amount from this
// author in this channel
func (r *confirmRegistry) findAwaitingAmount(channelID, authorID string) (*confirm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.getLocked(authorID)
	if !ok || c.state != confirmAwaitingAmount || c.channelID != channelID {
		return nil, false
	}
	return c, true
}

// close drops a confirmation regardless of state
func (r *confirmRegistry) close(invokerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, invokerID)
}

// sweep removes every expired confirmation and returns them so the caller
// can disable their messages
func (r *confirmRegistry) sweep() []*confirm {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var expired []*confirm
	for invokerID, c := range r.pending {
		if !c.deadline.After(now) {
			delete(r.pending, invokerID)
			expired = append(expired, c)
		}
	}
	return expired
}
