package settings

import (
	"sync"
	"time"

	"github.com/cmertnic/EXPBOT/models"

	"github.com/bwmarrin/discordgo"
)

// Session lifetimes. The outer window bounds the whole menu; the input
// window bounds a single value prompt.
const (
	menuWindow  = 5 * time.Minute
	inputWindow = 60 * time.Second

	// Cooldown between /settings invocations per user, carried over from
	// the original bot's configuration.
	commandCooldown = 300200 * time.Millisecond
)

type sessionState int

const (
	stateListing sessionState = iota
	stateAwaitingValue
)

// session is one user's open settings menu. All fields are guarded by the
// owning registry's mutex; handlers never see the live struct, only value
// snapshots taken under the lock.
type session struct {
	userID    string
	serverID  string
	channelID string
	language  string

	page  int
	state sessionState
	field string // set while awaiting a value

	deadline      time.Time // outer menu expiry
	inputDeadline time.Time // value prompt expiry, valid in stateAwaitingValue
	seq           int       // bumped on every state change, invalidates stale timers

	draft       models.ServerSettings
	interaction *discordgo.Interaction // the menu message, for later edits
}

// snapshot is a point-in-time copy of a session, safe to read and render
// after the registry mutex has been released
type snapshot struct {
	userID    string
	serverID  string
	channelID string
	language  string
	page      int
	field     string

	draft       models.ServerSettings
	interaction *discordgo.Interaction
}

func (s *session) snapshot() snapshot {
	return snapshot{
		userID:      s.userID,
		serverID:    s.serverID,
		channelID:   s.channelID,
		language:    s.language,
		page:        s.page,
		field:       s.field,
		draft:       s.draft,
		interaction: s.interaction,
	}
}

// registry tracks open settings sessions, one per user. Expired sessions are
// dropped lazily on read and by the periodic sweep.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*session

	// now is swappable for tests
	now func() time.Time
}

func newRegistry() *registry {
	return &registry{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// open creates a session for the user. Returns false when the user already
// has a live session.
func (r *registry) open(userID, serverID, channelID, language string, draft models.ServerSettings, interaction *discordgo.Interaction) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[userID]; ok && existing.deadline.After(r.now()) {
		return snapshot{}, false
	}

	s := &session{
		userID:      userID,
		serverID:    serverID,
		channelID:   channelID,
		language:    language,
		page:        1,
		state:       stateListing,
		deadline:    r.now().Add(menuWindow),
		draft:       draft,
		interaction: interaction,
	}
	r.sessions[userID] = s
	return s.snapshot(), true
}

func (r *registry) getLocked(userID string) (*session, bool) {
	s, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	if !s.deadline.After(r.now()) {
		delete(r.sessions, userID)
		return nil, false
	}
	return s, true
}

// peek returns a snapshot of the user's live session without changing it.
// Expired sessions are removed and reported as a miss, so stale component
// clicks fall through silently.
func (r *registry) peek(userID string) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok {
		return snapshot{}, false
	}
	return s.snapshot(), true
}

// turnPage moves a listing session by delta pages
func (r *registry) turnPage(userID string, delta int) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok || s.state != stateListing {
		return snapshot{}, false
	}
	s.page += delta
	s.seq++
	return s.snapshot(), true
}

// beginEdit transitions a listing session into awaiting a value for field.
// The returned seq identifies this prompt; the input-timeout timer passes it
// back so a prompt that already completed is not timed out twice.
func (r *registry) beginEdit(userID, field string) (snapshot, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok || s.state != stateListing {
		return snapshot{}, 0, false
	}

	s.state = stateAwaitingValue
	s.field = field
	s.inputDeadline = r.now().Add(inputWindow)
	s.seq++
	return s.snapshot(), s.seq, true
}

// completeEdit merges a validated value into the draft and returns the
// session to the listing state. The merge happens under the lock so a
// concurrent timeout or render never observes a half-written draft.
func (r *registry) completeEdit(userID, field, value string) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok || s.state != stateAwaitingValue || s.field != field {
		return snapshot{}, false
	}

	s.draft.SetField(field, value)
	s.state = stateListing
	s.field = ""
	s.seq++
	return s.snapshot(), true
}

// finishEdit returns an awaiting session to the listing state without
// touching the draft. Used for invalid input.
func (r *registry) finishEdit(userID string) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok || s.state != stateAwaitingValue {
		return snapshot{}, false
	}

	s.state = stateListing
	s.field = ""
	s.seq++
	return s.snapshot(), true
}

// expireInput is finishEdit gated on the prompt seq, called from the timer.
// Reports false when the prompt already completed or the session is gone.
func (r *registry) expireInput(userID string, seq int) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(userID)
	if !ok || s.state != stateAwaitingValue || s.seq != seq {
		return snapshot{}, false
	}

	s.state = stateListing
	s.field = ""
	s.seq++
	return s.snapshot(), true
}

// findAwaiting locates the session waiting for a message from this author in
// this channel. A prompt past its input deadline does not match.
func (r *registry) findAwaiting(channelID, authorID string) (snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.getLocked(authorID)
	if !ok {
		return snapshot{}, false
	}
	if s.state != stateAwaitingValue || s.channelID != channelID {
		return snapshot{}, false
	}
	if !s.inputDeadline.After(r.now()) {
		return snapshot{}, false
	}
	return s.snapshot(), true
}

// close drops a session regardless of state
func (r *registry) close(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// sweep removes every session past its outer deadline and returns snapshots
// so the caller can disable their menu messages
func (r *registry) sweep() []snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var expired []snapshot
	for userID, s := range r.sessions {
		if !s.deadline.After(now) {
			delete(r.sessions, userID)
			expired = append(expired, s.snapshot())
		}
	}
	return expired
}
