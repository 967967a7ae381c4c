// Package language implements the /language command: an administrator-only
// select menu that switches the bot's catalog language for a server.
package language

import (
	"sync"
	"time"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	customIDSelect = "language_select"

	selectWindow    = 30 * time.Second
	commandCooldown = 300200 * time.Millisecond
)

// pending is one user's open language prompt
type pending struct {
	userID      string
	serverID    string
	language    string
	deadline    time.Time
	interaction *discordgo.Interaction
}

// Feature handles the /language command
type Feature struct {
	session         *discordgo.Session
	settingsService service.SettingsService
	cooldowns       *common.CooldownRegistry

	mu      sync.Mutex
	prompts map[string]*pending

	// now is swappable for tests
	now func() time.Time
}

// NewFeature creates a new language feature instance
func NewFeature(session *discordgo.Session, settingsService service.SettingsService, cooldowns *common.CooldownRegistry) *Feature {
	return &Feature{
		session:         session,
		settingsService: settingsService,
		cooldowns:       cooldowns,
		prompts:         make(map[string]*pending),
		now:             time.Now,
	}
}

func (f *Feature) openPrompt(p *pending) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.prompts[p.userID]; ok && existing.deadline.After(f.now()) {
		return false
	}
	p.deadline = f.now().Add(selectWindow)
	f.prompts[p.userID] = p
	return true
}

func (f *Feature) takePrompt(userID string) (*pending, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.prompts[userID]
	if !ok {
		return nil, false
	}
	delete(f.prompts, userID)
	if !p.deadline.After(f.now()) {
		return nil, false
	}
	return p, true
}

// Sweep disables prompts past their deadline. Called from the bot's
// periodic sweeper.
func (f *Feature) Sweep() {
	f.mu.Lock()
	now := f.now()
	var expired []*pending
	for userID, p := range f.prompts {
		if !p.deadline.After(now) {
			delete(f.prompts, userID)
			expired = append(expired, p)
		}
	}
	f.mu.Unlock()

	for _, p := range expired {
		f.expirePrompt(p)
	}
}

func (f *Feature) expirePrompt(p *pending) {
	botErr := common.NewTimeoutError("language.timeout")
	log.Infof("Language prompt expired for user %s: %v", p.userID, botErr)

	content := locale.T(p.language, botErr.MessageKey)
	edit := &discordgo.WebhookEdit{
		Content:    &content,
		Components: &[]discordgo.MessageComponent{},
	}
	if _, err := f.session.InteractionResponseEdit(p.interaction, edit); err != nil {
		log.Debugf("Failed to expire language prompt for user %s: %v", p.userID, err)
	}
}
