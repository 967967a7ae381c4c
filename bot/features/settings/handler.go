package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleComponent routes settings menu button clicks. Clicks without a live
// session for the clicking user are acknowledged silently; that covers both
// expired menus and clicks on someone else's menu.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	userID := i.Member.User.ID
	customID := i.MessageComponentData().CustomID

	switch {
	case customID == customIDPrev:
		f.handleNavigate(s, i, userID, -1)
	case customID == customIDNext:
		f.handleNavigate(s, i, userID, +1)
	case strings.HasPrefix(customID, customIDEditPrefix):
		f.handleEdit(s, i, userID, strings.TrimPrefix(customID, customIDEditPrefix))
	}
}

func (f *Feature) handleNavigate(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, delta int) {
	sess, ok := f.sessions.turnPage(userID, delta)
	if !ok {
		ackSilently(s, i)
		return
	}

	if err := common.UpdateComponentMessage(s, i, buildMenuEmbed(sess), buildMenuComponents(sess)); err != nil {
		log.Errorf("Failed to update settings menu page for user %s: %v", userID, err)
	}
}

func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, userID, field string) {
	sess, ok := f.sessions.peek(userID)
	if !ok {
		ackSilently(s, i)
		return
	}
	lang := sess.language

	label, known := locale.FieldLabel(lang, field)
	if !known {
		common.RespondWithError(s, i, locale.T(lang, "settings.unknown_field"))
		return
	}

	_, seq, ok := f.sessions.beginEdit(userID, field)
	if !ok {
		ackSilently(s, i)
		return
	}

	// The next plain message from this user in this channel is the value;
	// the timer fires the timeout notice if none arrives.
	time.AfterFunc(inputWindow, func() {
		f.handleInputTimeout(userID, seq)
	})

	if err := common.RespondWithContent(s, i, locale.T(lang, "settings.prompt", label), true); err != nil {
		log.Errorf("Failed to prompt for settings value: %v", err)
	}
}

// HandleMessage consumes a plain channel message as the pending value for an
// edit prompt. Returns false when no session was waiting for this message.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	sess, ok := f.sessions.findAwaiting(m.ChannelID, m.Author.ID)
	if !ok {
		return false
	}

	lang := sess.language
	field := sess.field
	value := strings.TrimSpace(m.Content)

	if err := validateFieldValue(lang, field, value); err != nil {
		var botErr *common.BotError
		if errors.As(err, &botErr) {
			f.replyInChannel(s, m.ChannelID, "❌ "+locale.T(lang, botErr.MessageKey))
		}
		f.returnToListing(m.Author.ID)
		return true
	}

	sess, ok = f.sessions.completeEdit(m.Author.ID, field, value)
	if !ok {
		// The prompt timed out between findAwaiting and the merge
		return true
	}

	editorID, _ := strconv.ParseInt(m.Author.ID, 10, 64)
	if err := f.settingsService.Save(context.Background(), &sess.draft, field, editorID); err != nil {
		common.RespondToChannelWithBotError(s, m.ChannelID, lang, common.NewStorageError(err))
		f.rerenderMenu(sess)
		return true
	}

	// Heal the log channel when its name was just changed
	if field == models.SettingLogChannelName {
		f.ensureLogChannel(sess.serverID, value)
	}

	label, _ := locale.FieldLabel(lang, field)
	f.replyInChannel(s, m.ChannelID, "✅ "+locale.T(lang, "settings.saved", label))
	f.rerenderMenu(sess)
	return true
}

func (f *Feature) handleInputTimeout(userID string, seq int) {
	sess, ok := f.sessions.expireInput(userID, seq)
	if !ok {
		return
	}

	botErr := common.NewTimeoutError("settings.input_timeout")
	log.Infof("Settings value prompt expired for user %s: %v", userID, botErr)
	f.replyInChannel(f.session, sess.channelID, locale.T(sess.language, botErr.MessageKey))
	f.rerenderMenu(sess)
}

// returnToListing moves the session back to the listing state and refreshes
// the menu message with the current draft
func (f *Feature) returnToListing(userID string) {
	sess, ok := f.sessions.finishEdit(userID)
	if !ok {
		return
	}
	f.rerenderMenu(sess)
}

func (f *Feature) rerenderMenu(sess snapshot) {
	err := common.EditInteractionMessage(f.session, sess.interaction, buildMenuEmbed(sess), buildMenuComponents(sess))
	if err != nil {
		log.Errorf("Failed to refresh settings menu for user %s: %v", sess.userID, err)
	}
}

func (f *Feature) replyInChannel(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Errorf("Failed to send settings reply in channel %s: %v", channelID, err)
	}
}

// ensureLogChannel resolves the configured log channel, creating it when it
// does not exist. Best effort; platform failures are logged only.
func (f *Feature) ensureLogChannel(guildID, name string) {
	elevated := common.BotElevatedRoles(f.session, guildID)
	if _, _, err := f.provisioner.GetOrCreateTextChannel(guildID, name, elevated); err != nil {
		log.Errorf("Failed to provision log channel %q in guild %s: %v", name, guildID, err)
	}
}

// ackSilently acknowledges a component click without changing anything
func ackSilently(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Debugf("Failed to acknowledge stale component click: %v", err)
	}
}
