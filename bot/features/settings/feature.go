package settings

import (
	"context"
	"strconv"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the interactive per-server settings menu
type Feature struct {
	session         *discordgo.Session
	settingsService service.SettingsService
	cooldowns       *common.CooldownRegistry
	provisioner     *common.Provisioner
	sessions        *registry
}

// NewFeature creates a new settings feature instance
func NewFeature(session *discordgo.Session, settingsService service.SettingsService, cooldowns *common.CooldownRegistry, provisioner *common.Provisioner) *Feature {
	return &Feature{
		session:         session,
		settingsService: settingsService,
		cooldowns:       cooldowns,
		provisioner:     provisioner,
		sessions:        newRegistry(),
	}
}

// HandleCommand handles the /settings command: permission check, cooldown,
// then a fresh menu session on page 1
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		common.RespondWithError(s, i, locale.T("", "error.guild_only"))
		return
	}

	userID := i.Member.User.ID

	serverID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewPlatformError(err))
		return
	}

	ctx := context.Background()
	current, err := f.settingsService.GetOrInit(ctx, serverID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := current.Language

	if !common.IsUserAdmin(s, i.GuildID, userID) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	if remaining := f.cooldowns.Remaining(userID, "settings"); remaining > 0 {
		common.RespondWithError(s, i, locale.T(lang, "settings.cooldown", common.FormatDuration(remaining)))
		return
	}

	sess, ok := f.sessions.open(userID, i.GuildID, i.ChannelID, lang, *current, i.Interaction)
	if !ok {
		common.RespondWithError(s, i, locale.T(lang, "settings.session_busy"))
		return
	}

	f.cooldowns.Arm(userID, "settings", commandCooldown)

	err = common.RespondWithEmbed(s, i, buildMenuEmbed(sess), buildMenuComponents(sess), true)
	if err != nil {
		log.Errorf("Failed to render settings menu for server %d: %v", serverID, err)
		f.sessions.close(userID)
	}
}

// Sweep drops sessions past their outer deadline and disables the buttons on
// their menu messages. Called from the bot's periodic sweeper.
func (f *Feature) Sweep() {
	for _, sess := range f.sessions.sweep() {
		f.disableMenu(sess)
	}
}

func (f *Feature) disableMenu(sess snapshot) {
	embed := buildMenuEmbed(sess)
	components := common.DisableComponents(buildMenuComponents(sess))
	if err := common.EditInteractionMessage(f.session, sess.interaction, embed, components); err != nil {
		log.Debugf("Failed to disable expired settings menu for user %s: %v", sess.userID, err)
	}
}
