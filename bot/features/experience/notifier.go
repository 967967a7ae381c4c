package experience

import (
	"context"
	"strconv"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"
	"github.com/cmertnic/EXPBOT/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Notifier reacts to committed ledger writes: a best-effort DM to the
// affected user and the audit embed mirrored to the guild's log channel.
// Both are side notifications; failures are logged and never surfaced.
type Notifier struct {
	session           *discordgo.Session
	experienceService service.ExperienceService
	settingsService   service.SettingsService
	provisioner       *common.Provisioner
}

// NewNotifier creates a notifier over the given session and services
func NewNotifier(session *discordgo.Session, experienceService service.ExperienceService, settingsService service.SettingsService, provisioner *common.Provisioner) *Notifier {
	return &Notifier{
		session:           session,
		experienceService: experienceService,
		settingsService:   settingsService,
		provisioner:       provisioner,
	}
}

// Register subscribes the notifier to ledger change events
func (n *Notifier) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeExperienceChange, n.handleExperienceChange)
}

func (n *Notifier) handleExperienceChange(ctx context.Context, event events.Event) {
	ev, ok := event.(events.ExperienceChangeEvent)
	if !ok {
		return
	}

	settings, err := n.settingsService.GetOrInit(ctx, ev.ServerID)
	if err != nil {
		log.Errorf("Failed to load settings for server %d: %v", ev.ServerID, err)
		return
	}

	n.sendDM(ctx, ev, settings)
	n.mirrorToLogChannel(ev, settings)
}

func (n *Notifier) sendDM(ctx context.Context, ev events.ExperienceChangeEvent, settings *models.ServerSettings) {
	lang := settings.Language
	guildID := strconv.FormatInt(ev.ServerID, 10)
	userID := strconv.FormatInt(ev.UserID, 10)

	guildName := guildID
	if guild, err := n.session.State.Guild(guildID); err == nil {
		guildName = guild.Name
	}

	total, err := n.experienceService.Total(ctx, ev.UserID)
	if err != nil {
		log.Errorf("Failed to read total for user %d: %v", ev.UserID, err)
	}

	var msg string
	if ev.Delta >= 0 {
		msg = locale.T(lang, "experience.dm_granted", common.FormatExperience(ev.Delta), guildName, common.FormatExperience(total))
	} else {
		msg = locale.T(lang, "experience.dm_removed", common.FormatExperience(-ev.Delta), guildName, common.FormatExperience(total))
	}

	dm, err := n.session.UserChannelCreate(userID)
	if err != nil {
		log.Debugf("Failed to open DM with user %s: %v", userID, err)
		return
	}
	if _, err := n.session.ChannelMessageSend(dm.ID, msg); err != nil {
		log.Debugf("Failed to DM user %s: %v", userID, err)
	}
}

func (n *Notifier) mirrorToLogChannel(ev events.ExperienceChangeEvent, settings *models.ServerSettings) {
	guildID := strconv.FormatInt(ev.ServerID, 10)

	elevated := common.BotElevatedRoles(n.session, guildID)
	channel, _, err := n.provisioner.GetOrCreateTextChannel(guildID, settings.LogChannelName, elevated)
	if err != nil {
		log.Errorf("Failed to resolve log channel for guild %s: %v", guildID, err)
		return
	}

	actor := common.GetDisplayNameInt64(n.session, guildID, ev.ActorID)
	subject := common.GetDisplayNameInt64(n.session, guildID, ev.UserID)
	embed := buildLogEmbed(settings.Language, ev, actor, subject)

	if _, err := n.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		log.Errorf("Failed to mirror ledger change to log channel %s: %v", channel.ID, err)
	}
}
