package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/bot/features/experience"
	"github.com/cmertnic/EXPBOT/bot/features/language"
	"github.com/cmertnic/EXPBOT/bot/features/settings"
	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/service"

	"github.com/bwmarrin/discordgo"
)

// How often expired cooldowns, sessions and confirmations are swept
const sweepInterval = 2 * time.Minute

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config            Config
	session           *discordgo.Session
	experienceService service.ExperienceService
	settingsService   service.SettingsService
	eventBus          *events.Bus
	cooldowns         *common.CooldownRegistry

	experienceFeature *experience.Feature
	settingsFeature   *settings.Feature
	languageFeature   *language.Feature

	done chan struct{}
}

func New(config Config, experienceService service.ExperienceService, settingsService service.SettingsService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:            config,
		session:           dg,
		experienceService: experienceService,
		settingsService:   settingsService,
		eventBus:          eventBus,
		cooldowns:         common.NewCooldownRegistry(),
		done:              make(chan struct{}),
	}

	// Register handlers before opening the connection
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponentInteractions)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleGuildCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// The provisioner needs the bot's own user ID, known only after connect
	provisioner := common.NewProvisioner(dg, dg.State.User.ID)

	bot.experienceFeature = experience.NewFeature(dg, experienceService, settingsService, provisioner)
	bot.settingsFeature = settings.NewFeature(dg, settingsService, bot.cooldowns, provisioner)
	bot.languageFeature = language.NewFeature(dg, settingsService, bot.cooldowns)

	notifier := experience.NewNotifier(dg, experienceService, settingsService, provisioner)
	notifier.Register(eventBus)

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start periodic cleanup of expired sessions and cooldowns
	go bot.startSweeper()

	return bot, nil
}

func (b *Bot) Close() error {
	close(b.done)
	return b.session.Close()
}

// startSweeper runs the periodic expiry sweep for all process-local state
func (b *Bot) startSweeper() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.cooldowns.Sweep()
			b.settingsFeature.Sweep()
			b.experienceFeature.Sweep()
			b.languageFeature.Sweep()
		}
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if b.experienceFeature == nil {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "givexp":
		b.experienceFeature.HandleGive(s, i)
	case "removexp":
		b.experienceFeature.HandleRemove(s, i)
	case "voicexp":
		b.experienceFeature.HandleVoice(s, i)
	case "infoxp":
		b.experienceFeature.HandleInfo(s, i)
	case "settings":
		b.settingsFeature.HandleCommand(s, i)
	case "language":
		b.languageFeature.HandleCommand(s, i)
	}
}

// handleComponentInteractions routes button and select-menu clicks by their
// custom ID prefix
func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if b.experienceFeature == nil {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "settings_"):
		b.settingsFeature.HandleComponent(s, i)
	case strings.HasPrefix(customID, "xp_"):
		b.experienceFeature.HandleComponent(s, i)
	case strings.HasPrefix(customID, "language_"):
		b.languageFeature.HandleComponent(s, i)
	}
}

// handleMessageCreate feeds plain messages to whichever feature is waiting
// for input from that user in that channel
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if b.settingsFeature == nil {
		return
	}

	if b.settingsFeature.HandleMessage(s, m) {
		return
	}
	b.experienceFeature.HandleMessage(s, m)
}

// handleGuildCreate initializes settings for servers the bot joins
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	serverID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	ctx := context.Background()
	if _, err := b.settingsService.GetOrInit(ctx, serverID); err != nil {
		log.Errorf("Failed to initialize settings for server %d: %v", serverID, err)
		return
	}

	b.eventBus.Emit(ctx, events.ServerJoinedEvent{ServerID: serverID})

	log.WithFields(log.Fields{
		"guildID": g.ID,
		"name":    g.Name,
	}).Info("Guild settings initialized")
}
