package language

import (
	"context"
	"strconv"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand handles /language: renders the select menu
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

	settings, err := f.settingsService.GetOrInit(context.Background(), serverID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := settings.Language

	if !common.IsUserAdmin(s, i.GuildID, userID) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	if remaining := f.cooldowns.Remaining(userID, "language"); remaining > 0 {
		common.RespondWithError(s, i, locale.T(lang, "settings.cooldown", common.FormatDuration(remaining)))
		return
	}

	p := &pending{
		userID:      userID,
		serverID:    i.GuildID,
		language:    lang,
		interaction: i.Interaction,
	}
	if !f.openPrompt(p) {
		common.RespondWithError(s, i, locale.T(lang, "language.prompt_busy"))
		return
	}

	f.cooldowns.Arm(userID, "language", commandCooldown)

	components := []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.SelectMenu{
				CustomID: customIDSelect,
				Options: []discordgo.SelectMenuOption{
					{
						Label:   locale.T(lang, "language.english"),
						Value:   models.LanguageEnglish,
						Default: lang == models.LanguageEnglish,
					},
					{
						Label:   locale.T(lang, "language.russian"),
						Value:   models.LanguageRussian,
						Default: lang == models.LanguageRussian,
					},
				},
			},
		}},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    locale.T(lang, "language.prompt"),
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to render language prompt: %v", err)
		f.takePrompt(userID)
	}
}

// HandleComponent handles the language select-menu choice
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.MessageComponentData().CustomID != customIDSelect {
		return
	}

	p, ok := f.takePrompt(i.Member.User.ID)
	if !ok {
		// Expired prompt or someone else's menu
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if err != nil {
			log.Debugf("Failed to acknowledge stale language selection: %v", err)
		}
		return
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	chosen := locale.Normalize(values[0])

	serverID, _ := strconv.ParseInt(p.serverID, 10, 64)
	editorID, _ := strconv.ParseInt(p.userID, 10, 64)

	ctx := context.Background()
	settings, err := f.settingsService.GetOrInit(ctx, serverID)
	if err != nil {
		common.RespondWithBotError(s, i, p.language, common.NewStorageError(err))
		return
	}

	settings.Language = chosen
	if err := f.settingsService.Save(ctx, settings, "language", editorID); err != nil {
		common.RespondWithBotError(s, i, p.language, common.NewStorageError(err))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "✅ " + locale.T(chosen, "language.saved"),
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Errorf("Failed to confirm language change: %v", err)
	}
}
