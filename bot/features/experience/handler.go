package experience

import (
	"context"
	"strconv"
	"strings"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/locale"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleGive handles /givexp user amount reason
func (f *Feature) HandleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := f.loadSettings(i.GuildID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := settings.Language

	if !f.authorize(s, i, settings.GrantRoles) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	var target *discordgo.User
	var amount int64
	var reason string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		case "reason":
			reason = opt.StringValue()
		}
	}

	if target == nil || amount <= 0 {
		common.RespondWithBotError(s, i, lang, common.NewValidationError("error.invalid_amount"))
		return
	}

	targetID, _ := strconv.ParseInt(target.ID, 10, 64)
	serverID, _ := strconv.ParseInt(i.GuildID, 10, 64)
	actorID, _ := strconv.ParseInt(i.Member.User.ID, 10, 64)

	ctx := context.Background()
	if err := f.experienceService.Grant(ctx, targetID, serverID, actorID, amount, reason); err != nil {
		common.RespondWithBotError(s, i, lang, common.NewStorageError(err))
		return
	}

	total, err := f.experienceService.Total(ctx, targetID)
	if err != nil {
		log.Errorf("Failed to read total for user %d: %v", targetID, err)
	}

	msg := locale.T(lang, "experience.granted", common.FormatExperience(amount), target.Mention(), common.FormatExperience(total))
	if err := common.RespondWithContent(s, i, msg, true); err != nil {
		log.Errorf("Failed to respond to givexp: %v", err)
	}
}

// HandleRemove handles /removexp user reason: an interactive confirmation
// with amount / remove-all buttons
func (f *Feature) HandleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := f.loadSettings(i.GuildID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := settings.Language

	if !f.authorize(s, i, settings.RevokeRoles) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	var target *discordgo.User
	var reason string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		common.RespondWithBotError(s, i, lang, common.NewValidationError("error.invalid_amount"))
		return
	}

	targetID, _ := strconv.ParseInt(target.ID, 10, 64)
	total, err := f.experienceService.Total(context.Background(), targetID)
	if err != nil {
		common.RespondWithBotError(s, i, lang, common.NewStorageError(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)

	if total == 0 {
		common.RespondWithError(s, i, locale.T(lang, "experience.nothing", displayName))
		return
	}

	c := &confirm{
		invokerID:   i.Member.User.ID,
		targetID:    target.ID,
		serverID:    i.GuildID,
		channelID:   i.ChannelID,
		language:    lang,
		reason:      reason,
		interaction: i.Interaction,
	}
	if !f.confirms.open(c) {
		common.RespondWithError(s, i, locale.T(lang, "experience.confirm_busy"))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       locale.T(lang, "experience.confirm_title"),
		Description: locale.T(lang, "experience.confirm_body", displayName, common.FormatExperience(total)),
		Color:       0xED4245,
	}
	components := []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{
				Label:    locale.T(lang, "experience.btn_amount"),
				Style:    discordgo.DangerButton,
				CustomID: customIDRemoveAmount,
			},
			&discordgo.Button{
				Label:    locale.T(lang, "experience.btn_all"),
				Style:    discordgo.DangerButton,
				CustomID: customIDRemoveAll,
			},
		}},
	}

	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Failed to render removal confirmation: %v", err)
		f.confirms.close(c.invokerID)
	}
}

// HandleComponent routes the removal confirmation button clicks
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}
	invokerID := i.Member.User.ID

	switch i.MessageComponentData().CustomID {
	case customIDRemoveAll:
		f.handleRemoveAll(s, i, invokerID)
	case customIDRemoveAmount:
		f.handleRemoveAmountPrompt(s, i, invokerID)
	}
}

func (f *Feature) handleRemoveAll(s *discordgo.Session, i *discordgo.InteractionCreate, invokerID string) {
	c, ok := f.confirms.get(invokerID)
	if !ok {
		ackSilently(s, i)
		return
	}
	f.confirms.close(invokerID)

	targetID, _ := strconv.ParseInt(c.targetID, 10, 64)
	serverID, _ := strconv.ParseInt(c.serverID, 10, 64)
	actorID, _ := strconv.ParseInt(invokerID, 10, 64)

	deleted, err := f.experienceService.RemoveAll(context.Background(), targetID, serverID, actorID, c.reason)
	displayName := common.GetDisplayName(s, c.serverID, c.targetID)

	var content string
	switch {
	case err != nil:
		log.Errorf("Failed to remove all experience from user %d: %v", targetID, err)
		content = "❌ " + locale.T(c.language, "error.storage")
	case deleted == 0:
		content = locale.T(c.language, "experience.nothing", displayName)
	default:
		content = locale.T(c.language, "experience.removed_all", displayName)
	}

	f.finishConfirm(s, i, content)

	if err == nil && deleted > 0 {
		f.announceRemoval(s, c, events.ExperienceChangeEvent{
			UserID:     targetID,
			ServerID:   serverID,
			ActorID:    actorID,
			Delta:      -deleted,
			Reason:     c.reason,
			RemovedAll: true,
		})
	}
}

func (f *Feature) handleRemoveAmountPrompt(s *discordgo.Session, i *discordgo.InteractionCreate, invokerID string) {
	c, ok := f.confirms.awaitAmount(invokerID)
	if !ok {
		ackSilently(s, i)
		return
	}

	if err := common.RespondWithContent(s, i, locale.T(c.language, "experience.prompt_amount"), true); err != nil {
		log.Errorf("Failed to prompt for removal amount: %v", err)
	}
}

// HandleMessage consumes a channel message as the removal amount. Returns
// false when no confirmation was waiting for this message. Non-numeric and
// non-positive input is ignored so the collector keeps waiting.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	c, ok := f.confirms.findAwaitingAmount(m.ChannelID, m.Author.ID)
	if !ok {
		return false
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(m.Content), 10, 64)
	if err != nil || amount <= 0 {
		return false
	}

	f.confirms.close(c.invokerID)

	targetID, _ := strconv.ParseInt(c.targetID, 10, 64)
	serverID, _ := strconv.ParseInt(c.serverID, 10, 64)
	actorID, _ := strconv.ParseInt(m.Author.ID, 10, 64)

	ctx := context.Background()
	affected, err := f.experienceService.Remove(ctx, targetID, serverID, actorID, amount, c.reason)
	displayName := common.GetDisplayName(s, c.serverID, c.targetID)

	var content string
	switch {
	case err != nil:
		log.Errorf("Failed to remove %d experience from user %d: %v", amount, targetID, err)
		content = "❌ " + locale.T(c.language, "error.storage")
	case affected == 0:
		content = locale.T(c.language, "experience.nothing", displayName)
	default:
		total, terr := f.experienceService.Total(ctx, targetID)
		if terr != nil {
			log.Errorf("Failed to read total for user %d: %v", targetID, terr)
		}
		content = locale.T(c.language, "experience.removed", common.FormatExperience(amount), displayName, common.FormatExperience(total))
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		log.Errorf("Failed to send removal result: %v", err)
	}

	if err == nil && affected > 0 {
		f.announceRemoval(s, c, events.ExperienceChangeEvent{
			UserID:   targetID,
			ServerID: serverID,
			ActorID:  actorID,
			Delta:    -amount,
			Reason:   c.reason,
		})
	}

	// Retire the confirmation message's buttons
	empty := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(c.interaction, &discordgo.WebhookEdit{Components: &empty}); err != nil {
		log.Debugf("Failed to retire confirmation buttons: %v", err)
	}
	return true
}

// announceRemoval posts the audit embed in the channel the removal ran in.
// The notifier mirrors the same embed to the guild's log channel.
func (f *Feature) announceRemoval(s *discordgo.Session, c *confirm, ev events.ExperienceChangeEvent) {
	actor := common.GetDisplayName(s, c.serverID, c.invokerID)
	subject := common.GetDisplayName(s, c.serverID, c.targetID)
	embed := buildLogEmbed(c.language, ev, actor, subject)
	if _, err := s.ChannelMessageSendEmbed(c.channelID, embed); err != nil {
		log.Errorf("Failed to announce removal in channel %s: %v", c.channelID, err)
	}
}

// HandleVoice handles /voicexp amount reason: grants to every member of the
// invoker's current voice channel. Deferred because a full channel means one
// ledger write per member.
func (f *Feature) HandleVoice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := f.loadSettings(i.GuildID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := settings.Language

	if !f.authorize(s, i, settings.VoiceGrantRoles) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	var amount int64
	var reason string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "reason":
			reason = opt.StringValue()
		}
	}
	if amount <= 0 {
		common.RespondWithBotError(s, i, lang, common.NewValidationError("error.invalid_amount"))
		return
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		common.RespondWithBotError(s, i, lang, common.NewPlatformError(err))
		return
	}

	var voiceChannelID string
	for _, vs := range guild.VoiceStates {
		if vs.UserID == i.Member.User.ID {
			voiceChannelID = vs.ChannelID
			break
		}
	}
	if voiceChannelID == "" {
		common.RespondWithError(s, i, locale.T(lang, "experience.not_in_voice"))
		return
	}

	var memberIDs []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == voiceChannelID {
			memberIDs = append(memberIDs, vs.UserID)
		}
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer voicexp response: %v", err)
		return
	}

	serverID, _ := strconv.ParseInt(i.GuildID, 10, 64)
	actorID, _ := strconv.ParseInt(i.Member.User.ID, 10, 64)

	ctx := context.Background()
	granted := 0
	for _, memberID := range memberIDs {
		userID, err := strconv.ParseInt(memberID, 10, 64)
		if err != nil {
			continue
		}
		if err := f.experienceService.Grant(ctx, userID, serverID, actorID, amount, reason); err != nil {
			log.Errorf("Failed to grant voice experience to user %d: %v", userID, err)
			continue
		}
		granted++
	}

	msg := locale.T(lang, "experience.voice_granted", common.FormatExperience(amount), granted, "<#"+voiceChannelID+">")
	common.FollowUpWithContent(s, i, msg, false)
}

// HandleInfo handles /infoxp [user]
func (f *Feature) HandleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := f.loadSettings(i.GuildID)
	if err != nil {
		common.RespondWithBotError(s, i, "", common.NewStorageError(err))
		return
	}
	lang := settings.Language

	if !f.authorize(s, i, settings.QueryRoles) {
		common.RespondWithBotError(s, i, lang, common.NewPermissionError())
		return
	}

	target := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	targetID, _ := strconv.ParseInt(target.ID, 10, 64)
	total, err := f.experienceService.Total(context.Background(), targetID)
	if err != nil {
		common.RespondWithBotError(s, i, lang, common.NewStorageError(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)

	var description string
	if total == 0 {
		description = locale.T(lang, "experience.info_none", displayName)
	} else {
		description = locale.T(lang, "experience.total", displayName, common.FormatExperience(total))
	}

	embed := &discordgo.MessageEmbed{
		Description: description,
		Color:       0x57F287,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Failed to respond to infoxp: %v", err)
	}
}

// finishConfirm rewrites the confirmation message with the outcome and drops
// its buttons
func (f *Feature) finishConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Errorf("Failed to finish removal confirmation: %v", err)
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
