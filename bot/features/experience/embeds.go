package experience

import (
	"time"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/locale"

	"github.com/bwmarrin/discordgo"
)

// buildLogEmbed renders the audit embed for a committed ledger change. The
// same embed goes to the channel the command ran in and to the guild's log
// channel.
func buildLogEmbed(lang string, ev events.ExperienceChangeEvent, actor, subject string) *discordgo.MessageEmbed {
	var description string
	switch {
	case ev.RemovedAll:
		description = locale.T(lang, "experience.log_removed_all", actor, common.FormatExperience(-ev.Delta), subject)
	case ev.Delta >= 0:
		description = locale.T(lang, "experience.log_granted", actor, common.FormatExperience(ev.Delta), subject)
	default:
		description = locale.T(lang, "experience.log_removed", actor, common.FormatExperience(-ev.Delta), subject)
	}

	embed := &discordgo.MessageEmbed{
		Description: description,
		Color:       0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "When", Value: common.FormatDiscordTimestamp(time.Now(), "f"), Inline: true},
		},
	}
	if ev.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Reason",
			Value:  ev.Reason,
			Inline: true,
		})
	}
	return embed
}
