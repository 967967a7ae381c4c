package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// RolesAboveMember returns the names of every role positioned above the
// member's highest role. Discord puts higher roles at higher positions; the
// @everyone role sits at position 0 and is never included.
func RolesAboveMember(roles []*discordgo.Role, member *discordgo.Member) []string {
	held := make(map[string]struct{}, len(member.Roles))
	for _, roleID := range member.Roles {
		held[roleID] = struct{}{}
	}

	highest := 0
	for _, role := range roles {
		if _, ok := held[role.ID]; ok && role.Position > highest {
			highest = role.Position
		}
	}

	var names []string
	for _, role := range roles {
		if role.Position > highest {
			names = append(names, role.Name)
		}
	}
	return names
}

// BotElevatedRoles returns the names of the guild roles positioned above the
// bot's own highest role. These are the roles that outrank the bot and get
// read access to channels it provisions. Errors resolve to an empty list.
func BotElevatedRoles(s *discordgo.Session, guildID string) []string {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Errorf("Failed to fetch roles for guild %s: %v", guildID, err)
		return nil
	}

	botMember, err := s.GuildMember(guildID, s.State.User.ID)
	if err != nil {
		log.Errorf("Failed to fetch bot member in guild %s: %v", guildID, err)
		return nil
	}

	return RolesAboveMember(roles, botMember)
}
