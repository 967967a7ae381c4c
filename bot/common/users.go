package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// IsUserAdmin reports whether the user owns the guild or holds a role with
// the Administrator permission. Errors resolve to false.
func IsUserAdmin(s *discordgo.Session, guildID, userID string) bool {
	if guild, err := s.State.Guild(guildID); err == nil && guild.OwnerID == userID {
		return true
	}

	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		log.Errorf("Failed to fetch member %s in guild %s: %v", userID, guildID, err)
		return false
	}

	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Errorf("Failed to fetch roles for guild %s: %v", guildID, err)
		return false
	}

	roleByID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, role := range guildRoles {
		roleByID[role.ID] = role
	}

	for _, roleID := range member.Roles {
		if role, ok := roleByID[roleID]; ok && role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}

// HasAnyRoleByName reports whether the member holds at least one role whose
// display name appears in the allowlist. An empty allowlist matches nothing.
func HasAnyRoleByName(s *discordgo.Session, guildID, userID string, allowedNames []string) bool {
	if len(allowedNames) == 0 {
		return false
	}

	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		log.Errorf("Failed to fetch member %s in guild %s: %v", userID, guildID, err)
		return false
	}

	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Errorf("Failed to fetch roles for guild %s: %v", guildID, err)
		return false
	}

	allowed := make(map[string]struct{}, len(allowedNames))
	for _, name := range allowedNames {
		allowed[name] = struct{}{}
	}

	nameByID := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		nameByID[role.ID] = role.Name
	}

	for _, roleID := range member.Roles {
		if _, ok := allowed[nameByID[roleID]]; ok {
			return true
		}
	}

	return false
}

// GetDisplayName returns the server-specific display name for a user.
// Falls back to username if nickname is not set or if there's an error.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, strconv.FormatInt(userID, 10))
}
