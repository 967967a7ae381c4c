package common

import (
	"fmt"
	"math/rand"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GuildClient is the slice of the Discord API the provisioner needs.
// *discordgo.Session satisfies it; tests substitute a fake.
type GuildClient interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

// Provisioner creates guild resources on demand. All operations are
// idempotent by exact-name lookup. Two concurrent creates for the same name
// can still race and produce duplicates; Discord does not enforce unique
// names and neither do we.
type Provisioner struct {
	client    GuildClient
	botUserID string
}

// NewProvisioner creates a provisioner acting as the given bot user
func NewProvisioner(client GuildClient, botUserID string) *Provisioner {
	return &Provisioner{client: client, botUserID: botUserID}
}

// GetOrCreateTextChannel finds a text channel by exact name or creates it.
// Created channels are hidden from @everyone; the bot, members holding
// Moderate Members, and the elevated roles can see it. Returns the channel
// and whether it was created by this call.
func (p *Provisioner) GetOrCreateTextChannel(guildID, name string, elevatedRoleNames []string) (*discordgo.Channel, bool, error) {
	channels, err := p.client.GuildChannels(guildID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to list channels for guild %s: %v", ErrPlatform, guildID, err)
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch, false, nil
		}
	}

	overwrites := p.textChannelOverwrites(guildID, elevatedRoleNames)

	created, err := p.client.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create text channel %q in guild %s: %v", ErrPlatform, name, guildID, err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"channel": name,
	}).Info("Created text channel")

	return created, true, nil
}

// GetOrCreateVoiceChannel finds a voice channel by exact name or creates it,
// open to @everyone and the bot
func (p *Provisioner) GetOrCreateVoiceChannel(guildID, name string) (*discordgo.Channel, bool, error) {
	channels, err := p.client.GuildChannels(guildID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to list channels for guild %s: %v", ErrPlatform, guildID, err)
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildVoice && ch.Name == name {
			return ch, false, nil
		}
	}

	created, err := p.client.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildVoice,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:    guildID, // @everyone role shares the guild ID
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect,
			},
			{
				ID:    p.botUserID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect,
			},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create voice channel %q in guild %s: %v", ErrPlatform, name, guildID, err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"channel": name,
	}).Info("Created voice channel")

	return created, true, nil
}

// EnsureRoleExists finds a role by exact name or creates it with a
// pseudo-random color. Returns the role and whether it was created.
func (p *Provisioner) EnsureRoleExists(guildID, name string) (*discordgo.Role, bool, error) {
	roles, err := p.client.GuildRoles(guildID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to list roles for guild %s: %v", ErrPlatform, guildID, err)
	}

	for _, role := range roles {
		if role.Name == name {
			return role, false, nil
		}
	}

	color := rand.Intn(0xFFFFFF + 1)
	created, err := p.client.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create role %q in guild %s: %v", ErrPlatform, name, guildID, err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"role":    name,
	}).Info("Created role")

	return created, true, nil
}

// textChannelOverwrites builds the permission set for a new log channel.
// Lookup failures degrade to the base overwrites; the channel still works
// for the bot.
func (p *Provisioner) textChannelOverwrites(guildID string, elevatedRoleNames []string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   guildID, // @everyone
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
		{
			ID:    p.botUserID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}

	roles, err := p.client.GuildRoles(guildID)
	if err != nil {
		log.Errorf("Failed to list roles for guild %s: %v", guildID, err)
		return overwrites
	}

	elevated := make(map[string]struct{}, len(elevatedRoleNames))
	for _, name := range elevatedRoleNames {
		elevated[name] = struct{}{}
	}

	moderatorRoles := make(map[string]struct{})
	for _, role := range roles {
		if role.Permissions&discordgo.PermissionModerateMembers != 0 {
			moderatorRoles[role.ID] = struct{}{}
		}
		if _, ok := elevated[role.Name]; ok {
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    role.ID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
			})
		}
	}

	members, err := p.client.GuildMembers(guildID, "", 1000)
	if err != nil {
		log.Errorf("Failed to list members for guild %s: %v", guildID, err)
		return overwrites
	}

	for _, member := range members {
		for _, roleID := range member.Roles {
			if _, ok := moderatorRoles[roleID]; ok {
				overwrites = append(overwrites, &discordgo.PermissionOverwrite{
					ID:    member.User.ID,
					Type:  discordgo.PermissionOverwriteTypeMember,
					Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
				})
				break
			}
		}
	}

	return overwrites
}
