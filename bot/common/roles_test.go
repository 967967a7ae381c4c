package common

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestRolesAboveMember(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "everyone", Name: "@everyone", Position: 0},
		{ID: "member", Name: "Member", Position: 1},
		{ID: "bot", Name: "EXP Bot", Position: 2},
		{ID: "mod", Name: "Moderator", Position: 3},
		{ID: "admin", Name: "Admin", Position: 4},
	}

	t.Run("returns only roles outranking the member", func(t *testing.T) {
		member := &discordgo.Member{Roles: []string{"bot"}}

		names := RolesAboveMember(roles, member)

		assert.ElementsMatch(t, []string{"Moderator", "Admin"}, names)
	})

	t.Run("highest held role wins with multiple roles", func(t *testing.T) {
		member := &discordgo.Member{Roles: []string{"member", "mod"}}

		names := RolesAboveMember(roles, member)

		assert.ElementsMatch(t, []string{"Admin"}, names)
	})

	t.Run("top role sees nothing above it", func(t *testing.T) {
		member := &discordgo.Member{Roles: []string{"admin"}}

		assert.Empty(t, RolesAboveMember(roles, member))
	})

	t.Run("member with no roles outranked by all but everyone", func(t *testing.T) {
		member := &discordgo.Member{Roles: nil}

		names := RolesAboveMember(roles, member)

		assert.ElementsMatch(t, []string{"Member", "EXP Bot", "Moderator", "Admin"}, names)
	})
}
