package settings

import (
	"testing"
	"time"

	"github.com/cmertnic/EXPBOT/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		fields   int
		expected int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, pageCount(tt.fields), "fields=%d", tt.fields)
	}
}

func TestPageSlice(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e", "f", "g"}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, pageSlice(keys, 1))
	assert.Equal(t, []string{"f", "g"}, pageSlice(keys, 2))

	// Out-of-range pages clamp
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, pageSlice(keys, 0))
	assert.Equal(t, []string{"f", "g"}, pageSlice(keys, 9))
}

func menuButtons(t *testing.T, components []discordgo.MessageComponent) (prev, next *discordgo.Button) {
	t.Helper()
	require.Len(t, components, 2)

	nav, ok := components[1].(*discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, nav.Components, 2)

	prev, ok = nav.Components[0].(*discordgo.Button)
	require.True(t, ok)
	next, ok = nav.Components[1].(*discordgo.Button)
	require.True(t, ok)
	return prev, next
}

func TestBuildMenuComponents_NavigationBounds(t *testing.T) {
	r, _ := newTestRegistry(time.Unix(1000, 0))
	sess := openTestSession(t, r, "user1")

	// Five fields at five per page: a single page, both buttons disabled
	prev, next := menuButtons(t, buildMenuComponents(sess))
	assert.True(t, prev.Disabled)
	assert.True(t, next.Disabled)
}

func TestBuildMenuEmbed(t *testing.T) {
	r, _ := newTestRegistry(time.Unix(1000, 0))
	draft := models.ServerSettings{
		ServerID:       1,
		Language:       models.LanguageEnglish,
		LogChannelName: "xp-log",
	}
	sess, ok := r.open("user1", "guild-1", "channel-1", models.LanguageEnglish, draft, &discordgo.Interaction{})
	require.True(t, ok)

	embed := buildMenuEmbed(sess)

	require.Len(t, embed.Fields, len(models.SettingKeys))
	assert.Equal(t, "xp-log", embed.Fields[0].Value)
	// Unset fields render the placeholder instead of an empty string
	assert.Equal(t, "not set", embed.Fields[1].Value)
	assert.Equal(t, "Page 1 of 1", embed.Footer.Text)
}
