package experience

import (
	"testing"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLogEmbed(t *testing.T) {
	t.Run("removal carries the amount and reason", func(t *testing.T) {
		ev := events.ExperienceChangeEvent{
			UserID:   2,
			ServerID: 1,
			ActorID:  3,
			Delta:    -1500,
			Reason:   "spam",
		}

		embed := buildLogEmbed(models.LanguageEnglish, ev, "Mod", "Target")

		assert.Equal(t, "Mod removed 1,500 experience from Target.", embed.Description)
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "spam", embed.Fields[1].Value)
	})

	t.Run("remove-all names the total that was wiped", func(t *testing.T) {
		ev := events.ExperienceChangeEvent{
			UserID:     2,
			ServerID:   1,
			ActorID:    3,
			Delta:      -200,
			RemovedAll: true,
		}

		embed := buildLogEmbed(models.LanguageEnglish, ev, "Mod", "Target")

		assert.Equal(t, "Mod removed all experience (200) from Target.", embed.Description)
		require.Len(t, embed.Fields, 1)
	})

	t.Run("grant reads as a grant", func(t *testing.T) {
		ev := events.ExperienceChangeEvent{
			UserID:   2,
			ServerID: 1,
			ActorID:  3,
			Delta:    50,
		}

		embed := buildLogEmbed(models.LanguageEnglish, ev, "Mod", "Target")

		assert.Equal(t, "Mod granted 50 experience to Target.", embed.Description)
	})
}
