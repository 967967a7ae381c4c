package settings

import (
	"errors"
	"testing"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationKey(t *testing.T, err error, key string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	var botErr *common.BotError
	require.True(t, errors.As(err, &botErr))
	assert.Equal(t, key, botErr.MessageKey)
}

func TestValidateFieldValue(t *testing.T) {
	t.Run("accepts a plain value", func(t *testing.T) {
		err := validateFieldValue(models.LanguageEnglish, models.SettingLogChannelName, "xp-log")
		assert.NoError(t, err)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		err := validateFieldValue(models.LanguageEnglish, "bogus", "value")
		assertValidationKey(t, err, "settings.unknown_field")
	})

	t.Run("rejects empty value", func(t *testing.T) {
		err := validateFieldValue(models.LanguageEnglish, models.SettingGrantRoles, "")
		assertValidationKey(t, err, "settings.invalid_empty")
	})

	t.Run("rejects the field label as value", func(t *testing.T) {
		for _, lang := range []string{models.LanguageEnglish, models.LanguageRussian} {
			for _, key := range models.SettingKeys {
				label, ok := locale.FieldLabel(lang, key)
				require.True(t, ok)

				err := validateFieldValue(lang, key, label)
				assertValidationKey(t, err, "settings.invalid_label")
			}
		}
	})

	t.Run("label of another language is a plain value", func(t *testing.T) {
		label, ok := locale.FieldLabel(models.LanguageRussian, models.SettingLogChannelName)
		require.True(t, ok)

		err := validateFieldValue(models.LanguageEnglish, models.SettingLogChannelName, label)
		assert.NoError(t, err)
	})
}
