package locale

import (
	"testing"

	"github.com/cmertnic/EXPBOT/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"eng", models.LanguageEnglish},
		{"rus", models.LanguageRussian},
		{"en", models.LanguageEnglish},
		{"en-US", models.LanguageEnglish},
		{"ru", models.LanguageRussian},
		{"ru-RU", models.LanguageRussian},
		{"", models.LanguageEnglish},
		{"not a tag !!", models.LanguageEnglish},
		{"fr", models.LanguageEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestT(t *testing.T) {
	t.Run("english message", func(t *testing.T) {
		assert.Equal(t, "Server Settings", T(models.LanguageEnglish, "settings.title"))
	})

	t.Run("russian message", func(t *testing.T) {
		assert.Equal(t, "Настройки сервера", T(models.LanguageRussian, "settings.title"))
	})

	t.Run("formats arguments", func(t *testing.T) {
		assert.Equal(t, "Page 2 of 3", T(models.LanguageEnglish, "settings.page", 2, 3))
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		assert.Equal(t, "Server Settings", T("deu", "settings.title"))
	})

	t.Run("unknown key returns the key", func(t *testing.T) {
		assert.Equal(t, "no.such.key", T(models.LanguageEnglish, "no.such.key"))
	})
}

func TestFieldLabel(t *testing.T) {
	t.Run("every setting key has a label in both languages", func(t *testing.T) {
		for _, key := range models.SettingKeys {
			for _, lang := range []string{models.LanguageEnglish, models.LanguageRussian} {
				label, ok := FieldLabel(lang, key)
				assert.True(t, ok, "missing label for %s/%s", lang, key)
				assert.NotEmpty(t, label)
			}
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, ok := FieldLabel(models.LanguageEnglish, "bogus")
		assert.False(t, ok)
	})
}
