// Package locale provides the bot's two-language message catalog. Every
// user-facing string is looked up by key against the server's configured
// language, falling back to English for unknown keys or languages.
package locale

import (
	"fmt"

	"github.com/cmertnic/EXPBOT/models"

	"golang.org/x/text/language"
)

var catalogs = map[string]map[string]string{
	models.LanguageEnglish: english,
	models.LanguageRussian: russian,
}

// supported maps BCP 47 tags onto the catalog codes. The matcher picks the
// closest supported tag for whatever the caller hands in ("en-US", "ru", ...).
var (
	supportedTags  = []language.Tag{language.English, language.Russian}
	supportedCodes = []string{models.LanguageEnglish, models.LanguageRussian}
	matcher        = language.NewMatcher(supportedTags)
)

// Normalize maps a free-form language identifier onto a supported catalog
// code. Unparseable or unsupported input falls back to English.
func Normalize(input string) string {
	switch input {
	case models.LanguageEnglish, models.LanguageRussian:
		return input
	}

	tag, err := language.Parse(input)
	if err != nil {
		return models.LanguageEnglish
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return models.LanguageEnglish
	}
	return supportedCodes[idx]
}

// T returns the message for key in the given language, formatted with args.
// Unknown languages fall back to English; unknown keys come back as the key
// itself so a missing translation is visible rather than silent.
func T(lang, key string, args ...interface{}) string {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = english
	}

	msg, ok := catalog[key]
	if !ok {
		if msg, ok = english[key]; !ok {
			return key
		}
	}

	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// FieldLabel returns the localized display label for a settings field key.
// The second return reports whether the key is a known field.
func FieldLabel(lang, field string) (string, bool) {
	key, ok := fieldLabelKeys[field]
	if !ok {
		return "", false
	}
	return T(lang, key), true
}

var fieldLabelKeys = map[string]string{
	models.SettingLogChannelName:  "settings.field.logChannelName",
	models.SettingGrantRoles:      "settings.field.grantRoles",
	models.SettingRevokeRoles:     "settings.field.revokeRoles",
	models.SettingVoiceGrantRoles: "settings.field.voiceGrantRoles",
	models.SettingQueryRoles:      "settings.field.queryRoles",
}

var english = map[string]string{
	// Settings menu
	"settings.title":                 "Server Settings",
	"settings.page":                  "Page %d of %d",
	"settings.prev":                  "Previous",
	"settings.next":                  "Next",
	"settings.edit":                  "Edit",
	"settings.empty":                 "not set",
	"settings.prompt":                "Enter a new value for **%s**. You have 60 seconds.",
	"settings.saved":                 "**%s** updated.",
	"settings.timeout":               "No response received, the settings menu has been closed.",
	"settings.input_timeout":         "No value received in time, nothing was changed.",
	"settings.invalid_empty":         "The value cannot be empty.",
	"settings.invalid_label":         "The value cannot be the field name itself.",
	"settings.unknown_field":         "Unknown setting.",
	"settings.cooldown":              "The settings menu was opened recently. Try again in %s.",
	"settings.session_busy":          "You already have an open settings menu.",
	"settings.not_owner":             "Only the user who opened this menu can use it.",
	"settings.field.logChannelName":  "Log channel",
	"settings.field.grantRoles":      "Roles allowed to grant experience",
	"settings.field.revokeRoles":     "Roles allowed to remove experience",
	"settings.field.voiceGrantRoles": "Roles allowed to grant voice experience",
	"settings.field.queryRoles":      "Roles allowed to view experience",

	// Language command
	"language.prompt":      "Choose the bot language for this server.",
	"language.english":     "English",
	"language.russian":     "Russian",
	"language.saved":       "Language updated.",
	"language.timeout":     "No choice received, the language was not changed.",
	"language.prompt_busy": "You already have an open language prompt.",

	// Experience commands
	"experience.granted":         "Granted **%s** experience to %s. New total: **%s**.",
	"experience.removed":         "Removed **%s** experience from %s. New total: **%s**.",
	"experience.removed_all":     "Removed all experience from %s.",
	"experience.nothing":         "%s has no experience to remove.",
	"experience.total":           "%s has **%s** experience.",
	"experience.info_none":       "%s has no experience yet.",
	"experience.confirm_title":   "Remove experience",
	"experience.confirm_body":    "%s has **%s** experience. Choose what to remove.",
	"experience.confirm_busy":    "You already have a pending removal confirmation.",
	"experience.btn_amount":      "Remove amount",
	"experience.btn_all":         "Remove all",
	"experience.prompt_amount":   "Enter the amount to remove. You have 30 seconds.",
	"experience.not_in_voice":    "You must be in a voice channel to use this command.",
	"experience.voice_granted":   "Granted **%s** experience to **%d** members of %s.",
	"experience.cancelled":       "Cancelled, nothing was removed.",
	"experience.confirm_expired": "Confirmation timed out, nothing was removed.",
	"experience.dm_granted":      "You received **%s** experience on **%s**. Your total is now **%s**.",
	"experience.dm_removed":      "You lost **%s** experience on **%s**. Your total is now **%s**.",
	"experience.log_granted":     "%s granted %s experience to %s.",
	"experience.log_removed":     "%s removed %s experience from %s.",
	"experience.log_removed_all": "%s removed all experience (%s) from %s.",

	// Errors
	"error.invalid_amount": "The amount must be a positive number.",
	"error.no_permission":  "You do not have permission to use this command.",
	"error.storage":        "Something went wrong while saving. Please try again later.",
	"error.platform":       "Discord did not accept the request. Please try again later.",
	"error.guild_only":     "This command can only be used inside a server.",
}

var russian = map[string]string{
	// Settings menu
	"settings.title":                 "Настройки сервера",
	"settings.page":                  "Страница %d из %d",
	"settings.prev":                  "Назад",
	"settings.next":                  "Вперёд",
	"settings.edit":                  "Изменить",
	"settings.empty":                 "не задано",
	"settings.prompt":                "Введите новое значение для **%s**. У вас 60 секунд.",
	"settings.saved":                 "**%s** обновлено.",
	"settings.timeout":               "Ответ не получен, меню настроек закрыто.",
	"settings.input_timeout":         "Значение не получено вовремя, ничего не изменено.",
	"settings.invalid_empty":         "Значение не может быть пустым.",
	"settings.invalid_label":         "Значение не может совпадать с названием поля.",
	"settings.unknown_field":         "Неизвестная настройка.",
	"settings.cooldown":              "Меню настроек недавно открывалось. Попробуйте снова через %s.",
	"settings.session_busy":          "У вас уже открыто меню настроек.",
	"settings.not_owner":             "Этим меню может пользоваться только тот, кто его открыл.",
	"settings.field.logChannelName":  "Канал логов",
	"settings.field.grantRoles":      "Роли с правом выдавать опыт",
	"settings.field.revokeRoles":     "Роли с правом снимать опыт",
	"settings.field.voiceGrantRoles": "Роли с правом выдавать голосовой опыт",
	"settings.field.queryRoles":      "Роли с правом смотреть опыт",

	// Language command
	"language.prompt":      "Выберите язык бота для этого сервера.",
	"language.english":     "Английский",
	"language.russian":     "Русский",
	"language.saved":       "Язык обновлён.",
	"language.timeout":     "Выбор не получен, язык не изменён.",
	"language.prompt_busy": "У вас уже открыт выбор языка.",

	// Experience commands
	"experience.granted":         "Выдано **%s** опыта пользователю %s. Новый итог: **%s**.",
	"experience.removed":         "Снято **%s** опыта у пользователя %s. Новый итог: **%s**.",
	"experience.removed_all":     "Весь опыт пользователя %s удалён.",
	"experience.nothing":         "У %s нет опыта для снятия.",
	"experience.total":           "У %s **%s** опыта.",
	"experience.info_none":       "У %s пока нет опыта.",
	"experience.confirm_title":   "Снятие опыта",
	"experience.confirm_body":    "У %s **%s** опыта. Выберите, что снять.",
	"experience.confirm_busy":    "У вас уже есть неподтверждённое снятие опыта.",
	"experience.btn_amount":      "Снять количество",
	"experience.btn_all":         "Снять всё",
	"experience.prompt_amount":   "Введите количество для снятия. У вас 30 секунд.",
	"experience.not_in_voice":    "Для этой команды нужно находиться в голосовом канале.",
	"experience.voice_granted":   "Выдано **%s** опыта **%d** участникам канала %s.",
	"experience.cancelled":       "Отменено, ничего не снято.",
	"experience.confirm_expired": "Время подтверждения вышло, ничего не снято.",
	"experience.dm_granted":      "Вы получили **%s** опыта на сервере **%s**. Ваш итог: **%s**.",
	"experience.dm_removed":      "Вы потеряли **%s** опыта на сервере **%s**. Ваш итог: **%s**.",
	"experience.log_granted":     "%s выдал %s опыта пользователю %s.",
	"experience.log_removed":     "%s снял %s опыта у пользователя %s.",
	"experience.log_removed_all": "%s удалил весь опыт (%s) у пользователя %s.",

	// Errors
	"error.invalid_amount": "Количество должно быть положительным числом.",
	"error.no_permission":  "У вас нет прав для этой команды.",
	"error.storage":        "Не удалось сохранить данные. Попробуйте позже.",
	"error.platform":       "Discord не принял запрос. Попробуйте позже.",
	"error.guild_only":     "Эта команда работает только на сервере.",
}
