package settings

import (
	"fmt"
	"strings"

	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/bwmarrin/discordgo"
)

const fieldsPerPage = 5

// Component custom ID prefixes routed to this feature
const (
	customIDPrev       = "settings_prev"
	customIDNext       = "settings_next"
	customIDEditPrefix = "settings_edit:"
)

// pageCount returns the number of menu pages for n fields, at least 1
func pageCount(n int) int {
	if n <= fieldsPerPage {
		return 1
	}
	return (n + fieldsPerPage - 1) / fieldsPerPage
}

// pageSlice returns the field keys visible on a 1-based page. Out-of-range
// pages clamp to the nearest valid page.
func pageSlice(keys []string, page int) []string {
	last := pageCount(len(keys))
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * fieldsPerPage
	end := start + fieldsPerPage
	if end > len(keys) {
		end = len(keys)
	}
	return keys[start:end]
}

// buildMenuEmbed renders the listing embed for a session snapshot
func buildMenuEmbed(s snapshot) *discordgo.MessageEmbed {
	lang := s.language
	visible := pageSlice(models.SettingKeys, s.page)

	fields := make([]*discordgo.MessageEmbedField, 0, len(visible))
	for _, key := range visible {
		label, _ := locale.FieldLabel(lang, key)
		value, _ := s.draft.Field(key)
		if strings.TrimSpace(value) == "" {
			value = locale.T(lang, "settings.empty")
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  label,
			Value: value,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  locale.T(lang, "settings.title"),
		Color:  0x5865F2,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: locale.T(lang, "settings.page", s.page, pageCount(len(models.SettingKeys))),
		},
	}
}

// buildMenuComponents renders the edit buttons for the visible fields plus
// prev/next navigation, disabled at the page bounds
func buildMenuComponents(s snapshot) []discordgo.MessageComponent {
	lang := s.language
	visible := pageSlice(models.SettingKeys, s.page)
	last := pageCount(len(models.SettingKeys))

	editButtons := make([]discordgo.MessageComponent, 0, len(visible))
	for _, key := range visible {
		label, _ := locale.FieldLabel(lang, key)
		editButtons = append(editButtons, &discordgo.Button{
			Label:    fmt.Sprintf("%s: %s", locale.T(lang, "settings.edit"), label),
			Style:    discordgo.SecondaryButton,
			CustomID: customIDEditPrefix + key,
		})
	}

	nav := []discordgo.MessageComponent{
		&discordgo.Button{
			Label:    locale.T(lang, "settings.prev"),
			Style:    discordgo.PrimaryButton,
			CustomID: customIDPrev,
			Disabled: s.page <= 1,
		},
		&discordgo.Button{
			Label:    locale.T(lang, "settings.next"),
			Style:    discordgo.PrimaryButton,
			CustomID: customIDNext,
			Disabled: s.page >= last,
		},
	}

	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: editButtons},
		&discordgo.ActionsRow{Components: nav},
	}
}
