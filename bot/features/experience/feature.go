package experience

import (
	"context"
	"strconv"

	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
	"github.com/cmertnic/EXPBOT/models"
	"github.com/cmertnic/EXPBOT/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Component custom IDs for the removal confirmation buttons
const (
	customIDRemoveAmount = "xp_remove_amount"
	customIDRemoveAll    = "xp_remove_all"
)

// Feature handles the experience ledger commands
type Feature struct {
	session           *discordgo.Session
	experienceService service.ExperienceService
	settingsService   service.SettingsService
	provisioner       *common.Provisioner
	confirms          *confirmRegistry
}

// NewFeature creates a new experience feature instance
func NewFeature(session *discordgo.Session, experienceService service.ExperienceService, settingsService service.SettingsService, provisioner *common.Provisioner) *Feature {
	return &Feature{
		session:           session,
		experienceService: experienceService,
		settingsService:   settingsService,
		provisioner:       provisioner,
		confirms:          newConfirmRegistry(),
	}
}

// Sweep disables confirmation messages past their deadline. Called from the
// bot's periodic sweeper.
func (f *Feature) Sweep() {
	for _, c := range f.confirms.sweep() {
		f.expireConfirm(c)
	}
}

func (f *Feature) expireConfirm(c *confirm) {
	content := locale.T(c.language, "experience.confirm_expired")
	edit := &discordgo.WebhookEdit{
		Content:    &content,
		Components: &[]discordgo.MessageComponent{},
	}
	if _, err := f.session.InteractionResponseEdit(c.interaction, edit); err != nil {
		log.Debugf("Failed to expire removal confirmation for user %s: %v", c.invokerID, err)
	}
}

// loadSettings fetches the guild's settings, initializing defaults if needed
func (f *Feature) loadSettings(guildID string) (*models.ServerSettings, error) {
	serverID, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, err
	}
	return f.settingsService.GetOrInit(context.Background(), serverID)
}

// authorize checks administrator status or membership in the allowlist field
func (f *Feature) authorize(s *discordgo.Session, i *discordgo.InteractionCreate, allowlistField string) bool {
	if common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		return true
	}
	return common.HasAnyRoleByName(s, i.GuildID, i.Member.User.ID, models.RoleList(allowlistField))
}
