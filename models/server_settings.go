package models

import (
	"strings"
)

// Supported interface languages.
const (
	LanguageEnglish = "eng"
	LanguageRussian = "rus"
)

// Setting field keys. These double as component custom IDs in the settings
// menu, so they must stay stable.
const (
	SettingLogChannelName  = "logChannelName"
	SettingGrantRoles      = "grantRoles"
	SettingRevokeRoles     = "revokeRoles"
	SettingVoiceGrantRoles = "voiceGrantRoles"
	SettingQueryRoles      = "queryRoles"
)

// SettingKeys lists the editable settings in menu order.
var SettingKeys = []string{
	SettingLogChannelName,
	SettingGrantRoles,
	SettingRevokeRoles,
	SettingVoiceGrantRoles,
	SettingQueryRoles,
}

// ServerSettings represents per-server configuration. All role fields hold
// comma-separated role display names.
type ServerSettings struct {
	ServerID        int64  `db:"server_id"`
	LogChannelName  string `db:"log_channel_name"`
	Language        string `db:"language"`
	GrantRoles      string `db:"grant_roles"`
	RevokeRoles     string `db:"revoke_roles"`
	VoiceGrantRoles string `db:"voice_grant_roles"`
	QueryRoles      string `db:"query_roles"`
}

// Field returns the value of an editable setting by key. The bool reports
// whether the key is known.
func (s *ServerSettings) Field(key string) (string, bool) {
	switch key {
	case SettingLogChannelName:
		return s.LogChannelName, true
	case SettingGrantRoles:
		return s.GrantRoles, true
	case SettingRevokeRoles:
		return s.RevokeRoles, true
	case SettingVoiceGrantRoles:
		return s.VoiceGrantRoles, true
	case SettingQueryRoles:
		return s.QueryRoles, true
	}
	return "", false
}

// SetField sets an editable setting by key. Returns false for unknown keys.
func (s *ServerSettings) SetField(key, value string) bool {
	switch key {
	case SettingLogChannelName:
		s.LogChannelName = value
	case SettingGrantRoles:
		s.GrantRoles = value
	case SettingRevokeRoles:
		s.RevokeRoles = value
	case SettingVoiceGrantRoles:
		s.VoiceGrantRoles = value
	case SettingQueryRoles:
		s.QueryRoles = value
	default:
		return false
	}
	return true
}

// RoleList splits a comma-separated allowlist field into trimmed role names.
// Empty segments are dropped.
func RoleList(field string) []string {
	parts := strings.Split(field, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			roles = append(roles, name)
		}
	}
	return roles
}
