package repository

import (
	"context"
	"fmt"

	"github.com/cmertnic/EXPBOT/database"
	"github.com/cmertnic/EXPBOT/models"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements the service.SettingsRepository interface
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// newSettingsRepositoryWithTx creates a new settings repository bound to a transaction
func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// Get returns the settings row for a server, or nil when none exists
func (r *SettingsRepository) Get(ctx context.Context, serverID int64) (*models.ServerSettings, error) {
	query := `
		SELECT server_id, log_channel_name, language,
		       grant_roles, revoke_roles, voice_grant_roles, query_roles
		FROM server_settings
		WHERE server_id = $1
	`

	var settings models.ServerSettings
	err := r.q.QueryRow(ctx, query, serverID).Scan(
		&settings.ServerID,
		&settings.LogChannelName,
		&settings.Language,
		&settings.GrantRoles,
		&settings.RevokeRoles,
		&settings.VoiceGrantRoles,
		&settings.QueryRoles,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for server %d: %w", serverID, err)
	}

	return &settings, nil
}

// Upsert writes the full settings record, last editor wins
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.ServerSettings) error {
	query := `
		INSERT INTO server_settings
			(server_id, log_channel_name, language,
			 grant_roles, revoke_roles, voice_grant_roles, query_roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (server_id) DO UPDATE
		SET log_channel_name = $2,
		    language = $3,
		    grant_roles = $4,
		    revoke_roles = $5,
		    voice_grant_roles = $6,
		    query_roles = $7
	`

	_, err := r.q.Exec(ctx, query,
		settings.ServerID,
		settings.LogChannelName,
		settings.Language,
		settings.GrantRoles,
		settings.RevokeRoles,
		settings.VoiceGrantRoles,
		settings.QueryRoles,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert settings for server %d: %w", settings.ServerID, err)
	}

	return nil
}
