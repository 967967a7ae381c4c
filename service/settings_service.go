package service

import (
	"context"
	"fmt"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	uowFactory UnitOfWorkFactory
	defaults   SettingsDefaults
}

// NewSettingsService creates a new settings service
func NewSettingsService(uowFactory UnitOfWorkFactory, defaults SettingsDefaults) SettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		defaults:   defaults,
	}
}

// GetOrInit returns the settings for a server, creating a row from the
// configured defaults when none exists yet. Calling it twice leaves the
// stored record unchanged after the first call.
func (s *settingsService) GetOrInit(ctx context.Context, serverID int64) (*models.ServerSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get server settings: %w", ErrStorage, err)
	}

	if settings == nil {
		settings = &models.ServerSettings{
			ServerID:        serverID,
			LogChannelName:  s.defaults.LogChannelName,
			Language:        s.defaults.Language,
			GrantRoles:      s.defaults.GrantRoles,
			RevokeRoles:     s.defaults.RevokeRoles,
			VoiceGrantRoles: s.defaults.VoiceGrantRoles,
			QueryRoles:      s.defaults.QueryRoles,
		}
		if err := uow.SettingsRepository().Upsert(ctx, settings); err != nil {
			return nil, fmt.Errorf("%w: failed to initialize server settings: %w", ErrStorage, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return settings, nil
}

// Save persists the full settings record, last editor wins. The edited field
// name rides along on the event for log purposes.
func (s *settingsService) Save(ctx context.Context, settings *models.ServerSettings, field string, editorID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().Upsert(ctx, settings); err != nil {
		return fmt.Errorf("%w: failed to save server settings: %w", ErrStorage, err)
	}

	uow.EventBus().Publish(events.SettingsUpdatedEvent{
		ServerID: settings.ServerID,
		Field:    field,
		EditorID: editorID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}
