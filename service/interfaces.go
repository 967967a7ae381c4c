package service

import (
	"context"
	"errors"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"
)

// ErrStorage marks failures originating in the storage layer. Callers match
// it with errors.Is to distinguish storage faults from domain outcomes.
var ErrStorage = errors.New("storage error")

// ExperienceRepository defines the interface for experience ledger data access
type ExperienceRepository interface {
	// Add increments a user's experience, creating the row on first write.
	// Single-statement upsert; safe under concurrent writers.
	Add(ctx context.Context, userID, serverID, amount int64) error

	// Subtract decrements a user's experience and returns the number of rows
	// affected. Zero rows means there was nothing to remove.
	Subtract(ctx context.Context, userID, serverID, amount int64) (int64, error)

	// Delete removes a user's row entirely and returns rows deleted (0 or 1)
	Delete(ctx context.Context, userID int64) (int64, error)

	// Total returns the user's experience, or 0 when no row exists
	Total(ctx context.Context, userID int64) (int64, error)

	// ListByServer returns the (user, experience) pairs whose most recent
	// write came from the given server
	ListByServer(ctx context.Context, serverID int64) ([]*models.ExperienceEntry, error)

	// DeleteByServer removes every row whose provenance is the given server
	// and returns the number of rows deleted
	DeleteByServer(ctx context.Context, serverID int64) (int64, error)
}

// SettingsRepository defines the interface for server settings data access
type SettingsRepository interface {
	// Get returns the settings row for a server, or nil when none exists
	Get(ctx context.Context, serverID int64) (*models.ServerSettings, error)

	// Upsert writes the full settings record, last editor wins
	Upsert(ctx context.Context, settings *models.ServerSettings) error
}

// ExperienceService defines the interface for ledger operations
type ExperienceService interface {
	// Grant adds a positive amount of experience to a user
	Grant(ctx context.Context, userID, serverID, actorID, amount int64, reason string) error

	// Remove subtracts amount from a user's experience. Returns the number
	// of rows affected; zero means the user had no ledger row.
	Remove(ctx context.Context, userID, serverID, actorID, amount int64, reason string) (int64, error)

	// RemoveAll deletes the user's ledger row and returns rows deleted
	RemoveAll(ctx context.Context, userID, serverID, actorID int64, reason string) (int64, error)

	// Total returns the user's current experience, 0 for unknown users
	Total(ctx context.Context, userID int64) (int64, error)

	// ListByServer returns server-scoped (user, experience) pairs
	ListByServer(ctx context.Context, serverID int64) ([]*models.ExperienceEntry, error)

	// ClearServer wipes all ledger rows attributed to a server
	ClearServer(ctx context.Context, serverID int64) (int64, error)
}

// SettingsService defines the interface for server settings operations
type SettingsService interface {
	// GetOrInit returns the settings for a server, creating the row from
	// configured defaults when absent. Idempotent.
	GetOrInit(ctx context.Context, serverID int64) (*models.ServerSettings, error)

	// Save persists a full settings record and announces the edited field
	Save(ctx context.Context, settings *models.ServerSettings, field string, editorID int64) error
}

// SettingsDefaults carries the values used to initialize a fresh settings row
type SettingsDefaults struct {
	LogChannelName  string
	Language        string
	GrantRoles      string
	RevokeRoles     string
	VoiceGrantRoles string
	QueryRoles      string
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	ExperienceRepository() ExperienceRepository
	SettingsRepository() SettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
