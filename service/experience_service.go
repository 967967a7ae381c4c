package service

import (
	"context"
	"fmt"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"
)

// experienceService implements the ExperienceService interface
type experienceService struct {
	uowFactory UnitOfWorkFactory
}

// NewExperienceService creates a new experience service
func NewExperienceService(uowFactory UnitOfWorkFactory) ExperienceService {
	return &experienceService{
		uowFactory: uowFactory,
	}
}

// Grant adds a positive amount of experience to a user
func (s *experienceService) Grant(ctx context.Context, userID, serverID, actorID, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	if err := uow.ExperienceRepository().Add(ctx, userID, serverID, amount); err != nil {
		return fmt.Errorf("%w: failed to grant experience: %w", ErrStorage, err)
	}

	uow.EventBus().Publish(events.ExperienceChangeEvent{
		UserID:   userID,
		ServerID: serverID,
		ActorID:  actorID,
		Delta:    amount,
		Reason:   reason,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

// Remove subtracts amount from a user's experience. A user with no ledger
// row yields zero rows affected, which callers treat as "nothing to remove".
func (s *experienceService) Remove(ctx context.Context, userID, serverID, actorID, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	affected, err := uow.ExperienceRepository().Subtract(ctx, userID, serverID, amount)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to remove experience: %w", ErrStorage, err)
	}

	if affected > 0 {
		uow.EventBus().Publish(events.ExperienceChangeEvent{
			UserID:   userID,
			ServerID: serverID,
			ActorID:  actorID,
			Delta:    -amount,
			Reason:   reason,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return affected, nil
}

// RemoveAll deletes the user's ledger row entirely
func (s *experienceService) RemoveAll(ctx context.Context, userID, serverID, actorID int64, reason string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	// Capture the total before deletion so the event carries what was lost
	total, err := uow.ExperienceRepository().Total(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read experience before removal: %w", ErrStorage, err)
	}

	deleted, err := uow.ExperienceRepository().Delete(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to remove all experience: %w", ErrStorage, err)
	}

	if deleted > 0 {
		uow.EventBus().Publish(events.ExperienceChangeEvent{
			UserID:     userID,
			ServerID:   serverID,
			ActorID:    actorID,
			Delta:      -total,
			Reason:     reason,
			RemovedAll: true,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return deleted, nil
}

// Total returns the user's current experience, 0 for unknown users
func (s *experienceService) Total(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	total, err := uow.ExperienceRepository().Total(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get total experience: %w", ErrStorage, err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return total, nil
}

// ListByServer returns all (user, experience) pairs attributed to a server
func (s *experienceService) ListByServer(ctx context.Context, serverID int64) ([]*models.ExperienceEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	entries, err := uow.ExperienceRepository().ListByServer(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list experience by server: %w", ErrStorage, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return entries, nil
}

// ClearServer wipes all ledger rows attributed to a server
func (s *experienceService) ClearServer(ctx context.Context, serverID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer uow.Rollback()

	deleted, err := uow.ExperienceRepository().DeleteByServer(ctx, serverID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to clear server experience: %w", ErrStorage, err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return deleted, nil
}
