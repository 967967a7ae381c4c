package service

import (
	"context"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/stretchr/testify/mock"
)

// MockExperienceRepository is a mock implementation of ExperienceRepository
type MockExperienceRepository struct {
	mock.Mock
}

func (m *MockExperienceRepository) Add(ctx context.Context, userID, serverID, amount int64) error {
	args := m.Called(ctx, userID, serverID, amount)
	return args.Error(0)
}

func (m *MockExperienceRepository) Subtract(ctx context.Context, userID, serverID, amount int64) (int64, error) {
	args := m.Called(ctx, userID, serverID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExperienceRepository) Delete(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExperienceRepository) Total(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExperienceRepository) ListByServer(ctx context.Context, serverID int64) ([]*models.ExperienceEntry, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExperienceEntry), args.Error(1)
}

func (m *MockExperienceRepository) DeleteByServer(ctx context.Context, serverID int64) (int64, error) {
	args := m.Called(ctx, serverID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, serverID int64) (*models.ServerSettings, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServerSettings), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *models.ServerSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	experienceRepo ExperienceRepository
	settingsRepo   SettingsRepository
	publisher      EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(exp ExperienceRepository, settings SettingsRepository, publisher EventPublisher) {
	m.experienceRepo = exp
	m.settingsRepo = settings
	if publisher == nil {
		publisher = &RecordingPublisher{}
	}
	m.publisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ExperienceRepository() ExperienceRepository {
	return m.experienceRepo
}

func (m *MockUnitOfWork) SettingsRepository() SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
