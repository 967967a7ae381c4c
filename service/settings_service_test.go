package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testDefaults = SettingsDefaults{
	LogChannelName:  "logs",
	Language:        models.LanguageEnglish,
	GrantRoles:      "Admin, Moderator",
	RevokeRoles:     "Admin, Moderator",
	VoiceGrantRoles: "Admin, Moderator",
	QueryRoles:      "Admin, Moderator",
}

func newSettingsFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockSettingsRepository, *RecordingPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockRepo := new(MockSettingsRepository)
	publisher := &RecordingPublisher{}

	mockUoW.SetRepositories(nil, mockRepo, publisher)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockRepo, publisher
}

func TestSettingsService_GetOrInit_ExistingRecord(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, _ := newSettingsFixture()
	svc := NewSettingsService(mockFactory, testDefaults)

	existing := &models.ServerSettings{
		ServerID:       42,
		LogChannelName: "audit",
		Language:       models.LanguageRussian,
		GrantRoles:     "Curator",
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Get", ctx, int64(42)).Return(existing, nil)

	settings, err := svc.GetOrInit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, existing, settings)

	// An existing record must not be rewritten
	mockRepo.AssertNotCalled(t, "Upsert")
}

func TestSettingsService_GetOrInit_InitializesDefaults(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, _ := newSettingsFixture()
	svc := NewSettingsService(mockFactory, testDefaults)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Get", ctx, int64(42)).Return(nil, nil)
	mockRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.ServerSettings) bool {
		return s.ServerID == 42 &&
			s.LogChannelName == "logs" &&
			s.Language == models.LanguageEnglish &&
			s.GrantRoles == "Admin, Moderator"
	})).Return(nil)

	settings, err := svc.GetOrInit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "logs", settings.LogChannelName)
	assert.Equal(t, "Admin, Moderator", settings.QueryRoles)

	mockRepo.AssertExpectations(t)
}

func TestSettingsService_GetOrInit_StorageError(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, _ := newSettingsFixture()
	svc := NewSettingsService(mockFactory, testDefaults)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Get", ctx, int64(42)).Return(nil, errors.New("broken pipe"))

	settings, err := svc.GetOrInit(ctx, 42)
	require.Error(t, err)
	assert.Nil(t, settings)
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestSettingsService_Save(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newSettingsFixture()
	svc := NewSettingsService(mockFactory, testDefaults)

	settings := &models.ServerSettings{
		ServerID:       42,
		LogChannelName: "mod-log",
		Language:       models.LanguageEnglish,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Upsert", ctx, settings).Return(nil)

	err := svc.Save(ctx, settings, models.SettingLogChannelName, 777)
	require.NoError(t, err)

	require.Len(t, publisher.Events, 1)
	updated := publisher.Events[0].(events.SettingsUpdatedEvent)
	assert.Equal(t, int64(42), updated.ServerID)
	assert.Equal(t, models.SettingLogChannelName, updated.Field)
	assert.Equal(t, int64(777), updated.EditorID)
}

func TestSettingsService_Save_StorageError(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newSettingsFixture()
	svc := NewSettingsService(mockFactory, testDefaults)

	settings := &models.ServerSettings{ServerID: 42}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Upsert", ctx, settings).Return(errors.New("disk full"))

	err := svc.Save(ctx, settings, models.SettingGrantRoles, 777)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.Empty(t, publisher.Events)

	mockUoW.AssertNotCalled(t, "Commit")
}
