package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cmertnic/EXPBOT/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExperienceFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockExperienceRepository, *RecordingPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockRepo := new(MockExperienceRepository)
	publisher := &RecordingPublisher{}

	mockUoW.SetRepositories(mockRepo, nil, publisher)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockRepo, publisher
}

func TestExperienceService_Grant(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Add", ctx, int64(100), int64(200), int64(50)).Return(nil)

	err := svc.Grant(ctx, 100, 200, 300, 50, "event participation")
	require.NoError(t, err)

	require.Len(t, publisher.Events, 1)
	change := publisher.Events[0].(events.ExperienceChangeEvent)
	assert.Equal(t, int64(100), change.UserID)
	assert.Equal(t, int64(200), change.ServerID)
	assert.Equal(t, int64(300), change.ActorID)
	assert.Equal(t, int64(50), change.Delta)
	assert.Equal(t, "event participation", change.Reason)
	assert.False(t, change.RemovedAll)

	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestExperienceService_Grant_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()

	mockFactory, _, mockRepo, _ := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	err := svc.Grant(ctx, 100, 200, 300, 0, "nope")
	assert.Error(t, err)

	err = svc.Grant(ctx, 100, 200, 300, -5, "nope")
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "Add")
}

func TestExperienceService_Grant_StorageError(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Add", ctx, int64(100), int64(200), int64(50)).Return(errors.New("connection refused"))

	err := svc.Grant(ctx, 100, 200, 300, 50, "event")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.Empty(t, publisher.Events)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestExperienceService_Remove(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Subtract", ctx, int64(100), int64(200), int64(20)).Return(int64(1), nil)

	affected, err := svc.Remove(ctx, 100, 200, 300, 20, "misconduct")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.Len(t, publisher.Events, 1)
	change := publisher.Events[0].(events.ExperienceChangeEvent)
	assert.Equal(t, int64(-20), change.Delta)
}

func TestExperienceService_Remove_NothingToRemove(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Subtract", ctx, int64(404), int64(200), int64(20)).Return(int64(0), nil)

	affected, err := svc.Remove(ctx, 404, 200, 300, 20, "misconduct")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// No event for a no-op removal
	assert.Empty(t, publisher.Events)
}

func TestExperienceService_RemoveAll(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Total", ctx, int64(100)).Return(int64(75), nil)
	mockRepo.On("Delete", ctx, int64(100)).Return(int64(1), nil)

	deleted, err := svc.RemoveAll(ctx, 100, 200, 300, "reset")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.Len(t, publisher.Events, 1)
	change := publisher.Events[0].(events.ExperienceChangeEvent)
	assert.True(t, change.RemovedAll)
	assert.Equal(t, int64(-75), change.Delta)
}

func TestExperienceService_RemoveAll_SecondCallDeletesNothing(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, publisher := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Total", ctx, int64(100)).Return(int64(0), nil)
	mockRepo.On("Delete", ctx, int64(100)).Return(int64(0), nil)

	deleted, err := svc.RemoveAll(ctx, 100, 200, 300, "reset")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Empty(t, publisher.Events)
}

func TestExperienceService_Total_UnknownUser(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo, _ := newExperienceFixture()
	svc := NewExperienceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("Total", ctx, int64(404)).Return(int64(0), nil)

	total, err := svc.Total(ctx, 404)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
