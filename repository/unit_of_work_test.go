package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingSubscriber collects events delivered through the real bus.
type capturingSubscriber struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturingSubscriber) handle(ctx context.Context, event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturingSubscriber) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	sub := &capturingSubscriber{}
	bus.Subscribe(events.EventTypeExperienceChange, sub.handle)

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	require.NoError(t, uow.ExperienceRepository().Add(ctx, 55, 7, 25))
	uow.EventBus().Publish(events.ExperienceChangeEvent{
		UserID:   55,
		ServerID: 7,
		Delta:    25,
	})
	require.NoError(t, uow.Commit())

	// Data visible outside the transaction
	total, err := NewExperienceRepository(testDB.DB).Total(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	// Handlers run on goroutines, so give the flush a moment
	require.Eventually(t, func() bool {
		return sub.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	sub := &capturingSubscriber{}
	bus.Subscribe(events.EventTypeExperienceChange, sub.handle)

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	require.NoError(t, uow.ExperienceRepository().Add(ctx, 66, 7, 40))
	uow.EventBus().Publish(events.ExperienceChangeEvent{
		UserID:   66,
		ServerID: 7,
		Delta:    40,
	})
	require.NoError(t, uow.Rollback())

	total, err := NewExperienceRepository(testDB.DB).Total(ctx, 66)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, sub.count())
}

func TestUnitOfWork_DoubleBeginFails(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}
