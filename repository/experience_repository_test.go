package repository

import (
	"context"
	"testing"

	"github.com/cmertnic/EXPBOT/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceRepository_AddAndTotal(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown user totals zero", func(t *testing.T) {
		total, err := repo.Total(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("first add creates the row", func(t *testing.T) {
		err := repo.Add(ctx, 100, 7, 50)
		require.NoError(t, err)

		total, err := repo.Total(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(50), total)
	})

	t.Run("subsequent adds accumulate", func(t *testing.T) {
		err := repo.Add(ctx, 100, 7, 30)
		require.NoError(t, err)

		total, err := repo.Total(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(80), total)
	})

	t.Run("add from another server rewrites provenance", func(t *testing.T) {
		err := repo.Add(ctx, 100, 8, 5)
		require.NoError(t, err)

		entries, err := repo.ListByServer(ctx, 8)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(100), entries[0].UserID)
		assert.Equal(t, int64(85), entries[0].Experience)

		// No longer attributed to the old server
		entries, err = repo.ListByServer(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestExperienceRepository_SignedDeltaArithmetic(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 200, 7, 50))
	require.NoError(t, repo.Add(ctx, 200, 7, 30))

	affected, err := repo.Subtract(ctx, 200, 7, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	total, err := repo.Total(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
}

func TestExperienceRepository_Subtract(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no row is a no-op reporting zero", func(t *testing.T) {
		affected, err := repo.Subtract(ctx, 404, 7, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})

	t.Run("no floor, counter may go negative", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, 300, 7, 10))

		affected, err := repo.Subtract(ctx, 300, 7, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		total, err := repo.Total(ctx, 300)
		require.NoError(t, err)
		assert.Equal(t, int64(-15), total)
	})
}

func TestExperienceRepository_Delete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 500, 7, 120))

	deleted, err := repo.Delete(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	total, err := repo.Total(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Second delete finds nothing
	deleted, err = repo.Delete(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestExperienceRepository_ListByServer(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 1, 9, 10))
	require.NoError(t, repo.Add(ctx, 2, 9, 30))
	require.NoError(t, repo.Add(ctx, 3, 10, 20))

	entries, err := repo.ListByServer(ctx, 9)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by experience, highest first
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.Equal(t, int64(30), entries[0].Experience)
	assert.Equal(t, int64(1), entries[1].UserID)
}

func TestExperienceRepository_DeleteByServer(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 1, 11, 10))
	require.NoError(t, repo.Add(ctx, 2, 11, 20))
	require.NoError(t, repo.Add(ctx, 3, 12, 30))

	deleted, err := repo.DeleteByServer(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	entries, err := repo.ListByServer(ctx, 12)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// End-to-end ledger math: grant 100, remove 40, remove all.
func TestExperienceRepository_GrantRemoveRemoveAll(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExperienceRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 700, 42, 100))

	total, err := repo.Total(ctx, 700)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	affected, err := repo.Subtract(ctx, 700, 42, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	total, err = repo.Total(ctx, 700)
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)

	deleted, err := repo.Delete(ctx, 700)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	total, err = repo.Total(ctx, 700)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
