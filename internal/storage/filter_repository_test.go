package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterRepo(t *testing.T) *FilterRepository {
	t.Helper()
	repo := NewFilterRepository(openTestDB(t))
	require.NoError(t, repo.MigrateTable())
	return repo
}

func TestUpsertFoldsTriggerCase(t *testing.T) {
	repo := newFilterRepo(t)

	require.NoError(t, repo.Upsert(1, "HELLO", "hi there", 7))
	require.NoError(t, repo.Upsert(1, "hello", "hi again", 8))

	filters, err := repo.All(1)
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "hello", filters[0].Trigger)
	assert.Equal(t, "hi again", filters[0].Response)
}

func TestAllReturnsCreationOrder(t *testing.T) {
	repo := newFilterRepo(t)

	require.NoError(t, repo.Upsert(1, "zzz", "last alphabetically", 7))
	require.NoError(t, repo.Upsert(1, "aaa", "first alphabetically", 7))

	filters, err := repo.All(1)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, "zzz", filters[0].Trigger)
	assert.Equal(t, "aaa", filters[1].Trigger)
}

func TestRemoveMissingTriggerIsNoOp(t *testing.T) {
	repo := newFilterRepo(t)

	require.NoError(t, repo.Upsert(1, "keep", "kept", 7))
	require.NoError(t, repo.Remove(1, "gone"))
	require.NoError(t, repo.Remove(1, "KEEP"))

	filters, err := repo.All(1)
	require.NoError(t, err)
	assert.Empty(t, filters)
}
