package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-groupwarden/internal/models"
)

func newLockRepo(t *testing.T) *LockRepository {
	t.Helper()
	repo := NewLockRepository(openTestDB(t))
	require.NoError(t, repo.MigrateTable())
	return repo
}

func TestLockHasSetSemantics(t *testing.T) {
	repo := newLockRepo(t)

	require.NoError(t, repo.Lock(1, models.LockSticker))
	require.NoError(t, repo.Lock(1, models.LockSticker))
	require.NoError(t, repo.Lock(1, models.LockURL))

	locked, err := repo.Locked(1)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{models.LockSticker: true, models.LockURL: true}, locked)
}

func TestUnlock(t *testing.T) {
	repo := newLockRepo(t)

	require.NoError(t, repo.Lock(1, models.LockMedia))
	require.NoError(t, repo.Unlock(1, models.LockMedia))
	require.NoError(t, repo.Unlock(1, models.LockMedia))

	locked, err := repo.Locked(1)
	require.NoError(t, err)
	assert.Empty(t, locked)
}

func TestLocksAreScopedPerGroup(t *testing.T) {
	repo := newLockRepo(t)

	require.NoError(t, repo.Lock(1, models.LockAll))

	locked, err := repo.Locked(2)
	require.NoError(t, err)
	assert.Empty(t, locked)
}
