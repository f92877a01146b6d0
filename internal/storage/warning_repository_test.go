package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWarningRepo(t *testing.T) *WarningRepository {
	t.Helper()
	repo := NewWarningRepository(openTestDB(t))
	require.NoError(t, repo.MigrateTable())
	return repo
}

func TestWarningCountGrowsPerUser(t *testing.T) {
	repo := newWarningRepo(t)

	count, err := repo.Add(1, 100, "flood", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.Add(1, 100, "flood again", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Another user in the same group starts from zero
	count, err = repo.Add(1, 200, "links", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWarningListOldestFirst(t *testing.T) {
	repo := newWarningRepo(t)

	_, err := repo.Add(1, 100, "first", 7)
	require.NoError(t, err)
	_, err = repo.Add(1, 100, "second", 7)
	require.NoError(t, err)

	warns, err := repo.List(1, 100)
	require.NoError(t, err)
	require.Len(t, warns, 2)
	assert.Equal(t, "first", warns[0].Reason)
	assert.Equal(t, "second", warns[1].Reason)
}

func TestClearResetsCount(t *testing.T) {
	repo := newWarningRepo(t)

	_, err := repo.Add(1, 100, "a", 7)
	require.NoError(t, err)
	_, err = repo.Add(1, 100, "b", 7)
	require.NoError(t, err)

	require.NoError(t, repo.Clear(1, 100))

	count, err := repo.Count(1, 100)
	require.NoError(t, err)
	assert.Zero(t, count)
}
