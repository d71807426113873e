package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/snapkv/internal/core/domain"
	"github.com/yndnr/snapkv/internal/storage/memory"
)

func TestArchive_BackupCountsLiveRecords(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Set("a", "f", "1", 0))
	require.NoError(t, store.SetWithTTL("b", "f", "2", 0, 10))
	require.NoError(t, store.SetWithTTL("c", "f", "3", 0, 100))
	require.NoError(t, store.SetWithTTL("c", "g", "4", 0, 5))

	a := NewArchive()
	assert.Equal(t, 2, a.Backup(store, 10), "b expired at 10")

	info, ok := a.Floor(10)
	require.True(t, ok)
	assert.Equal(t, Info{Time: 10, Records: 2, Fields: 2}, info)
}

func TestArchive_BackupEmptyStore(t *testing.T) {
	a := NewArchive()
	assert.Equal(t, 0, a.Backup(memory.New(), 5))
	assert.Equal(t, 1, a.Len())
}

func TestArchive_RestoreWithoutBackup(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Set("k", "f", "v", 0))

	a := NewArchive()
	_, err := a.Restore(store, 100, 100)
	assert.True(t, errors.Is(err, domain.ErrNoBackupAvailable))

	a.Backup(store, 50)
	_, err = a.Restore(store, 100, 49)
	assert.True(t, errors.Is(err, domain.ErrNoBackupAvailable))

	got, ok := store.Get("k", "f", 100)
	require.True(t, ok, "failed restore must not touch the store")
	assert.Equal(t, "v", got)
}

func TestArchive_BackupThenRestoreSameTime(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Set("k", "perm", "p", 0))
	require.NoError(t, store.SetWithTTL("k", "tmp", "t", 0, 100))
	require.NoError(t, store.SetWithTTL("k", "gone", "g", 0, 20))

	a := NewArchive()
	a.Backup(store, 50)

	before := store.ScanAll("k", 50)
	remBefore, _ := store.TTL("k", "tmp", 50)

	_, err := a.Restore(store, 50, 50)
	require.NoError(t, err)

	assert.Equal(t, before, store.ScanAll("k", 50))
	remAfter, ok := store.TTL("k", "tmp", 50)
	require.True(t, ok)
	assert.Equal(t, remBefore, remAfter)
	assert.Equal(t, 2, store.FieldCount(), "expired cell was not captured")
}

func TestArchive_RestoreRebasesTTL(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.SetWithTTL("k", "f", "v", 100, 50))

	a := NewArchive()
	a.Backup(store, 100)

	_, err := a.Restore(store, 500, 100)
	require.NoError(t, err)

	rem, ok := store.TTL("k", "f", 500)
	require.True(t, ok)
	assert.Equal(t, int64(50), rem, "expiresAt should be 550")

	_, ok = store.Get("k", "f", 549)
	assert.True(t, ok)
	_, ok = store.Get("k", "f", 550)
	assert.False(t, ok)
}

func TestArchive_RestoreScenario(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	require.NoError(t, store.SetWithTTL("u1", "name", "Alice", 100, 50))
	assert.Equal(t, 1, a.Backup(store, 120))
	require.NoError(t, store.Set("u1", "name", "Bob", 130))

	info, err := a.Restore(store, 200, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(120), info.Time)

	got, ok := store.Get("u1", "name", 200)
	require.True(t, ok)
	assert.Equal(t, "Alice", got)

	got, ok = store.Get("u1", "name", 229)
	require.True(t, ok)
	assert.Equal(t, "Alice", got)

	_, ok = store.Get("u1", "name", 230)
	assert.False(t, ok)
}

func TestArchive_FloorLookup(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	// Insert out of chronological order.
	for _, ts := range []int64{300, 100, 200} {
		require.NoError(t, store.Set("k", "at", "v", ts))
		require.NoError(t, store.Set("k", "v", string(rune('0'+ts/100)), ts))
		a.Backup(store, ts)
	}

	tests := []struct {
		restoreTime int64
		wantTime    int64
		wantValue   string
	}{
		{100, 100, "1"},
		{150, 100, "1"},
		{200, 200, "2"},
		{299, 200, "2"},
		{300, 300, "3"},
		{10_000, 300, "3"},
	}

	for _, tt := range tests {
		info, err := a.Restore(store, 1000, tt.restoreTime)
		require.NoError(t, err)
		assert.Equal(t, tt.wantTime, info.Time, "restoreTime=%d", tt.restoreTime)

		got, ok := store.Get("k", "v", 1000)
		require.True(t, ok)
		assert.Equal(t, tt.wantValue, got)
	}
}

func TestArchive_BackupOverwritesSameTime(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	require.NoError(t, store.Set("k", "f", "first", 0))
	a.Backup(store, 10)
	require.NoError(t, store.Set("k", "f", "second", 0))
	a.Backup(store, 10)

	assert.Equal(t, 1, a.Len())

	_, err := a.Restore(store, 10, 10)
	require.NoError(t, err)
	got, _ := store.Get("k", "f", 10)
	assert.Equal(t, "second", got)
}

func TestArchive_SnapshotIsolation(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	require.NoError(t, store.Set("k", "f", "orig", 0))
	a.Backup(store, 10)

	// Mutate live state after the backup.
	require.NoError(t, store.Set("k", "f", "mutated", 11))
	require.NoError(t, store.Set("k", "extra", "x", 11))
	require.NoError(t, store.Set("other", "f", "x", 11))

	_, err := a.Restore(store, 20, 10)
	require.NoError(t, err)

	assert.Equal(t, []domain.FieldValue{{Field: "f", Value: "orig"}}, store.ScanAll("k", 20))
	assert.Empty(t, store.ScanAll("other", 20))

	// Mutate the restored state; a second restore must still see the original.
	require.NoError(t, store.Set("k", "f", "again", 21))
	_, err = a.Restore(store, 30, 10)
	require.NoError(t, err)
	got, _ := store.Get("k", "f", 30)
	assert.Equal(t, "orig", got)

	assert.Equal(t, []Info{{Time: 10, Records: 1, Fields: 1}}, a.List())
}

func TestArchive_RepeatedRestoreShiftsExpiry(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	require.NoError(t, store.SetWithTTL("k", "f", "v", 0, 10))
	a.Backup(store, 0)

	_, err := a.Restore(store, 100, 0)
	require.NoError(t, err)
	rem1, _ := store.TTL("k", "f", 100)

	_, err = a.Restore(store, 100, 0)
	require.NoError(t, err)
	rem2, _ := store.TTL("k", "f", 100)
	assert.Equal(t, rem1, rem2, "same arguments are idempotent")

	_, err = a.Restore(store, 200, 0)
	require.NoError(t, err)
	_, ok := store.Get("k", "f", 205)
	assert.True(t, ok, "later current time moves expiry forward")
}

func TestArchive_RestoreToEarlierCurrentTime(t *testing.T) {
	store := memory.New()
	a := NewArchive()

	require.NoError(t, store.SetWithTTL("k", "f", "v", 1000, 5))
	a.Backup(store, 1000)

	_, err := a.Restore(store, 0, 1000)
	require.NoError(t, err)

	rem, ok := store.TTL("k", "f", 0)
	require.True(t, ok)
	assert.Equal(t, int64(5), rem)
	_, ok = store.Get("k", "f", 5)
	assert.False(t, ok)
}

func TestArchive_List(t *testing.T) {
	store := memory.New()
	a := NewArchive()
	assert.Empty(t, a.List())

	require.NoError(t, store.Set("a", "f", "1", 0))
	a.Backup(store, 30)
	require.NoError(t, store.Set("b", "f", "1", 0))
	require.NoError(t, store.Set("b", "g", "1", 0))
	a.Backup(store, 20)

	assert.Equal(t, []Info{
		{Time: 20, Records: 2, Fields: 3},
		{Time: 30, Records: 1, Fields: 1},
	}, a.List())

	_, ok := a.Floor(19)
	assert.False(t, ok)
}
