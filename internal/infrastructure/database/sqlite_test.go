package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_EmptyReadAll(t *testing.T) {
	s := openTestStore(t)

	col, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, col)
}

func TestSQLiteStore_TransactPersists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ev := sampleEvent()

	next, err := s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		out[ev.ID] = ev
		return out, nil
	})
	require.NoError(t, err)
	assert.Len(t, next, 1)

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, got, ev.ID)
	assert.Equal(t, ev, got[ev.ID])
}

func TestSQLiteStore_TransactDeletes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ev := sampleEvent()

	_, err := s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		out[ev.ID] = ev
		return out, nil
	})
	require.NoError(t, err)

	_, err = s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		delete(out, ev.ID)
		return out, nil
	})
	require.NoError(t, err)

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_MutatorErrorAborts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ev := sampleEvent()

	_, err := s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		out[ev.ID] = ev
		return out, nil
	})
	require.NoError(t, err)

	rejection := domain.Reject(domain.ReasonAtCapacity)
	_, err = s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		delete(out, ev.ID)
		// Returning an error must discard the mutation above.
		return out, rejection
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, rejection) || domain.IsRejection(err, domain.ReasonAtCapacity),
		"mutator error propagated unchanged")
	assert.False(t, domain.IsStoreError(err))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, ev.ID, "aborted transaction left the collection unchanged")
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.db")
	ctx := context.Background()
	ev := sampleEvent()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		out := col.Clone()
		out[ev.ID] = ev
		return out, nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.ReadAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, ev.ID)
}
