// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) (*FileStorage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestNewFileStorageIsLazy(t *testing.T) {
	s, dir := testStorage(t)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "constructing the handle must not touch the disk")
	assert.Equal(t, filepath.Join(dir, dbFile), s.Path())
	assert.NoError(t, s.Close())
}

func TestNewFileStorageRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewFileStorage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestGetPut(t *testing.T) {
	s, dir := testStorage(t)
	ctx := context.Background()
	key := Key("Minerva Mills", 0, 1)

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, "Minerva Mills", `{"docs":[]}`))
	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"docs":[]}`, got)

	// Overwrite replaces the payload.
	require.NoError(t, s.Put(ctx, key, "Minerva Mills", `{"docs":[{"tid":1,"title":"x"}]}`))
	got, _, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"docs":[{"tid":1,"title":"x"}]}`, got)

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestKeyDistinguishesPages(t *testing.T) {
	assert.NotEqual(t, Key("q", 0, 1), Key("q", 1, 1))
	assert.NotEqual(t, Key("q", 0, 1), Key("q", 0, 2))
	assert.Equal(t, Key("q", 0, 1), Key("q", 0, 1))
}

func TestListAndPurge(t *testing.T) {
	s, _ := testStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Key("a", 0, 1), "a", "{}"))
	require.NoError(t, s.Put(ctx, Key("b", 0, 1), "b", "{}"))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	queries := []string{entries[0].Query, entries[1].Query}
	assert.ElementsMatch(t, []string{"a", "b"}, queries)
	assert.False(t, entries[0].FetchedAt.IsZero())

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCloseBeforeFirstUse(t *testing.T) {
	s, dir := testStorage(t)
	require.NoError(t, s.Close())

	_, _, err := s.Get(context.Background(), Key("a", 0, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "a closed handle must not create the database")
}

func TestCloseConcurrentWithFirstOpen(t *testing.T) {
	s, _ := testStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Get(ctx, Key("a", 0, 1))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Close()
	}()
	wg.Wait()

	// Whichever ran first, a later operation fails instead of reopening.
	require.NoError(t, s.Close())
	_, _, err := s.Get(ctx, Key("a", 0, 1))
	assert.Error(t, err)
}
