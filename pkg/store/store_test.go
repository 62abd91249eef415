package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyritelang/pyrite/pkg/store"
	"github.com/pyritelang/pyrite/pkg/testutil"
)

func openTest(t *testing.T) *store.Store {
	t.Helper()
	testutil.InTempDir(t)
	s, err := store.Open("test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDel(t *testing.T) {
	s := openTest(t)

	_, err := s.Get("k")
	assert.ErrorIs(t, err, store.ErrNoKey)

	require.NoError(t, s.Set("k", "v"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Set("k", "v2"))
	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Del("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, store.ErrNoKey)

	// Deleting again is fine.
	require.NoError(t, s.Del("k"))
}

func TestHasKeys(t *testing.T) {
	s := openTest(t)

	has, err := s.Has("a")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "1"))

	has, err = s.Has("a")
	require.NoError(t, err)
	assert.True(t, has)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestPersistsAcrossOpens(t *testing.T) {
	testutil.InTempDir(t)
	s, err := store.Open("test.db")
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = store.Open("test.db")
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestOpenShared_ReturnsSameHandle(t *testing.T) {
	dir := testutil.TempDir(t)
	path := dir + "/shared.db"
	s1, err := store.OpenShared(path)
	require.NoError(t, err)
	s2, err := store.OpenShared(path)
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}
