package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorageKV(t *testing.T) {
	ctx := context.Background()
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.GetItem(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetItem(ctx, "userProfile", `{"age":30}`))
	require.NoError(t, s.SetItem(ctx, "userProfile", `{"age":31}`))

	v, found, err := s.GetItem(ctx, "userProfile")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"age":31}`, v)

	require.NoError(t, s.RemoveItem(ctx, "userProfile"))
	require.NoError(t, s.RemoveItem(ctx, "userProfile"))
	_, found, err = s.GetItem(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStoragePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fitplan.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "selectedDate", `"2024-02-29"`))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.GetItem(ctx, "selectedDate")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"2024-02-29"`, v)
}
