package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorageKV(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	s, err := New(ctx, Options{URL: url, Prefix: "fitplan-test:" + uuid.NewString() + ":"})
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.GetItem(ctx, "mealLogs")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetItem(ctx, "mealLogs", "[]"))
	v, found, err := s.GetItem(ctx, "mealLogs")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.RemoveItem(ctx, "mealLogs"))
	_, found, err = s.GetItem(ctx, "mealLogs")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), Options{URL: "://nope"})
	assert.Error(t, err)
}
