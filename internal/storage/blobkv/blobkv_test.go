package blobkv

import (
	"context"
	"errors"
	"testing"

	"github.com/fdg312/fitplan/internal/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	if f.failPut {
		return 0, errors.New("bucket is read-only")
	}
	f.objects[key] = data
	f.types[key] = contentType
	return int64(len(data)), nil
}

func (f *fakeStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	return "https://example.test/" + key, nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func TestBlobKVPrefixesKeys(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	kv := New(store, "kv/")

	require.NoError(t, kv.SetItem(ctx, "mealPlan:2024-03-01", `{"id":"p1"}`))
	assert.Contains(t, store.objects, "kv/mealPlan:2024-03-01")
	assert.Equal(t, "application/json", store.types["kv/mealPlan:2024-03-01"])

	v, found, err := kv.GetItem(ctx, "mealPlan:2024-03-01")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"p1"}`, v)
}

func TestBlobKVMissingKeyIsNotAnError(t *testing.T) {
	kv := New(newFakeStore(), "kv/")

	_, found, err := kv.GetItem(context.Background(), "mealLogs")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBlobKVWrapsWriteErrors(t *testing.T) {
	store := newFakeStore()
	store.failPut = true
	kv := New(store, "")

	err := kv.SetItem(context.Background(), "mealLogs", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestBlobKVRemove(t *testing.T) {
	ctx := context.Background()
	kv := New(newFakeStore(), "kv/")
	require.NoError(t, kv.SetItem(ctx, "selectedDate", `"2024-03-01"`))
	require.NoError(t, kv.RemoveItem(ctx, "selectedDate"))

	_, found, err := kv.GetItem(ctx, "selectedDate")
	require.NoError(t, err)
	assert.False(t, found)
}
