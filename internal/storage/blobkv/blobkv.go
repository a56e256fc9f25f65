// Package blobkv stores each key as one object in a blob store.
package blobkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/fitplan/internal/blob"
)

const contentType = "application/json"

type BlobKV struct {
	store  blob.Store
	prefix string
}

func New(store blob.Store, prefix string) *BlobKV {
	return &BlobKV{store: store, prefix: prefix}
}

func (s *BlobKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	data, err := s.store.GetObject(ctx, s.prefix+key)
	if errors.Is(err, blob.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return string(data), true, nil
}

func (s *BlobKV) SetItem(ctx context.Context, key string, value string) error {
	if _, err := s.store.PutObject(ctx, s.prefix+key, []byte(value), contentType); err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

func (s *BlobKV) RemoveItem(ctx context.Context, key string) error {
	if err := s.store.DeleteObject(ctx, s.prefix+key); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (s *BlobKV) Close() error {
	return nil
}
