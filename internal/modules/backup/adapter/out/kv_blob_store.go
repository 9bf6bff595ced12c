package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	backupout "urworld/internal/modules/backup/port/out"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
)

type KVBlobStore struct {
	store kvstore.Store
}

func NewKVBlobStore(store kvstore.Store) backupout.BlobStore {
	return KVBlobStore{store: store}
}

// Raw returns the stored document when it is valid JSON.
func (s KVBlobStore) Raw(ctx context.Context, key string) (json.RawMessage, bool, error) {
	payload, err := s.store.Get(ctx, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !json.Valid(payload) {
		return nil, false, fmt.Errorf("%s is not valid JSON", key)
	}
	return json.RawMessage(payload), true, nil
}

func (s KVBlobStore) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
