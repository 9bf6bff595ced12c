package out

import (
	"context"

	"urworld/internal/modules/settings/domain"
	settingsout "urworld/internal/modules/settings/port/out"
	"urworld/internal/platform/kvstore"
)

const SettingsKey = "urworld_settings"

// The blob stays a flat map of booleans so older exports remain readable.
const settingsSchema = `{
  "type": "object",
  "additionalProperties": {"type": "boolean"}
}`

type KVSettingsStore struct {
	doc *kvstore.Typed[map[string]bool]
}

func NewKVSettingsStore(store kvstore.Store) (settingsout.SettingsStore, error) {
	doc, err := kvstore.NewTyped(store, SettingsKey, settingsSchema, func() map[string]bool {
		return map[string]bool(domain.Defaults())
	})
	if err != nil {
		return nil, err
	}
	return &KVSettingsStore{doc: doc}, nil
}

func (s *KVSettingsStore) Load(ctx context.Context) kvstore.Result[domain.Settings] {
	res := s.doc.Load(ctx)
	return kvstore.Result[domain.Settings]{Value: domain.Settings(res.Value), State: res.State, Err: res.Err}
}

func (s *KVSettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	return s.doc.Save(ctx, map[string]bool(settings))
}

func (s *KVSettingsStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}
