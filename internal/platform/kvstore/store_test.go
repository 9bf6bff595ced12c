package kvstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Flag  bool   `json:"flag"`
}

const docSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "count": {"type": "integer", "minimum": 0}
  },
  "required": ["name"]
}`

func defaultDoc() doc { return doc{Name: "default", Flag: true} }

func TestFileStoreRoundTripAndKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kvstore.NewFileStore(filepath.Join(t.TempDir(), "storage"))

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, "b_key", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "a_key", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "b_key")
	if err != nil || string(got) != `{"a":1}` {
		t.Fatalf("unexpected get result %q err=%v", got, err)
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a_key" || keys[1] != "b_key" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if err := store.Delete(ctx, "b_key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "b_key"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	t.Parallel()
	store := kvstore.NewFileStore(t.TempDir())
	if err := store.Set(context.Background(), "../escape", []byte(`{}`)); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTypedLoadStates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	store := kvstore.NewFileStore(dir)
	typed, err := kvstore.NewTyped(store, "doc", docSchema, defaultDoc)
	if err != nil {
		t.Fatalf("new typed: %v", err)
	}

	res := typed.Load(ctx)
	if res.State != kvstore.StateMissing || res.Value.Name != "default" {
		t.Fatalf("expected missing with default, got %+v", res)
	}

	if err := typed.Save(ctx, doc{Name: "saved", Count: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	res = typed.Load(ctx)
	if res.State != kvstore.StateOk || res.Value.Name != "saved" || res.Value.Count != 2 {
		t.Fatalf("expected ok saved doc, got %+v", res)
	}

	cases := map[string]string{
		"not json":       `{"name":`,
		"schema failure": `{"name":"x","count":-1}`,
		"missing name":   `{"count":1}`,
	}
	for name, payload := range cases {
		if err := os.WriteFile(filepath.Join(dir, "doc.json"), []byte(payload), 0o644); err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}
		res = typed.Load(ctx)
		if res.State != kvstore.StateCorrupt || res.Err == nil {
			t.Fatalf("%s: expected corrupt, got %+v", name, res)
		}
		if res.Value != defaultDoc() {
			t.Fatalf("%s: expected default fallback, got %+v", name, res.Value)
		}
	}
}

func TestTypedMergesOverDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kvstore.NewFileStore(t.TempDir())
	if err := store.Set(ctx, "doc", []byte(`{"name":"partial"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	typed, err := kvstore.NewTyped(store, "doc", docSchema, defaultDoc)
	if err != nil {
		t.Fatalf("new typed: %v", err)
	}
	res := typed.Load(ctx)
	if res.State != kvstore.StateOk || !res.Value.Flag || res.Value.Name != "partial" {
		t.Fatalf("expected defaults to fill absent fields, got %+v", res)
	}
}

func TestTypedRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kvstore.NewFileStore(t.TempDir())
	typed, err := kvstore.NewTyped(store, "doc", docSchema, defaultDoc)
	if err != nil {
		t.Fatalf("new typed: %v", err)
	}
	typed.WithVersion(2)

	for payload, want := range map[string]kvstore.State{
		`{"name":"old"}`:                     kvstore.StateOk,
		`{"name":"cur","schemaVersion":2}`:   kvstore.StateOk,
		`{"name":"next","schemaVersion":3}`:  kvstore.StateCorrupt,
		`{"name":"far","schemaVersion":100}`: kvstore.StateCorrupt,
	} {
		if err := store.Set(ctx, "doc", []byte(payload)); err != nil {
			t.Fatalf("set: %v", err)
		}
		res := typed.Load(ctx)
		if res.State != want {
			t.Fatalf("%s: expected %s, got %s (%v)", payload, want, res.State, res.Err)
		}
		if want == kvstore.StateCorrupt && res.Value != defaultDoc() {
			t.Fatalf("%s: expected default fallback, got %+v", payload, res.Value)
		}
	}
}

func TestWatcherReportsChangedKeys(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := kvstore.NewFileStore(t.TempDir())
	if err := store.Set(ctx, "before", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	changes := kvstore.NewWatcher(store, 10*time.Millisecond, nil).Watch(ctx)
	time.Sleep(30 * time.Millisecond)
	if err := store.Set(ctx, "urworld_profile", []byte(`{"name":"x"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case keys := <-changes:
			for _, k := range keys {
				if k == "urworld_profile" {
					return
				}
			}
		case <-deadline:
			t.Fatalf("watcher did not report change")
		}
	}
}
