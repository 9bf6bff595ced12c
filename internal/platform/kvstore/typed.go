package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "urworld/internal/platform/errors"
)

// State tags the outcome of a typed load.
type State int

const (
	StateOk State = iota
	StateMissing
	StateCorrupt
)

func (s State) String() string {
	switch s {
	case StateOk:
		return "ok"
	case StateMissing:
		return "missing"
	case StateCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// Result is a load outcome. Value always holds something usable: the decoded
// document when State is StateOk, the default otherwise.
type Result[T any] struct {
	Value T
	State State
	Err   error
}

// Typed binds a key to a document type, a JSON schema and a default.
type Typed[T any] struct {
	store    Store
	key      string
	schema   *gojsonschema.Schema
	defaults func() T
	version  int
}

// NewTyped compiles schemaJSON up front; an empty schema skips validation.
func NewTyped[T any](store Store, key, schemaJSON string, defaults func() T) (*Typed[T], error) {
	t := &Typed[T]{store: store, key: key, defaults: defaults}
	if strings.TrimSpace(schemaJSON) != "" {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", key, err)
		}
		t.schema = schema
	}
	return t, nil
}

// WithVersion makes Load reject documents whose schemaVersion is newer than
// version. Documents without the field count as version 0.
func (t *Typed[T]) WithVersion(version int) *Typed[T] {
	t.version = version
	return t
}

func (t *Typed[T]) Key() string { return t.key }

func (t *Typed[T]) Load(ctx context.Context) Result[T] {
	raw, err := t.store.Get(ctx, t.key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Result[T]{Value: t.defaults(), State: StateMissing}
		}
		return Result[T]{Value: t.defaults(), State: StateCorrupt, Err: err}
	}
	if err := t.validate(raw); err != nil {
		return Result[T]{Value: t.defaults(), State: StateCorrupt, Err: err}
	}
	if err := t.checkVersion(raw); err != nil {
		return Result[T]{Value: t.defaults(), State: StateCorrupt, Err: err}
	}
	value := t.defaults()
	if err := json.Unmarshal(raw, &value); err != nil {
		return Result[T]{Value: t.defaults(), State: StateCorrupt, Err: fmt.Errorf("decode %s: %w", t.key, err)}
	}
	return Result[T]{Value: value, State: StateOk}
}

func (t *Typed[T]) Save(ctx context.Context, value T) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", t.key, err)
	}
	return t.store.Set(ctx, t.key, payload)
}

func (t *Typed[T]) Clear(ctx context.Context) error {
	return t.store.Delete(ctx, t.key)
}

func (t *Typed[T]) checkVersion(raw []byte) error {
	if t.version == 0 {
		return nil
	}
	var header struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return fmt.Errorf("decode %s: %w", t.key, err)
	}
	if header.SchemaVersion > t.version {
		return fmt.Errorf("%s has schemaVersion %d, newest known is %d", t.key, header.SchemaVersion, t.version)
	}
	return nil
}

func (t *Typed[T]) validate(raw []byte) error {
	if t.schema == nil {
		return nil
	}
	result, err := t.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", t.key, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s does not match schema: %s", t.key, strings.Join(msgs, "; "))
}
