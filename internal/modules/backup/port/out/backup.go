package out

import (
	"context"
	"encoding/json"

	"urworld/internal/modules/backup/dto"
)

// BlobStore reads and removes stored documents without decoding them.
type BlobStore interface {
	Raw(ctx context.Context, key string) (json.RawMessage, bool, error)
	Delete(ctx context.Context, key string) error
}

type Writer interface {
	Write(ctx context.Context, path string, snapshot dto.Snapshot) error
}
