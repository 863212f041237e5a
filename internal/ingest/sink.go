package ingest

import (
	"context"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// StorageSink sends one batch of payloads to the storage service. Partial
// success (created < len(batch)) is normal: the service skips rows it
// already holds. A returned error means the whole batch must be retried.
type StorageSink interface {
	InsertBatch(ctx context.Context, batch []model.IngestPayload) (created, skipped int, err error)
}
