package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/database"
)

// SupabaseSink inserts batches into the pois table over the Supabase REST
// API. Rows that collide on name are skipped by the service, which is how
// partial success shows up in the created/skipped split.
type SupabaseSink struct {
	client *database.SupabaseClient
	table  string
}

// NewSupabaseSink creates a sink writing to the pois table.
func NewSupabaseSink(client *database.SupabaseClient) *SupabaseSink {
	return &SupabaseSink{client: client, table: "pois"}
}

// InsertBatch sends one batch and derives the created count from the rows
// the service echoes back.
func (s *SupabaseSink) InsertBatch(ctx context.Context, batch []model.IngestPayload) (int, int, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal ingest batch: %w", err)
	}

	resp, _, err := s.client.GetClient().From(s.table).
		Insert(string(data), true, "name", "representation", "").
		Execute()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert ingest batch: %w", err)
	}

	var inserted []model.IngestPayload
	if err := json.Unmarshal([]byte(resp), &inserted); err != nil {
		return 0, 0, fmt.Errorf("failed to unmarshal insert response: %w", err)
	}

	created := len(inserted)
	return created, len(batch) - created, nil
}
