package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/database"
)

// PostgresSink inserts batches directly into the pois table over a database
// connection, bypassing the REST layer. ON CONFLICT DO NOTHING gives the
// same created/skipped split as the REST path.
type PostgresSink struct {
	client *database.PostgreSQLClient
}

// NewPostgresSink creates a direct-SQL sink.
func NewPostgresSink(client *database.PostgreSQLClient) *PostgresSink {
	return &PostgresSink{client: client}
}

// InsertBatch writes one batch in a single multi-row INSERT.
func (s *PostgresSink) InsertBatch(ctx context.Context, batch []model.IngestPayload) (int, int, error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	placeholders := make([]string, len(batch))
	args := make([]interface{}, 0, len(batch)*6)
	for i, p := range batch {
		base := i * 6
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, p.Name, p.Description, p.Latitude, p.Longitude, p.Category, p.Active)
	}

	query := `
	INSERT INTO pois (name, description, latitude, longitude, category, active)
	VALUES ` + strings.Join(placeholders, ", ") + `
	ON CONFLICT (name) DO NOTHING`

	result, err := s.client.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert ingest batch: %w", err)
	}

	created64, err := result.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	created := int(created64)
	return created, len(batch) - created, nil
}
