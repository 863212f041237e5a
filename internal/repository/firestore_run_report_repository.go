package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/hareeshnagaraj/poiseed/internal/collector"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/firestore"
)

const runReportsCollection = "run_reports"

// FirestoreRunReportRepository archives one summary document per collection
// run, keyed by the run ID.
type FirestoreRunReportRepository struct {
	client *firestore.FirestoreClient
}

// NewFirestoreRunReportRepository creates the repository.
func NewFirestoreRunReportRepository(client *firestore.FirestoreClient) *FirestoreRunReportRepository {
	return &FirestoreRunReportRepository{client: client}
}

// SaveRunReport writes the run summary document.
func (r *FirestoreRunReportRepository) SaveRunReport(ctx context.Context, summary *collector.RunSummary) error {
	_, err := r.client.GetClient().
		Collection(runReportsCollection).
		Doc(summary.RunID).
		Set(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to save run report %s: %w", summary.RunID, err)
	}
	log.Printf("💾 run report %s archived to Firestore", summary.RunID)
	return nil
}
