package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/hareeshnagaraj/poiseed/internal/classify"
	"github.com/hareeshnagaraj/poiseed/internal/collector"
	"github.com/hareeshnagaraj/poiseed/internal/config"
	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
	"github.com/hareeshnagaraj/poiseed/internal/geocache"
	"github.com/hareeshnagaraj/poiseed/internal/handler"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/ai"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/database"
	fsinfra "github.com/hareeshnagaraj/poiseed/internal/infrastructure/firestore"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/geocode"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/places"
	"github.com/hareeshnagaraj/poiseed/internal/ingest"
	"github.com/hareeshnagaraj/poiseed/internal/repository"
	"github.com/hareeshnagaraj/poiseed/internal/sampling"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ configuration error: %v", err)
	}

	ctx := context.Background()

	// Classification pipeline, with the AI stage only when a key is set.
	var classifier classify.Classifier
	if cfg.GeminiAPIKey != "" {
		classifier = ai.NewGeminiClient(cfg.GeminiAPIKey)
		log.Printf("🤖 AI-assisted classification enabled")
	}
	pipeline := classify.NewPipeline(classifier, cfg.Categories)

	// Storage sink. Dry-run never contacts storage; a missing credential
	// leaves the sink nil and every batch is reported as skipped.
	sink, cleanup, err := buildSink(cfg)
	if err != nil {
		log.Fatalf("❌ storage initialization failed: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	ingester := ingest.NewStreamingIngester(sink, cfg.BatchSize, cfg.DryRun)
	provider := places.NewGooglePlacesProvider(cfg.GoogleMapsAPIKey)
	coll := collector.New(provider, pipeline, ingester)

	// Optional status server alongside the run.
	if cfg.StatusPort != "" {
		statusHandler := handler.NewStatusHandler(coll)
		go func() {
			if err := handler.Router(statusHandler).Run(":" + cfg.StatusPort); err != nil {
				log.Printf("⚠️ status server stopped: %v", err)
			}
		}()
	}

	opts := collector.Options{
		Area:         cfg.Area,
		Target:       cfg.Target,
		RadiusMeters: cfg.RadiusMeters,
		QueryDelay:   cfg.QueryDelay,
	}

	var summary *collector.RunSummary
	switch cfg.Mode {
	case "grid":
		summary, err = runGrid(ctx, cfg, coll, opts)
	case "spiral":
		start := model.Coordinate{Latitude: cfg.StartLat, Longitude: cfg.StartLng}
		summary, err = coll.CollectSpiral(ctx, start, cfg.StepMeters, cfg.MaxSteps, opts)
	}
	if err != nil {
		log.Fatalf("❌ collection run failed: %v", err)
	}

	archiveRunReport(ctx, cfg, summary)
}

// runGrid geocodes the configured area into a bounding box and collects over
// it. A geocode response without bounds cannot seed the grid and aborts the
// run before any querying.
func runGrid(ctx context.Context, cfg *config.Config, coll *collector.Collector, opts collector.Options) (*collector.RunSummary, error) {
	var geocoder geocode.Geocoder = geocode.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
	if cfg.GeocodeCachePath != "" {
		cache, err := geocache.Open(cfg.GeocodeCachePath, geocoder)
		if err != nil {
			return nil, fmt.Errorf("failed to open geocode cache: %w", err)
		}
		defer cache.Close()
		geocoder = cache
	}

	result, err := resolveGridArea(ctx, geocoder, cfg.Area)
	if err != nil {
		return nil, err
	}
	log.Printf("📍 geocoded %q to %s", cfg.Area, result.FormattedName)

	sampler := sampling.NewGridSampler(*result.Bounds, cfg.CenterDensity, cfg.EdgeDensity, cfg.MaxPoints)
	return coll.CollectGrid(ctx, sampler, opts)
}

// resolveGridArea geocodes the area and requires a bounding box in the
// answer; without one there is nothing to seed the grid from.
func resolveGridArea(ctx context.Context, geocoder geocode.Geocoder, area string) (*model.GeocodeResult, error) {
	result, err := geocoder.Geocode(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q failed: %w", area, err)
	}
	if result.Bounds == nil {
		return nil, fmt.Errorf("geocoder returned no bounding box for %q; grid mode requires one", area)
	}
	return result, nil
}

// buildSink picks the storage backend. In dry-run mode no client is created.
func buildSink(cfg *config.Config) (ingest.StorageSink, func(), error) {
	if cfg.DryRun {
		log.Printf("🧪 dry run: storage service will not be contacted")
		return nil, nil, nil
	}

	switch cfg.StorageBackend {
	case "postgres":
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			return nil, nil, err
		}
		if err := client.HealthCheck(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("postgres health check failed: %w", err)
		}
		return ingest.NewPostgresSink(client), func() { client.Close() }, nil
	default:
		client, err := database.NewSupabaseClient()
		if err != nil {
			// No credential configured: run without a sink, batches are
			// reported as skipped rather than failing the run.
			log.Printf("⚠️ storage credentials missing, batches will be skipped: %v", err)
			return nil, nil, nil
		}
		if err := client.HealthCheck(); err != nil {
			return nil, nil, fmt.Errorf("supabase health check failed: %w", err)
		}
		return ingest.NewSupabaseSink(client), nil, nil
	}
}

// archiveRunReport saves the summary to Firestore when a project is
// configured. Archive failure does not fail the finished run.
func archiveRunReport(ctx context.Context, cfg *config.Config, summary *collector.RunSummary) {
	if cfg.FirestoreProjectID == "" || summary == nil {
		return
	}
	client, err := fsinfra.NewFirestoreClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Printf("⚠️ run report not archived: %v", err)
		return
	}
	defer client.Close()

	reportRepo := repository.NewFirestoreRunReportRepository(client)
	if err := reportRepo.SaveRunReport(ctx, summary); err != nil {
		log.Printf("⚠️ run report not archived: %v", err)
	}
}
