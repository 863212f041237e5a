// Package collector drives the sampling loop: it pulls query coordinates
// from a sampler, queries the places gateway, classifies and deduplicates
// the results, and streams survivors to the ingester until the target count
// is reached or the budget is exhausted.
package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hareeshnagaraj/poiseed/internal/classify"
	"github.com/hareeshnagaraj/poiseed/internal/dedupe"
	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/places"
	"github.com/hareeshnagaraj/poiseed/internal/ingest"
	"github.com/hareeshnagaraj/poiseed/internal/sampling"
)

// RunSummary is the end-of-run record: what was sampled, what survived each
// stage, and what the ingester did with it.
type RunSummary struct {
	RunID         string               `json:"run_id" firestore:"run_id"`
	Mode          string               `json:"mode" firestore:"mode"`
	Area          string               `json:"area,omitempty" firestore:"area,omitempty"`
	Target        int                  `json:"target" firestore:"target"`
	StartedAt     time.Time            `json:"started_at" firestore:"started_at"`
	FinishedAt    time.Time            `json:"finished_at" firestore:"finished_at"`
	PointsQueried int                  `json:"points_queried" firestore:"points_queried"`
	PointFailures int                  `json:"point_failures" firestore:"point_failures"`
	UniqueCount   int                  `json:"unique_count" firestore:"unique_count"`
	Duplicates    int                  `json:"duplicates" firestore:"duplicates"`
	Stages        classify.StageCounts `json:"stages" firestore:"stages"`
	Ingester      ingest.Stats         `json:"ingester" firestore:"ingester"`
}

// Options configures one collection run.
type Options struct {
	Area         string // human-readable label for the run report
	Target       int    // stop once this many unique POIs are collected (0 = no target)
	RadiusMeters int    // gateway search radius per query point
	QueryDelay   time.Duration
}

// Collector wires the sampler, gateway, pipeline, dedup set, and ingester.
type Collector struct {
	provider places.Provider
	pipeline *classify.Pipeline
	ingester *ingest.StreamingIngester

	mu      sync.Mutex
	seen    *dedupe.Set
	summary RunSummary
}

// New creates a collector.
func New(provider places.Provider, pipeline *classify.Pipeline, ingester *ingest.StreamingIngester) *Collector {
	return &Collector{
		provider: provider,
		pipeline: pipeline,
		ingester: ingester,
		seen:     dedupe.NewSet(),
	}
}

// Snapshot returns a point-in-time copy of the run summary, for the status
// endpoints.
func (c *Collector) Snapshot() RunSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.summary
	s.UniqueCount = c.seen.Size()
	s.Duplicates = c.seen.Dropped()
	s.Ingester = c.ingester.GetStats()
	return s
}

// CollectGrid runs grid mode: grid points in priority order, stopping early
// once the target unique count is reached.
func (c *Collector) CollectGrid(ctx context.Context, sampler *sampling.GridSampler, opts Options) (*RunSummary, error) {
	c.startRun("grid", opts)

	points := sampler.Points()
	log.Printf("🚀 grid run %s: %d query points over %s", c.summary.RunID, len(points), opts.Area)

	for i, point := range points {
		if opts.Target > 0 && c.seen.Size() >= opts.Target {
			log.Printf("🎯 target of %d unique POIs reached, skipping %d remaining grid points",
				opts.Target, len(points)-i)
			break
		}
		c.processPoint(ctx, point.Location, opts)
		if i < len(points)-1 {
			time.Sleep(opts.QueryDelay)
		}
	}

	return c.finishRun(ctx)
}

// CollectSpiral runs spiral-target mode: walk outward from start until the
// target is reached or the step budget is exhausted.
func (c *Collector) CollectSpiral(ctx context.Context, start model.Coordinate, stepMeters float64, maxSteps int, opts Options) (*RunSummary, error) {
	c.startRun("spiral", opts)

	walker := sampling.NewSpiralWalker(start, stepMeters)
	log.Printf("🚀 spiral run %s: up to %d steps from %.5f,%.5f",
		c.summary.RunID, maxSteps, start.Latitude, start.Longitude)

	for step := 0; step < maxSteps; step++ {
		if opts.Target > 0 && c.seen.Size() >= opts.Target {
			log.Printf("🎯 target of %d unique POIs reached after %d steps", opts.Target, step)
			break
		}
		coord := walker.Next()
		c.processPoint(ctx, coord, opts)
		time.Sleep(opts.QueryDelay)
	}

	return c.finishRun(ctx)
}

func (c *Collector) startRun(mode string, opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = RunSummary{
		RunID:     uuid.NewString(),
		Mode:      mode,
		Area:      opts.Area,
		Target:    opts.Target,
		StartedAt: time.Now().UTC(),
	}
}

// processPoint handles one query point end to end. A failure here is
// non-fatal: it is logged, counted, and the run continues.
func (c *Collector) processPoint(ctx context.Context, coord model.Coordinate, opts Options) {
	c.mu.Lock()
	c.summary.PointsQueried++
	c.mu.Unlock()

	raws, err := c.provider.NearbySearch(ctx, coord, opts.RadiusMeters)
	if err != nil {
		log.Printf("⚠️ query point %.5f,%.5f failed, continuing: %v", coord.Latitude, coord.Longitude, err)
		c.mu.Lock()
		c.summary.PointFailures++
		c.mu.Unlock()
		return
	}
	if len(raws) == 0 {
		return
	}

	classified, counts := c.pipeline.Process(ctx, raws)

	c.mu.Lock()
	c.summary.Stages = addStageCounts(c.summary.Stages, counts)
	c.mu.Unlock()

	// Run-level dedup across overlapping query circles; first occurrence wins.
	var unique []model.ClassifiedPlace
	for _, place := range classified {
		if c.seen.Add(dedupe.KeyForClassified(&place)) {
			unique = append(unique, place)
		}
	}
	if len(unique) == 0 {
		return
	}

	added := c.ingester.AddMany(unique)
	log.Printf("✅ point %.5f,%.5f: %d raw → %d classified → %d unique → %d buffered",
		coord.Latitude, coord.Longitude, len(raws), len(classified), len(unique), added)

	if err := c.ingester.FlushIfReady(ctx); err != nil {
		log.Printf("⚠️ flush failed, batch requeued: %v", err)
	}
}

// finishRun drains the ingester and closes out the summary.
func (c *Collector) finishRun(ctx context.Context) (*RunSummary, error) {
	if err := c.ingester.FlushAll(ctx); err != nil {
		return nil, fmt.Errorf("final flush failed: %w", err)
	}

	c.mu.Lock()
	c.summary.FinishedAt = time.Now().UTC()
	c.summary.UniqueCount = c.seen.Size()
	c.summary.Duplicates = c.seen.Dropped()
	c.summary.Ingester = c.ingester.GetStats()
	summary := c.summary
	c.mu.Unlock()

	log.Printf("🎉 run %s complete: %d points queried (%d failed), %d unique POIs, %d batches",
		summary.RunID, summary.PointsQueried, summary.PointFailures,
		summary.UniqueCount, summary.Ingester.BatchesCompleted)
	return &summary, nil
}

func addStageCounts(total, delta classify.StageCounts) classify.StageCounts {
	total.PreFilter.In += delta.PreFilter.In
	total.PreFilter.Out += delta.PreFilter.Out
	total.RuleAssign.In += delta.RuleAssign.In
	total.RuleAssign.Out += delta.RuleAssign.Out
	total.Validate.In += delta.Validate.In
	total.Validate.Out += delta.Validate.Out
	total.CategoryFilter.In += delta.CategoryFilter.In
	total.CategoryFilter.Out += delta.CategoryFilter.Out
	total.AIAssist.In += delta.AIAssist.In
	total.AIAssist.Out += delta.AIAssist.Out
	return total
}
