// Package ingest buffers validated POI records and streams them to the
// storage service in bounded batches with single-flight flush semantics.
package ingest

import (
	"context"
	"log"
	"sync"

	"github.com/hareeshnagaraj/poiseed/internal/dedupe"
	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Stats is a snapshot of the ingester's cumulative counters.
type Stats struct {
	UniqueSeen       int `json:"unique_seen"`
	BufferDepth      int `json:"buffer_depth"`
	Ingested         int `json:"ingested"`
	Skipped          int `json:"skipped"`
	BatchesCompleted int `json:"batches_completed"`
}

// StreamingIngester accumulates payloads and flushes them in batches of
// BatchSize. At most one flush is in flight at any instant; a failed flush
// pushes its batch back onto the front of the buffer so nothing is lost.
type StreamingIngester struct {
	sink      StorageSink // nil means no credential configured
	batchSize int
	dryRun    bool

	mu        sync.Mutex
	buffer    []model.IngestPayload
	seen      *dedupe.Set
	stats     Stats
	flushing  bool
	flushDone chan struct{} // closed when the in-flight flush completes
}

// NewStreamingIngester creates an ingester. sink may be nil, in which case
// every batch is reported as skipped. dryRun reports success without
// contacting the storage service at all.
func NewStreamingIngester(sink StorageSink, batchSize int, dryRun bool) *StreamingIngester {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &StreamingIngester{
		sink:      sink,
		batchSize: batchSize,
		dryRun:    dryRun,
		seen:      dedupe.NewSet(),
	}
}

// AddOne buffers a single classified place. Returns false when the place is
// a duplicate the ingester has already accepted, or fails payload validation.
func (s *StreamingIngester) AddOne(place *model.ClassifiedPlace) bool {
	key := dedupe.KeyForClassified(place)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seen.Add(key) {
		s.stats.Skipped++
		return false
	}
	payload := model.PayloadFromPlace(place)
	if err := payload.Validate(); err != nil {
		log.Printf("⚠️ dropping invalid payload %q: %v", place.Name, err)
		s.stats.Skipped++
		return false
	}
	s.buffer = append(s.buffer, payload)
	return true
}

// AddMany buffers a batch of places and returns how many were accepted.
func (s *StreamingIngester) AddMany(places []model.ClassifiedPlace) int {
	added := 0
	for i := range places {
		if s.AddOne(&places[i]) {
			added++
		}
	}
	return added
}

// FlushIfReady flushes one batch when the buffer has reached BatchSize.
// If a flush is already in flight the caller waits for it, then re-checks;
// concurrent callers never start a second overlapping flush.
func (s *StreamingIngester) FlushIfReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		if len(s.buffer) < s.batchSize {
			s.mu.Unlock()
			return nil
		}
		if s.flushing {
			done := s.flushDone
			s.mu.Unlock()
			<-done
			continue // re-check: the finished flush may have drained the buffer
		}
		batch := s.takeBatchLocked(s.batchSize)
		s.mu.Unlock()
		if err := s.runFlush(ctx, batch); err != nil {
			return err
		}
		// Keep going: a large AddMany can leave more than one full batch
		// buffered, and the buffer must sit below batchSize when we return.
	}
}

// FlushAll is the end-of-run barrier: it waits out any in-flight flush and
// then drains the buffer completely, batch by batch.
func (s *StreamingIngester) FlushAll(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.flushing {
			done := s.flushDone
			s.mu.Unlock()
			<-done
			continue
		}
		if len(s.buffer) == 0 {
			s.mu.Unlock()
			return nil
		}
		n := len(s.buffer)
		if n > s.batchSize {
			n = s.batchSize
		}
		batch := s.takeBatchLocked(n)
		s.mu.Unlock()
		if err := s.runFlush(ctx, batch); err != nil {
			// The batch is back on the buffer; a retry now would loop
			// forever against a down service, so surface the error.
			return err
		}
	}
}

// takeBatchLocked removes the oldest n payloads and marks a flush in flight.
// Caller must hold s.mu.
func (s *StreamingIngester) takeBatchLocked(n int) []model.IngestPayload {
	batch := make([]model.IngestPayload, n)
	copy(batch, s.buffer[:n])
	s.buffer = s.buffer[n:]
	s.flushing = true
	s.flushDone = make(chan struct{})
	return batch
}

// runFlush performs one flush attempt and releases the single-flight marker.
// On failure the batch is pushed back onto the front of the buffer so it is
// retried on a later natural trigger.
func (s *StreamingIngester) runFlush(ctx context.Context, batch []model.IngestPayload) error {
	created, skipped, err := s.flush(ctx, batch)

	s.mu.Lock()
	if err != nil {
		s.buffer = append(batch, s.buffer...)
	} else {
		s.stats.Ingested += created
		s.stats.Skipped += skipped
		s.stats.BatchesCompleted++
	}
	s.flushing = false
	close(s.flushDone)
	s.mu.Unlock()

	if err != nil {
		log.Printf("⚠️ flush of %d payloads failed, requeued: %v", len(batch), err)
		return err
	}
	log.Printf("💾 flushed batch: %d created, %d skipped", created, skipped)
	return nil
}

func (s *StreamingIngester) flush(ctx context.Context, batch []model.IngestPayload) (int, int, error) {
	if s.dryRun {
		return len(batch), 0, nil
	}
	if s.sink == nil {
		return 0, len(batch), nil
	}
	return s.sink.InsertBatch(ctx, batch)
}

// GetStats returns a snapshot of the counters.
func (s *StreamingIngester) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.UniqueSeen = s.seen.Size()
	stats.BufferDepth = len(s.buffer)
	return stats
}
