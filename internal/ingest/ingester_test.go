package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// fakeSink records every batch it receives and can be scripted to fail or
// stall.
type fakeSink struct {
	mu      sync.Mutex
	batches [][]model.IngestPayload
	err     error
	delay   time.Duration
}

func (f *fakeSink) InsertBatch(ctx context.Context, batch []model.IngestPayload) (int, int, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	copied := make([]model.IngestPayload, len(batch))
	copy(copied, batch)
	f.batches = append(f.batches, copied)
	return len(batch), 0, nil
}

func (f *fakeSink) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func (f *fakeSink) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func classifiedPlace(externalID, name string, lat, lng float64) model.ClassifiedPlace {
	return model.ClassifiedPlace{
		ExternalID:  externalID,
		Name:        name,
		Description: name,
		Location:    model.Coordinate{Latitude: lat, Longitude: lng},
		Category:    model.CategoryMisc,
		Confidence:  0.5,
		Method:      model.MethodRule,
	}
}

func TestAddOneRejectsDuplicate(t *testing.T) {
	ing := NewStreamingIngester(&fakeSink{}, 10, false)
	place := classifiedPlace("ChIJ123", "Central Park", 40.78, -73.97)

	assert.True(t, ing.AddOne(&place))
	assert.False(t, ing.AddOne(&place))

	stats := ing.GetStats()
	assert.Equal(t, 1, stats.UniqueSeen)
	assert.Equal(t, 1, stats.BufferDepth)
	assert.Equal(t, 1, stats.Skipped)
}

func TestAddOneRejectsInvalidPayload(t *testing.T) {
	ing := NewStreamingIngester(&fakeSink{}, 10, false)
	place := classifiedPlace("ChIJ456", "", 40.78, -73.97) // empty name

	assert.False(t, ing.AddOne(&place))
	assert.Equal(t, 0, ing.GetStats().BufferDepth)
}

func TestFlushIfReadyNoOpBelowBatchSize(t *testing.T) {
	sink := &fakeSink{}
	ing := NewStreamingIngester(sink, 5, false)

	for i := 0; i < 4; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, ing.FlushIfReady(context.Background()))
	}

	assert.Equal(t, 0, sink.batchCount())
	assert.Equal(t, 4, ing.GetStats().BufferDepth)
}

func TestFlushIfReadySingleFlight(t *testing.T) {
	sink := &fakeSink{delay: 100 * time.Millisecond}
	ing := NewStreamingIngester(sink, 3, false)

	for i := 0; i < 3; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}

	// Concurrent triggers while the slow flush is in flight must not start
	// a second one.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ing.FlushIfReady(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, sink.batchCount())
	stats := ing.GetStats()
	assert.Equal(t, 3, stats.Ingested)
	assert.Equal(t, 1, stats.BatchesCompleted)
	assert.Equal(t, 0, stats.BufferDepth)
}

func TestFlushFailureRequeuesBatchInOrder(t *testing.T) {
	sink := &fakeSink{}
	sink.setErr(errors.New("storage unavailable"))
	ing := NewStreamingIngester(sink, 3, false)

	for i := 0; i < 4; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}

	require.Error(t, ing.FlushIfReady(context.Background()))
	assert.Equal(t, 4, ing.GetStats().BufferDepth, "failed batch must return to the buffer")

	// Service recovers; the retried batch keeps insertion order.
	sink.setErr(nil)
	require.NoError(t, ing.FlushIfReady(context.Background()))
	require.Equal(t, 1, sink.batchCount())
	assert.Equal(t, "Place 0", sink.batches[0][0].Name)
	assert.Equal(t, "Place 2", sink.batches[0][2].Name)
}

func TestFlushAllDrainsBuffer(t *testing.T) {
	sink := &fakeSink{}
	ing := NewStreamingIngester(sink, 3, false)

	for i := 0; i < 7; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}

	require.NoError(t, ing.FlushAll(context.Background()))

	assert.Equal(t, 3, sink.batchCount())
	stats := ing.GetStats()
	assert.Equal(t, 0, stats.BufferDepth)
	assert.Equal(t, 7, stats.Ingested)
	assert.Equal(t, 3, stats.BatchesCompleted)
}

func TestDryRunNeverContactsSink(t *testing.T) {
	sink := &fakeSink{}
	ing := NewStreamingIngester(sink, 2, true)

	for i := 0; i < 4; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}
	require.NoError(t, ing.FlushAll(context.Background()))

	assert.Equal(t, 0, sink.batchCount())
	assert.Equal(t, 4, ing.GetStats().Ingested)
}

func TestNilSinkReportsBatchSkipped(t *testing.T) {
	ing := NewStreamingIngester(nil, 2, false)

	for i := 0; i < 2; i++ {
		place := classifiedPlace(fmt.Sprintf("id-%d", i), fmt.Sprintf("Place %d", i), 40.0, -73.0)
		ing.AddOne(&place)
	}
	require.NoError(t, ing.FlushAll(context.Background()))

	stats := ing.GetStats()
	assert.Equal(t, 0, stats.Ingested)
	assert.Equal(t, 2, stats.Skipped)
}

// TestEndToEndDeduplicationAndBatching feeds 150 places (50 sharing 10
// distinct external IDs, 100 fully unique) through the ingester with
// batchSize=100: exactly two flushes (100 then 10) and 110 unique records.
func TestEndToEndDeduplicationAndBatching(t *testing.T) {
	sink := &fakeSink{}
	ing := NewStreamingIngester(sink, 100, false)

	var places []model.ClassifiedPlace
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("shared-%d", i%10)
		places = append(places, classifiedPlace(id, fmt.Sprintf("Shared %d", i%10), 40.0, -73.0))
	}
	for i := 0; i < 100; i++ {
		places = append(places, classifiedPlace("", fmt.Sprintf("Unique %d", i), 40.0+float64(i)*0.001, -73.0))
	}

	added := ing.AddMany(places)
	assert.Equal(t, 110, added)

	require.NoError(t, ing.FlushIfReady(context.Background()))
	require.NoError(t, ing.FlushAll(context.Background()))

	require.Equal(t, 2, sink.batchCount())
	assert.Len(t, sink.batches[0], 100)
	assert.Len(t, sink.batches[1], 10)

	stats := ing.GetStats()
	assert.Equal(t, 110, stats.UniqueSeen)
	assert.Equal(t, 110, stats.Ingested)
	assert.Equal(t, 2, stats.BatchesCompleted)
}
