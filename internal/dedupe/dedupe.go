// Package dedupe computes canonical POI identity keys and tracks which keys
// have been seen. The key is exact when the gateway supplied a stable place
// ID and approximate (name + coordinate rounded to 5 decimals) otherwise.
// Two distinct venues sharing a name and rounded coordinate collapse into one
// record; that false merge is an accepted limitation of the scheme.
package dedupe

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Key returns the canonical identity string for a place.
func Key(externalID, name string, location model.Coordinate) string {
	if externalID != "" {
		return "id:" + externalID
	}
	return fmt.Sprintf("name:%s|%.5f,%.5f",
		strings.ToLower(name), location.Latitude, location.Longitude)
}

// KeyForRaw computes the key for a gateway result.
func KeyForRaw(p *model.RawPlace) string {
	return Key(p.ExternalID, p.Name, p.Location)
}

// KeyForClassified computes the key for a pipeline output record.
func KeyForClassified(p *model.ClassifiedPlace) string {
	return Key(p.ExternalID, p.Name, p.Location)
}

// Set is a concurrency-safe membership set of dedup keys. First add wins.
type Set struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	dropped int
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add records the key and reports whether it was new. Repeat additions are
// counted as dropped duplicates.
func (s *Set) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		s.dropped++
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains reports whether the key has been seen.
func (s *Set) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok
}

// Size returns the number of distinct keys seen.
func (s *Set) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Dropped returns how many duplicate additions were rejected.
func (s *Set) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
