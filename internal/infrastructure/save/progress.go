// Package save persists level progress through gdata.
package save

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata"

	"github.com/younwookim/timewarp/internal/application/session"
)

// progressKey is the gdata item holding the progress record
const progressKey = "progress"

var _ session.ProgressStore = (*Store)(nil)

// ItemStore is the subset of *gdata.Manager the store uses
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// Progress is the record stored on disk
type Progress struct {
	Unlocked int `json:"unlocked"`
	// Best remaining time in milliseconds, keyed by level index
	Best map[int]float64 `json:"best,omitempty"`
}

// Store keeps the progress record in memory and writes it through on every
// change.
type Store struct {
	mu       sync.Mutex
	items    ItemStore
	progress Progress
}

// Open creates a store backed by the gdata directory of appName
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open save data: %w", err)
	}
	return NewStore(m)
}

// NewStore loads the progress record from items. A missing record starts
// from level 0; a corrupt one is reported and replaced on the next save.
func NewStore(items ItemStore) (*Store, error) {
	s := &Store{items: items}

	data, err := items.LoadItem(progressKey)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.progress); err != nil {
		log.Printf("Warning: Could not parse saved progress: %v", err)
		s.progress = Progress{}
	}
	s.progress.Unlocked = max(0, s.progress.Unlocked)
	return s, nil
}

// Unlocked returns the highest level index the player may start from
func (s *Store) Unlocked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Unlocked
}

// Best returns the best remaining time recorded for level
func (s *Store) Best(level int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.progress.Best[level]
	return t, ok
}

// RecordClear unlocks the level after the cleared one and keeps the best
// remaining time.
func (s *Store) RecordClear(level int, remaining float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if level+1 > s.progress.Unlocked {
		s.progress.Unlocked = level + 1
		changed = true
	}
	if best, ok := s.progress.Best[level]; !ok || remaining > best {
		if s.progress.Best == nil {
			s.progress.Best = make(map[int]float64)
		}
		s.progress.Best[level] = remaining
		changed = true
	}
	if !changed {
		return nil
	}

	data, err := json.Marshal(s.progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.items.SaveItem(progressKey, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Reset clears the stored progress
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = Progress{}
	if err := s.items.SaveItem(progressKey, nil); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
