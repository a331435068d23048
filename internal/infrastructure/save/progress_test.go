package save

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memItems is an in-memory gdata stand-in
type memItems struct {
	items   map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemItems() *memItems {
	return &memItems{items: map[string][]byte{}}
}

func (m *memItems) LoadItem(key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items[key], nil
}

func (m *memItems) SaveItem(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.items[key] = data
	return nil
}

func TestNewStore_Empty(t *testing.T) {
	s, err := NewStore(newMemItems())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Unlocked())
	_, ok := s.Best(0)
	assert.False(t, ok)
}

func TestNewStore_Errors(t *testing.T) {
	items := newMemItems()
	items.loadErr = errors.New("permission denied")
	_, err := NewStore(items)
	assert.ErrorContains(t, err, "load progress")

	corrupt := newMemItems()
	corrupt.items[progressKey] = []byte("{")
	s, err := NewStore(corrupt)
	require.NoError(t, err, "a corrupt record is not fatal")
	assert.Equal(t, 0, s.Unlocked())
}

func TestStore_RecordClear_RoundTrip(t *testing.T) {
	items := newMemItems()
	s, err := NewStore(items)
	require.NoError(t, err)

	require.NoError(t, s.RecordClear(0, 12000))
	require.NoError(t, s.RecordClear(1, 5000))
	assert.Equal(t, 2, s.Unlocked())

	reopened, err := NewStore(items)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Unlocked())
	best, ok := reopened.Best(1)
	require.True(t, ok)
	assert.Equal(t, 5000.0, best)
}

func TestStore_RecordClear_KeepsBest(t *testing.T) {
	tests := []struct {
		name      string
		first     float64
		second    float64
		wantBest  float64
		wantSaves int
	}{
		{"better time replaces", 1000, 3000, 3000, 2},
		{"worse time is ignored", 3000, 1000, 3000, 1},
		{"equal time is ignored", 2000, 2000, 2000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newMemItems()
			s, err := NewStore(items)
			require.NoError(t, err)

			require.NoError(t, s.RecordClear(3, tt.first))
			require.NoError(t, s.RecordClear(3, tt.second))

			best, _ := s.Best(3)
			assert.Equal(t, tt.wantBest, best)
			assert.Equal(t, tt.wantSaves, items.saves)
			assert.Equal(t, 4, s.Unlocked())
		})
	}
}

func TestStore_ReplayingEarlierLevelKeepsUnlock(t *testing.T) {
	s, err := NewStore(newMemItems())
	require.NoError(t, err)

	require.NoError(t, s.RecordClear(4, 100))
	require.NoError(t, s.RecordClear(1, 100))
	assert.Equal(t, 5, s.Unlocked())
}

func TestStore_SaveError(t *testing.T) {
	items := newMemItems()
	s, err := NewStore(items)
	require.NoError(t, err)

	items.saveErr = errors.New("disk full")
	assert.ErrorContains(t, s.RecordClear(0, 10), "save progress")
}

func TestStore_Reset(t *testing.T) {
	items := newMemItems()
	s, err := NewStore(items)
	require.NoError(t, err)
	require.NoError(t, s.RecordClear(2, 10))

	require.NoError(t, s.Reset())
	assert.Equal(t, 0, s.Unlocked())

	reopened, err := NewStore(items)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Unlocked())
}
