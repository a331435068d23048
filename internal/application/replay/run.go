package replay

import (
	"errors"
	"fmt"

	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/application/state"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

var (
	ErrLevelRange    = errors.New("replay level is not in the pack")
	ErrLevelMismatch = errors.New("replay was recorded on another level")
)

// Result is the outcome of a headless replay
type Result struct {
	Frames int // frames played before the level ended
	State  state.GameState
	Time   float64 // remaining ms
	X, Y   float64
}

// Validate checks that data was recorded on a level of the pack
func Validate(data ReplayData, levels []config.LevelConfig) error {
	if data.Level < 0 || data.Level >= len(levels) {
		return fmt.Errorf("level %d of %d: %w", data.Level, len(levels), ErrLevelRange)
	}
	if name := levels[data.Level].Name; data.LevelName != "" && data.LevelName != name {
		return fmt.Errorf("recorded %q, pack has %q: %w", data.LevelName, name, ErrLevelMismatch)
	}
	return nil
}

// Run plays data against the level pack without a window. Playback stops
// at the first terminal state.
func Run(data ReplayData, levels []config.LevelConfig, physics *config.PhysicsConfig) (Result, error) {
	if err := Validate(data, levels); err != nil {
		return Result{}, err
	}

	s, err := session.New(levels, physics, session.WithStartLevel(data.Level))
	if err != nil {
		return Result{}, err
	}
	if err := s.Start(); err != nil {
		return Result{}, err
	}

	replayer := NewReplayer(data)
	for s.State() == state.StatePlaying {
		dt, in, ok := replayer.Next()
		if !ok {
			break
		}
		s.SetInput(in)
		s.Update(dt)
	}

	p := s.Level().Player()
	return Result{
		Frames: replayer.CurrentFrame(),
		State:  s.State(),
		Time:   s.Level().Time(),
		X:      p.X,
		Y:      p.Y,
	}, nil
}
