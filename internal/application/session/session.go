// Package session drives a run through the level pack: it owns the game
// state, the input command buffer and the level in play.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/application/state"
	"github.com/younwookim/timewarp/internal/application/system"
	"github.com/younwookim/timewarp/internal/domain/entity"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// ErrNoLevels is returned when a session is created without levels
var ErrNoLevels = errors.New("session has no levels")

// Key is an abstract key; drivers map their key codes onto it
type Key int

const (
	KeyJump Key = iota // also starts the game and loads the next level
	KeyUp              // enters the exit
	KeyLeft
	KeyRight
	KeyWarp
	KeyBankDown
	KeyBankUp
	KeyRestart
	KeyPause
)

// ProgressStore persists which levels were cleared
type ProgressStore interface {
	// Unlocked returns the highest level index the player may start from
	Unlocked() int
	// RecordClear stores a cleared level and the time left on the clock
	RecordClear(level int, remaining float64) error
}

// Session is the game-state machine around the level orchestrator
type Session struct {
	levels   []config.LevelConfig
	physics  *config.PhysicsConfig
	sound    system.SoundHook
	progress ProgressStore

	number int
	level  *level.Level
	state  state.GameState
	input  entity.Input
}

// Option configures a Session
type Option func(*Session)

// WithSound routes level and session sounds to h
func WithSound(h system.SoundHook) Option {
	return func(s *Session) {
		if h != nil {
			s.sound = h
		}
	}
}

// WithProgress records cleared levels in p
func WithProgress(p ProgressStore) Option {
	return func(s *Session) { s.progress = p }
}

// WithStartLevel selects the first level to play. Out of range values are
// clamped to the pack.
func WithStartLevel(n int) Option {
	return func(s *Session) { s.number = n }
}

// New creates a session in the Loading state
func New(levels []config.LevelConfig, physics *config.PhysicsConfig, opts ...Option) (*Session, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	if physics == nil {
		physics = config.DefaultPhysics()
	}

	s := &Session{
		levels:  levels,
		physics: physics,
		sound:   system.NopSound{},
		state:   state.StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.number = max(0, min(s.number, len(levels)-1))
	return s, nil
}

// Ready finishes loading and shows the menu
func (s *Session) Ready() {
	if s.state == state.StateLoading {
		s.state = state.StateMenu
	}
}

// Start loads the current level and starts playing it
func (s *Session) Start() error {
	if s.level != nil && !s.state.Terminal() {
		s.level.PauseAudio()
	}

	def := s.levels[s.number]
	lvl, err := level.New(&def, s.physics, level.WithSound(s.sound))
	if err != nil {
		return fmt.Errorf("start level %d: %w", s.number, err)
	}

	s.level = lvl
	s.input = entity.Input{}
	s.state = state.StatePlaying
	log.Printf("Level %d %q: %dx%d tiles, %d platforms, %d walls, %.0fs",
		s.number, def.Name, lvl.Grid().Cols(), lvl.Grid().Rows(),
		lvl.PlatformCount(), len(lvl.Walls()), lvl.TimeBudget()/1000)
	return nil
}

// Update advances the level in play by dt milliseconds and reacts to its
// terminal flags.
func (s *Session) Update(dt float64) {
	if s.state != state.StatePlaying {
		return
	}

	s.level.Tick(dt, &s.input)

	switch {
	case s.level.TimedOut():
		s.finish(state.StateTimeOut, system.SoundTimeout)
	case s.level.Failed():
		s.finish(state.StateGameOver, system.SoundDeath)
	case s.level.Completed():
		s.finish(state.StateLevelComplete, system.SoundVictory)
		s.recordClear()
	}
}

func (s *Session) finish(next state.GameState, sound string) {
	s.state = next
	s.level.PauseAudio()
	s.sound.Play(sound, false)
}

func (s *Session) recordClear() {
	if s.progress == nil {
		return
	}
	if err := s.progress.RecordClear(s.number, s.level.Time()); err != nil {
		log.Printf("Failed to save progress: %v", err)
	}
}

// Press handles a key going down. Errors come from loading a level.
func (s *Session) Press(k Key) error {
	switch s.state {
	case state.StatePlaying:
		s.pressPlaying(k)
	case state.StatePaused:
		if k == KeyPause {
			s.state = state.StatePlaying
			s.level.ResumeAudio()
		}
	case state.StateGameOver, state.StateTimeOut:
		if k == KeyRestart {
			return s.Start()
		}
	case state.StateLevelComplete:
		if k == KeyJump && s.HasNext() {
			s.number++
			if err := s.Start(); err != nil {
				s.number--
				return err
			}
		}
	case state.StateMenu:
		if k == KeyJump {
			return s.Start()
		}
	}
	return nil
}

func (s *Session) pressPlaying(k Key) {
	switch k {
	case KeyJump:
		s.input.Jump = true
	case KeyUp:
		s.input.Up = true
	case KeyLeft:
		s.input.Left = true
	case KeyRight:
		s.input.Right = true
	case KeyWarp:
		s.input.Warp = true
	case KeyBankDown:
		s.input.Adjust = -1
	case KeyBankUp:
		s.input.Adjust = 1
	case KeyPause:
		s.state = state.StatePaused
		s.level.PauseAudio()
	}
}

// Release handles a key going up. A bank key only clears an adjustment
// in its own direction.
func (s *Session) Release(k Key) {
	if s.state != state.StatePlaying {
		return
	}

	switch k {
	case KeyJump:
		s.input.Jump = false
	case KeyUp:
		s.input.Up = false
	case KeyLeft:
		s.input.Left = false
	case KeyRight:
		s.input.Right = false
	case KeyWarp:
		s.input.Warp = false
	case KeyBankDown:
		if s.input.Adjust < 0 {
			s.input.Adjust = 0
		}
	case KeyBankUp:
		if s.input.Adjust > 0 {
			s.input.Adjust = 0
		}
	}
}

// HasNext reports whether a level follows the current one
func (s *Session) HasNext() bool { return s.number+1 < len(s.levels) }

func (s *Session) State() state.GameState { return s.state }

// Level returns the level in play, nil before the first Start
func (s *Session) Level() *level.Level { return s.level }

// LevelNumber returns the index of the current level in the pack
func (s *Session) LevelNumber() int { return s.number }

// Input returns a copy of the command buffer
func (s *Session) Input() entity.Input { return s.input }

// SetInput replaces the command buffer; replays use it to restore the
// recorded buffer before each tick.
func (s *Session) SetInput(in entity.Input) { s.input = in }
