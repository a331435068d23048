package level

import (
	"fmt"
	"math"

	"github.com/younwookim/timewarp/internal/application/system"
	"github.com/younwookim/timewarp/internal/domain/entity"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// Level owns one loaded level: the tile grid, the moving obstacles, the
// player and the remaining time. It implements system.World.
type Level struct {
	name      string
	grid      *entity.TileGrid
	platforms []entity.Obstacle
	walls     []entity.Obstacle
	texts     []entity.Annotation
	player    *entity.Player

	time    float64
	budget  float64
	maxBank float64

	physics *system.PhysicsSystem
	sound   system.SoundHook
	index   *obstacleIndex
}

var _ system.World = (*Level)(nil)

// Option configures a Level
type Option func(*Level)

// WithSound routes level and player sounds to h
func WithSound(h system.SoundHook) Option {
	return func(l *Level) {
		if h != nil {
			l.sound = h
		}
	}
}

// New builds a level from its definition and starts the tic loop
func New(def *config.LevelConfig, cfg *config.PhysicsConfig, opts ...Option) (*Level, error) {
	if cfg == nil {
		cfg = config.DefaultPhysics()
	}

	grid, err := buildGrid(def)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", def.Name, err)
	}

	spawn := entity.Cell{Col: def.Player.C, Row: def.Player.L}
	if !grid.Contains(spawn) {
		return nil, fmt.Errorf("level %q: spawn %v: %w", def.Name, spawn, entity.ErrOutOfGrid)
	}
	if def.Time <= 0 {
		return nil, fmt.Errorf("level %q: time %v: %w", def.Name, def.Time, entity.ErrBadTime)
	}

	l := &Level{
		name:    def.Name,
		grid:    grid,
		time:    def.Time * 1000,
		budget:  def.Time * 1000,
		maxBank: cfg.Warp.MaxBank,
		sound:   system.NopSound{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.physics = system.NewPhysicsSystem(cfg, l.sound)

	bounds := entity.Rect{W: grid.WorldWidth(), H: grid.WorldHeight()}
	type pending struct {
		obstacle entity.Obstacle
		reach    float64
	}
	var platforms, walls []pending
	for i, o := range def.Platforms {
		obstacle, err := buildObstacle(o)
		if err != nil {
			return nil, fmt.Errorf("level %q: obstacle %d: %w", def.Name, i, err)
		}
		bounds = union(bounds, travelBounds(o, obstacle.Kind()))
		if obstacle.Kind() == entity.KindSlidingWall {
			walls = append(walls, pending{obstacle, o.H})
			continue
		}
		platforms = append(platforms, pending{obstacle, 2 * o.H})
	}

	l.index = newObstacleIndex(bounds, grid.Size())
	for id, p := range platforms {
		l.platforms = append(l.platforms, p.obstacle)
		l.index.add(p.obstacle, id, tagPlatform, p.reach)
	}
	for id, w := range walls {
		l.walls = append(l.walls, w.obstacle)
		l.index.add(w.obstacle, id, tagWall, w.reach)
	}

	for _, t := range def.Texts {
		l.texts = append(l.texts, entity.Annotation{X: t.X, Y: t.Y, Text: t.Text})
	}

	size := grid.Size()
	l.player = entity.NewPlayer(
		(0.5+float64(spawn.Col))*size,
		float64(spawn.Row)*size-1,
		cfg.Player.HalfWidth,
		cfg.Player.HalfHeight,
		cfg.Physics.Gravity,
	)

	l.sound.Play(system.SoundTic, true)
	return l, nil
}

// Tick advances the level by dt milliseconds. While the player is frozen
// the clock and every obstacle hold still.
func (l *Level) Tick(dt float64, in *entity.Input) {
	frozen := l.player.IsFrozen()
	if !frozen {
		l.time = math.Max(0, l.time-dt)
	}
	for _, o := range l.platforms {
		l.step(o, dt, frozen)
	}
	for _, o := range l.walls {
		l.step(o, dt, frozen)
	}
	l.index.sync()

	if l.time == 0 {
		return
	}
	l.physics.Update(l.player, dt, in, l)
}

func (l *Level) step(o entity.Obstacle, dt float64, frozen bool) {
	if frozen {
		o.Hold()
		return
	}
	o.Advance(dt)
}

// TimedOut reports whether the clock ran out
func (l *Level) TimedOut() bool { return l.time == 0 }

// Failed reports whether the player died
func (l *Level) Failed() bool { return l.player.Dead }

// Completed reports whether the player reached the exit
func (l *Level) Completed() bool { return l.player.Complete }

// PauseAudio pauses the tic loop
func (l *Level) PauseAudio() { l.sound.Pause(system.SoundTic) }

// ResumeAudio resumes the tic loop
func (l *Level) ResumeAudio() { l.sound.Resume(system.SoundTic) }

// Name returns the level name
func (l *Level) Name() string { return l.name }

// Grid returns the static geometry
func (l *Level) Grid() *entity.TileGrid { return l.grid }

// Player returns the player body
func (l *Level) Player() *entity.Player { return l.player }

// Annotations returns the decorative texts
func (l *Level) Annotations() []entity.Annotation { return l.texts }

// Time returns the remaining milliseconds
func (l *Level) Time() float64 { return l.time }

// TimeBudget returns the milliseconds the level started with
func (l *Level) TimeBudget() float64 { return l.budget }

// Platforms returns the platforms in id order
func (l *Level) Platforms() []entity.Obstacle { return l.platforms }

// Walls returns the sliding walls
func (l *Level) Walls() []entity.Obstacle { return l.walls }

// PlatformCount returns the number of platforms
func (l *Level) PlatformCount() int { return len(l.platforms) }

// World

// TileSize returns the edge length of a cell in pixels
func (l *Level) TileSize() float64 { return l.grid.Size() }

// TileCodeAt returns the code of the solid region under a point
func (l *Level) TileCodeAt(x, y float64) entity.TileCode { return l.grid.TileCodeAt(x, y) }

// ProbeCorners returns the first non-empty code under the body corners
func (l *Level) ProbeCorners(x, y, halfW, halfH float64) entity.TileCode {
	return l.grid.ProbeCorners(x, y, halfW, halfH)
}

// RampSurfaceY returns the floor ramp surface at x
func (l *Level) RampSurfaceY(x, y float64) (float64, bool) { return l.grid.RampSurfaceY(x, y) }

// IsInExitZone reports whether a body stands in the exit cell
func (l *Level) IsInExitZone(x, y, halfW float64) bool { return l.grid.IsInExitZone(x, y, halfW) }

// FloorBound is one pixel above the bottom of the world
func (l *Level) FloorBound() float64 { return l.grid.WorldHeight() - 1 }

// Platform returns the platform with id, nil when there is none
func (l *Level) Platform(id entity.PlatformID) entity.Obstacle {
	if id < 0 || int(id) >= len(l.platforms) {
		return nil
	}
	return l.platforms[id]
}

// PlatformsNear returns the ids of platforms the broad phase finds near area
func (l *Level) PlatformsNear(area entity.Rect) []entity.PlatformID {
	ids := l.index.query(area, tagPlatform)
	out := make([]entity.PlatformID, len(ids))
	for i, id := range ids {
		out[i] = entity.PlatformID(id)
	}
	return out
}

// WallsNear returns the sliding walls the broad phase finds near area
func (l *Level) WallsNear(area entity.Rect) []entity.Obstacle {
	ids := l.index.query(area, tagWall)
	out := make([]entity.Obstacle, len(ids))
	for i, id := range ids {
		out[i] = l.walls[id]
	}
	return out
}
