package level

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/timewarp/internal/application/system"
	"github.com/younwookim/timewarp/internal/domain/entity"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

type recordingSound struct {
	calls []string
}

func (r *recordingSound) Play(name string, loop bool) {
	if loop {
		r.calls = append(r.calls, "loop "+name)
		return
	}
	r.calls = append(r.calls, "play "+name)
}
func (r *recordingSound) Pause(name string)  { r.calls = append(r.calls, "pause "+name) }
func (r *recordingSound) Resume(name string) { r.calls = append(r.calls, "resume "+name) }

// openDef is a 5x6 map of empty cells with 40px tiles; the player spawns
// at (100, 39).
func openDef() *config.LevelConfig {
	rows := make([][]int, 6)
	for i := range rows {
		rows[i] = make([]int, 5)
	}
	return &config.LevelConfig{
		Name:   "open",
		Map:    rows,
		Size:   40,
		Exit:   &config.CellConfig{C: 4, L: 4},
		Time:   30,
		Player: config.CellConfig{C: 2, L: 1},
	}
}

func newLevel(t *testing.T, def *config.LevelConfig, opts ...Option) *Level {
	t.Helper()
	l, err := New(def, config.DefaultPhysics(), opts...)
	require.NoError(t, err)
	return l
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *config.LevelConfig)
		wantErr error
	}{
		{"missing exit", func(d *config.LevelConfig) { d.Exit = nil }, entity.ErrMissingExit},
		{"empty map", func(d *config.LevelConfig) { d.Map = nil }, entity.ErrEmptyGrid},
		{"ragged map", func(d *config.LevelConfig) { d.Map[2] = []int{0} }, entity.ErrRaggedGrid},
		{"bad code", func(d *config.LevelConfig) { d.Map[0][0] = 9 }, entity.ErrBadTileCode},
		{"bad size", func(d *config.LevelConfig) { d.Size = 0 }, entity.ErrBadTileSize},
		{"exit outside", func(d *config.LevelConfig) { d.Exit = &config.CellConfig{C: 5, L: 0} }, entity.ErrOutOfGrid},
		{"spawn outside", func(d *config.LevelConfig) { d.Player = config.CellConfig{C: 0, L: 6} }, entity.ErrOutOfGrid},
		{"no time", func(d *config.LevelConfig) { d.Time = 0 }, entity.ErrBadTime},
		{"unknown obstacle", func(d *config.LevelConfig) {
			d.Platforms = []config.ObstacleConfig{{Type: "ladder", W: 40, H: 10, Cycle: 1000}}
		}, entity.ErrUnknownObstacle},
		{"zero cycle", func(d *config.LevelConfig) {
			d.Platforms = []config.ObstacleConfig{{Type: "wall", W: 40, H: 10}}
		}, entity.ErrBadCycle},
		{"unknown ease", func(d *config.LevelConfig) {
			d.Platforms = []config.ObstacleConfig{{W: 40, H: 10, Cycle: 1000, Ease: "bounce"}}
		}, entity.ErrUnknownEase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := openDef()
			tt.mutate(def)

			l, err := New(def, config.DefaultPhysics())
			assert.Nil(t, l)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, `level "open"`)
		})
	}
}

func TestNew_Spawn(t *testing.T) {
	sound := &recordingSound{}
	def := openDef()
	def.Platforms = []config.ObstacleConfig{
		{Type: "platform", X: 0, Y: 100, W: 40, H: 10, Cycle: 1000},
		{Type: "wall", X: 160, Y: 160, W: 10, H: 40, Cycle: 1000},
		{Type: "blinking", X: 80, Y: 200, W: 40, H: 10, Cycle: 1000, Delay: 600},
	}
	def.Texts = []config.TextConfig{{X: 10, Y: 20, Text: "hello"}}

	l := newLevel(t, def, WithSound(sound))

	p := l.Player()
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 39.0, p.Y)
	assert.Equal(t, 12.0, p.W)
	assert.Equal(t, 36.0, p.H)

	assert.Equal(t, "open", l.Name())
	assert.Equal(t, 30000.0, l.Time())
	assert.Equal(t, 30000.0, l.TimeBudget())
	assert.Equal(t, 239.0, l.FloorBound())
	assert.Equal(t, 40.0, l.TileSize())

	require.Equal(t, 2, l.PlatformCount())
	assert.Equal(t, entity.KindPlatform, l.Platforms()[0].Kind())
	assert.Equal(t, entity.KindBlinkingPlatform, l.Platforms()[1].Kind())
	require.Len(t, l.Walls(), 1)
	assert.Equal(t, entity.KindSlidingWall, l.Walls()[0].Kind())
	assert.Equal(t, []entity.Annotation{{X: 10, Y: 20, Text: "hello"}}, l.Annotations())

	assert.Equal(t, []string{"loop tic"}, sound.calls)
}

func TestLevel_Platform(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{{X: 0, Y: 100, W: 40, H: 10, Cycle: 1000}}
	l := newLevel(t, def)

	assert.NotNil(t, l.Platform(0))
	assert.Nil(t, l.Platform(1))
	assert.Nil(t, l.Platform(entity.NoPlatform))
}

func TestLevel_Tick_CountsDown(t *testing.T) {
	def := openDef()
	def.Time = 0.05
	l := newLevel(t, def)
	in := &entity.Input{}

	for i := 0; i < 3; i++ {
		l.Tick(16, in)
	}
	assert.InDelta(t, 2.0, l.Time(), 1e-9)
	assert.False(t, l.TimedOut())

	l.Tick(16, in)
	assert.Equal(t, 0.0, l.Time(), "time is floored at zero")
	assert.True(t, l.TimedOut())

	// The player no longer moves once the clock ran out
	y := l.Player().Y
	l.Tick(16, in)
	assert.Equal(t, y, l.Player().Y)
}

func TestLevel_Tick_FrozenHoldsWorld(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{{X: 0, Y: 200, W: 40, H: 10, DX: 80, Cycle: 2000}}
	l := newLevel(t, def)
	in := &entity.Input{}

	l.Tick(16, in)
	p := l.Platforms()[0]
	lastX, _ := p.Previous()
	assert.NotEqual(t, lastX, p.Box().X, "platform advances while the player is normal")

	player := l.Player()
	player.Animation = entity.Animation{State: entity.StateDisappearing, Remaining: 5000, Duration: 1000}
	x, y := player.X, player.Y
	time := l.Time()
	boxX := p.Box().X

	l.Tick(16, in)
	assert.Equal(t, time, l.Time())
	assert.Equal(t, boxX, p.Box().X)
	lastX, _ = p.Previous()
	assert.Equal(t, boxX, lastX, "held obstacles report no motion")
	assert.Equal(t, x, player.X)
	assert.Equal(t, y, player.Y)
}

func TestLevel_Tick_NotThereKeepsWorldMoving(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{{X: 0, Y: 200, W: 40, H: 10, DX: 80, Cycle: 2000}}
	l := newLevel(t, def)
	in := &entity.Input{}

	l.Player().Animation = entity.Animation{State: entity.StateNotThere, Remaining: 5000, Duration: 1000}
	boxX := l.Platforms()[0].Box().X
	l.Tick(100, in)

	assert.Equal(t, 29900.0, l.Time())
	assert.NotEqual(t, boxX, l.Platforms()[0].Box().X)
}

func TestLevel_FallToDeath(t *testing.T) {
	l := newLevel(t, openDef())
	in := &entity.Input{}

	for i := 0; i < 200 && !l.Failed(); i++ {
		l.Tick(16, in)
	}
	assert.True(t, l.Failed())
	assert.False(t, l.Completed())
	assert.GreaterOrEqual(t, l.Player().Y, l.FloorBound())
}

func TestLevel_LandsAndRidesPlatform(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{{X: 80, Y: 100, W: 40, H: 10, DX: 80, Cycle: 2000}}
	l := newLevel(t, def)
	in := &entity.Input{}
	player := l.Player()

	for i := 0; i < 200 && !player.Riding(); i++ {
		l.Tick(16, in)
	}
	require.True(t, player.Riding())
	assert.Equal(t, entity.PlatformID(0), player.OnPlatform)
	assert.Equal(t, 100.0, player.Y)

	p := l.Platforms()[0]
	offset := player.X - p.Box().X
	for i := 0; i < 20; i++ {
		l.Tick(16, in)
		require.True(t, player.Riding(), "tick %d", i)
		assert.Equal(t, 100.0, player.Y)
		assert.InDelta(t, offset, player.X-p.Box().X, 1e-9)
	}
}

func TestLevel_PlatformsNear(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{
		{X: 120, Y: 40, W: 40, H: 10, Cycle: 1000},
		{X: 0, Y: 40, W: 40, H: 10, Cycle: 1000},
		{Type: "wall", X: 80, Y: 200, W: 10, H: 40, Cycle: 1000},
		{X: 40, Y: 40, W: 40, H: 10, Cycle: 1000},
	}
	l := newLevel(t, def)

	all := l.PlatformsNear(entity.Rect{X: 0, Y: 40, W: 200, H: 20})
	assert.Equal(t, []entity.PlatformID{0, 1, 2}, all, "candidates come in id order")

	left := l.PlatformsNear(entity.Rect{X: 0, Y: 40, W: 10, H: 10})
	assert.Contains(t, left, entity.PlatformID(1))

	assert.Empty(t, l.PlatformsNear(entity.Rect{X: 0, Y: 400, W: 10, H: 10}))

	walls := l.WallsNear(entity.Rect{X: 80, Y: 200, W: 10, H: 10})
	require.Len(t, walls, 1)
	assert.Same(t, l.Walls()[0], walls[0])
	assert.Empty(t, l.WallsNear(entity.Rect{X: 0, Y: 0, W: 10, H: 10}))
}

func TestLevel_IndexFollowsObstacles(t *testing.T) {
	def := openDef()
	// Travels from x=0 to x=400, far outside the grid
	def.Platforms = []config.ObstacleConfig{{X: 0, Y: 40, W: 40, H: 10, DX: 800, Cycle: 1000}}
	l := newLevel(t, def)
	in := &entity.Input{}

	far := entity.Rect{X: 390, Y: 40, W: 10, H: 10}
	assert.Empty(t, l.PlatformsNear(far))

	for i := 0; i < 10; i++ {
		l.Tick(50, in)
	}
	assert.Equal(t, 400.0, l.Platforms()[0].Box().X)
	assert.Equal(t, []entity.PlatformID{0}, l.PlatformsNear(far))
}

func TestLevel_Audio(t *testing.T) {
	sound := &recordingSound{}
	def := openDef()
	l := newLevel(t, def, WithSound(sound))

	l.PauseAudio()
	l.ResumeAudio()

	// Warp sounds reach the same hook
	l.Player().TimeWarp = 500
	l.Tick(16, &entity.Input{Warp: true})

	assert.Equal(t, []string{
		"loop tic",
		"pause tic",
		"resume tic",
		"pause tic",
		"play bzzt",
	}, sound.calls)
}

func TestWithSound_NilKeepsDefault(t *testing.T) {
	l := newLevel(t, openDef(), WithSound(nil))
	assert.Equal(t, system.NopSound{}, l.sound)
}

// recordingRenderer records draw calls as strings
type recordingRenderer struct {
	calls []string
	hud   HUD
}

func (r *recordingRenderer) DrawBackground(_ *entity.TileGrid, cam Camera) {
	r.calls = append(r.calls, fmt.Sprintf("background %v,%v", cam.X, cam.Y))
}

func (r *recordingRenderer) DrawAnnotation(a entity.Annotation, sx, sy float64) {
	r.calls = append(r.calls, fmt.Sprintf("text %s %v,%v", a.Text, sx, sy))
}

func (r *recordingRenderer) DrawObstacle(o entity.Obstacle, sx, sy float64) {
	r.calls = append(r.calls, fmt.Sprintf("%s %v,%v", o.Kind(), sx, sy))
}

func (r *recordingRenderer) DrawPlayer(_ *entity.Player, sx, sy float64) {
	r.calls = append(r.calls, fmt.Sprintf("player %v,%v", sx, sy))
}

func (r *recordingRenderer) DrawHUD(h HUD) {
	r.calls = append(r.calls, "hud")
	r.hud = h
}

func TestLevel_Camera(t *testing.T) {
	l := newLevel(t, openDef())

	tests := []struct {
		name         string
		x, y         float64
		viewW, viewH float64
		want         Camera
	}{
		{"centred", 100, 120, 100, 100, Camera{X: 50, Y: 70}},
		{"clamped low", 100, 39, 100, 100, Camera{X: 50, Y: 0}},
		{"clamped high", 190, 230, 100, 100, Camera{X: 100, Y: 140}},
		{"world smaller than view", 100, 39, 800, 600, Camera{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l.Player().X, l.Player().Y = tt.x, tt.y
			assert.Equal(t, tt.want, l.Camera(tt.viewW, tt.viewH))
		})
	}
}

func TestLevel_Draw(t *testing.T) {
	def := openDef()
	def.Platforms = []config.ObstacleConfig{
		{Type: "wall", X: 160, Y: 160, W: 10, H: 40, Cycle: 1000},
		{X: 80, Y: 100, W: 40, H: 10, Cycle: 1000},
	}
	def.Texts = []config.TextConfig{{X: 60, Y: 20, Text: "go"}}
	l := newLevel(t, def)
	l.Player().TimeWarp = 1500

	r := &recordingRenderer{}
	l.Draw(r, 100, 100)

	assert.Equal(t, []string{
		"background 50,0",
		"text go 10,20",
		"platform 30,100",
		"wall 110,160",
		"player 50,39",
		"hud",
	}, r.calls)
	assert.Equal(t, HUD{
		Name:        "open",
		Time:        30000,
		TimeWarp:    1500,
		MaxTimeWarp: 3000,
		State:       entity.StateNormal,
	}, r.hud)
}

func TestLevel_Draw_SkipsHiddenPlayer(t *testing.T) {
	l := newLevel(t, openDef())
	l.Player().Animation.State = entity.StateNotThere

	r := &recordingRenderer{}
	l.Draw(r, 100, 100)

	assert.Equal(t, []string{"background 50,0", "hud"}, r.calls)
	assert.Equal(t, entity.StateNotThere, r.hud.State)
}
