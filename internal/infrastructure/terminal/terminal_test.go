package terminal

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/application/state"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// fakeCanvas records the last rune written to each cell
type fakeCanvas struct {
	w, h  int
	cells map[[2]int]rune
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, cells: map[[2]int]rune{}}
}

func (c *fakeCanvas) SetContent(x, y int, primary rune, _ []rune, _ tcell.Style) {
	c.cells[[2]int{x, y}] = primary
}

func (c *fakeCanvas) Size() (int, int) { return c.w, c.h }

func (c *fakeCanvas) at(x, y int) rune { return c.cells[[2]int{x, y}] }

func (c *fakeCanvas) row(y int) string {
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		if r := c.at(x, y); r != 0 {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// rampLevel is 4x3 tiles of 40px: a floor, a ramp and the exit
func rampLevel() config.LevelConfig {
	return config.LevelConfig{
		Name: "ramps",
		Map: [][]int{
			{0, 0, 0, 0},
			{0, 0, 0, 4},
			{1, 1, 1, 1},
		},
		Size:   40,
		Exit:   &config.CellConfig{C: 2, L: 1},
		Time:   30,
		Player: config.CellConfig{C: 0, L: 2},
		Platforms: []config.ObstacleConfig{
			{X: 40, Y: 40, W: 20, H: 10, Cycle: 1000},
		},
		Texts: []config.TextConfig{{X: 60, Y: 0, Text: "hi"}},
	}
}

func TestRenderer_DrawLevel(t *testing.T) {
	def := rampLevel()
	lvl, err := level.New(&def, nil)
	require.NoError(t, err)

	// 16x6 cells of 10x20 px show the whole 160x120 world below the HUD
	canvas := newFakeCanvas(16, 7)
	r := NewRenderer(canvas, 10, 20)
	w, h := r.View()
	assert.Equal(t, 160.0, w)
	assert.Equal(t, 120.0, h)

	lvl.Draw(r, w, h)

	assert.Equal(t, "ramps  Time: 30 ", canvas.row(0), "the HUD is clipped to the canvas")
	assert.Equal(t, "################", canvas.row(5))
	assert.Equal(t, "################", canvas.row(6))

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"text", 6, 1, 'h'},
		{"text continues", 7, 1, 'i'},
		{"platform", 4, 3, '='},
		{"platform right edge", 5, 3, '='},
		{"exit", 8, 3, 'E'},
		{"exit lower half", 11, 4, 'E'},
		{"ramp", 12, 3, '/'},
		{"player feet", 2, 4, '@'},
		{"player body", 2, 1, 'o'},
		{"empty air", 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canvas.at(tt.x, tt.y))
		})
	}
}

func TestRenderer_ClipsToCanvas(t *testing.T) {
	canvas := newFakeCanvas(4, 2)
	r := NewRenderer(canvas, 10, 20)

	r.DrawHUD(level.HUD{Name: "a long level name"})
	r.Message("far too wide for the canvas")

	for pos := range canvas.cells {
		assert.GreaterOrEqual(t, pos[0], 0)
		assert.Less(t, pos[0], 4)
		assert.GreaterOrEqual(t, pos[1], 0)
		assert.Less(t, pos[1], 2)
	}
	assert.Equal(t, "a lo", canvas.row(0), "the message stays below the HUD")
	assert.Equal(t, "e fo", canvas.row(1))
}

func TestRenderer_MessageCentredBelowHUD(t *testing.T) {
	canvas := newFakeCanvas(10, 5)
	r := NewRenderer(canvas, 10, 20)

	r.DrawHUD(level.HUD{Name: "hud"})
	r.Message("ab", "cd")

	assert.Equal(t, "hud  Time:", canvas.row(0))
	assert.Equal(t, "          ", canvas.row(1))
	assert.Equal(t, "    ab    ", canvas.row(2))
	assert.Equal(t, "    cd    ", canvas.row(3))

	r.Message("1", "2", "3", "4", "5", "6")
	assert.Equal(t, "hud  Time:", canvas.row(0), "extra lines are clipped at the bottom")
	assert.Equal(t, "    1     ", canvas.row(1))
}

func TestRenderer_HUDBar(t *testing.T) {
	tests := []struct {
		warp, max float64
		want      string
	}{
		{0, 3000, "[----------]"},
		{1500, 3000, "[#####-----]"},
		{3000, 3000, "[##########]"},
		{9000, 3000, "[##########]"},
		{100, 0, "[----------]"},
	}

	for _, tt := range tests {
		canvas := newFakeCanvas(60, 2)
		NewRenderer(canvas, 10, 20).DrawHUD(level.HUD{Name: "x", TimeWarp: tt.warp, MaxTimeWarp: tt.max})
		assert.Contains(t, canvas.row(0), tt.want, "warp %v of %v", tt.warp, tt.max)
	}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		ch     rune
		want   session.Key
		action Action
	}{
		{"space jumps", tcell.KeyRune, ' ', session.KeyJump, ActionKey},
		{"up", tcell.KeyUp, 0, session.KeyUp, ActionKey},
		{"left", tcell.KeyLeft, 0, session.KeyLeft, ActionKey},
		{"right", tcell.KeyRight, 0, session.KeyRight, ActionKey},
		{"warp", tcell.KeyRune, 's', session.KeyWarp, ActionKey},
		{"bank down", tcell.KeyRune, 'a', session.KeyBankDown, ActionKey},
		{"bank up", tcell.KeyRune, 'd', session.KeyBankUp, ActionKey},
		{"restart", tcell.KeyRune, 'r', session.KeyRestart, ActionKey},
		{"pause", tcell.KeyEscape, 0, session.KeyPause, ActionKey},
		{"q quits", tcell.KeyRune, 'q', 0, ActionQuit},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, 0, ActionQuit},
		{"unbound rune", tcell.KeyRune, 'x', 0, ActionNone},
		{"unbound key", tcell.KeyF1, 0, 0, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, action := MapKey(tt.key, tt.ch)
			assert.Equal(t, tt.action, action)
			if action == ActionKey {
				assert.Equal(t, tt.want, k)
			}
		})
	}
}

func TestKeys_HoldAndExpire(t *testing.T) {
	keys := NewKeys(150 * time.Millisecond)
	t0 := time.Unix(0, 0)

	assert.True(t, keys.Press(session.KeyLeft, t0))
	assert.False(t, keys.Press(session.KeyLeft, t0.Add(100*time.Millisecond)), "auto-repeat extends the hold")
	assert.True(t, keys.Press(session.KeyWarp, t0.Add(100*time.Millisecond)))

	assert.Empty(t, keys.Expire(t0.Add(200*time.Millisecond)))
	assert.Equal(t, []session.Key{session.KeyLeft, session.KeyWarp}, keys.Expire(t0.Add(250*time.Millisecond)))
	assert.False(t, keys.Held(session.KeyLeft))

	keys.Press(session.KeyRight, t0)
	keys.Reset()
	assert.False(t, keys.Held(session.KeyRight))
}

func newDriver(t *testing.T) (*Driver, tcell.SimulationScreen, *session.Session) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(16, 7)

	s, err := session.New([]config.LevelConfig{rampLevel()}, nil)
	require.NoError(t, err)
	s.Ready()
	return NewDriver(screen, s, 10, 20), screen, s
}

func key(k tcell.Key, ch rune) *tcell.EventKey {
	return tcell.NewEventKey(k, ch, tcell.ModNone)
}

func TestDriver_StartAndHold(t *testing.T) {
	d, screen, s := newDriver(t)
	t0 := time.Unix(100, 0)

	quit, err := d.HandleKey(key(tcell.KeyRune, ' '), t0)
	require.NoError(t, err)
	assert.False(t, quit)
	require.Equal(t, state.StatePlaying, s.State())

	// Auto-repeat of the start key does not jump
	_, err = d.HandleKey(key(tcell.KeyRune, ' '), t0.Add(30*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, s.Input().Jump)

	_, err = d.HandleKey(key(tcell.KeyRight, 0), t0.Add(40*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, s.Input().Right)

	d.Frame(t0.Add(50 * time.Millisecond))
	assert.True(t, s.Input().Right)

	d.Frame(t0.Add(250 * time.Millisecond))
	assert.False(t, s.Input().Right, "the hold timed out")

	primary, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, 'r', primary, "HUD starts with the level name")
}

func TestDriver_Quit(t *testing.T) {
	d, _, _ := newDriver(t)

	quit, err := d.HandleKey(key(tcell.KeyRune, 'q'), time.Now())
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = d.HandleKey(key(tcell.KeyRune, 'x'), time.Now())
	require.NoError(t, err)
	assert.False(t, quit)
}

func TestDriver_FrameCapsDT(t *testing.T) {
	d, _, s := newDriver(t)
	t0 := time.Unix(100, 0)
	_, err := d.HandleKey(key(tcell.KeyRune, ' '), t0)
	require.NoError(t, err)

	budget := s.Level().Time()
	d.Frame(t0)
	assert.Equal(t, budget, s.Level().Time(), "the first frame has no elapsed time")

	d.Frame(t0.Add(5 * time.Second))
	assert.InDelta(t, budget-maxDT, s.Level().Time(), 1e-9)
}

func TestDriver_MenuOverlay(t *testing.T) {
	d, screen, _ := newDriver(t)
	screen.SetSize(60, 7)
	d.Draw()

	cells, w, _ := screen.GetContents()
	var text strings.Builder
	for _, c := range cells {
		if len(c.Runes) > 0 {
			text.WriteRune(c.Runes[0])
		}
	}
	assert.Equal(t, 60, w)
	assert.Contains(t, text.String(), "Press spacebar to start")
}
