// Package playing provides the window scene that runs a session.
package playing

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/timewarp/internal/application/game"
	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/application/replay"
	"github.com/younwookim/timewarp/internal/application/scene"
	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/application/state"
)

// keyBinding binds a window key to a session key
type keyBinding struct {
	key ebiten.Key
	to  session.Key
}

// keyMap is polled in order, so simultaneous presses resolve the same way
// every tick.
var keyMap = []keyBinding{
	{ebiten.KeySpace, session.KeyJump},
	{ebiten.KeyArrowUp, session.KeyUp},
	{ebiten.KeyArrowLeft, session.KeyLeft},
	{ebiten.KeyArrowRight, session.KeyRight},
	{ebiten.KeyS, session.KeyWarp},
	{ebiten.KeyA, session.KeyBankDown},
	{ebiten.KeyD, session.KeyBankUp},
	{ebiten.KeyR, session.KeyRestart},
	{ebiten.KeyEscape, session.KeyPause},
}

// Keyboard reports key edges for the current tick
type Keyboard interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
}

type ebitenKeyboard struct{}

func (ebitenKeyboard) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeyboard) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

// Playing runs a session in the window
type Playing struct {
	session  *session.Session
	keyboard Keyboard
	screenW  int
	screenH  int

	// Input recording
	recorder       *replay.Recorder
	recordFilename string
	recordedLevel  *level.Level

	// Playback replaces the keyboard
	replayer *replay.Replayer
}

// Option configures the scene
type Option func(*Playing)

// WithRecording records every level attempt to filename
func WithRecording(filename string) Option {
	return func(p *Playing) { p.recordFilename = filename }
}

// WithReplay drives the session from recorded frames instead of the keyboard
func WithReplay(r *replay.Replayer) Option {
	return func(p *Playing) { p.replayer = r }
}

// WithKeyboard replaces the ebiten keyboard
func WithKeyboard(k Keyboard) Option {
	return func(p *Playing) { p.keyboard = k }
}

// New creates the scene over a session
func New(s *session.Session, screenW, screenH int, opts ...Option) *Playing {
	p := &Playing{
		session:  s,
		keyboard: ebitenKeyboard{},
		screenW:  screenW,
		screenH:  screenH,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update proceeds the session (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	if p.replayer != nil {
		if p.keyboard.JustPressed(ebiten.KeyQ) {
			return nil, game.ErrQuit
		}
		return nil, p.updateReplay()
	}

	if p.keyboard.JustPressed(ebiten.KeyF5) && p.recorder != nil {
		p.saveRecording()
	}
	if p.keyboard.JustPressed(ebiten.KeyQ) && p.session.State() != state.StatePlaying {
		return nil, game.ErrQuit
	}

	for _, b := range keyMap {
		if p.keyboard.JustReleased(b.key) {
			p.session.Release(b.to)
		}
	}
	for _, b := range keyMap {
		if p.keyboard.JustPressed(b.key) {
			if err := p.session.Press(b.to); err != nil {
				return nil, err
			}
		}
	}

	if p.session.State() != state.StatePlaying {
		return nil, nil
	}

	p.trackRecorder()
	if p.recorder != nil {
		p.recorder.RecordFrame(dt, p.session.Input())
	}

	p.session.Update(dt)

	if p.session.State().Terminal() && p.recorder != nil {
		p.saveRecording()
		p.recorder.Stop()
	}
	return nil, nil
}

// updateReplay feeds the next recorded frame; the window stays open on the
// final state once the frames run out.
func (p *Playing) updateReplay() error {
	if p.session.State() == state.StateMenu {
		if err := p.session.Start(); err != nil {
			return err
		}
	}
	if p.session.State() != state.StatePlaying {
		return nil
	}
	dt, in, ok := p.replayer.Next()
	if !ok {
		return nil
	}
	p.session.SetInput(in)
	p.session.Update(dt)

	if p.session.State().Terminal() {
		log.Printf("Replay finished: %s after %d frames", p.session.State(), p.replayer.CurrentFrame())
	}
	return nil
}

// trackRecorder starts a new recording whenever a new level attempt begins
func (p *Playing) trackRecorder() {
	if p.recordFilename == "" {
		return
	}
	if lvl := p.session.Level(); p.recordedLevel != lvl {
		p.recordedLevel = lvl
		p.recorder = replay.NewRecorder(p.session.LevelNumber(), lvl.Name())
		log.Printf("Recording enabled: %s (level %d)", p.recordFilename, p.session.LevelNumber())
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	lvl := p.session.Level()
	if lvl == nil {
		screen.Fill(colorBG)
		p.drawMenu(screen)
		return
	}

	r := &screenRenderer{screen: screen, screenW: p.screenW, screenH: p.screenH}
	lvl.Draw(r, float64(p.screenW), float64(p.screenH))

	switch p.session.State() {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress ESC to resume")
	case state.StateGameOver:
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 180}, "GAME OVER\n\nPress R to restart level")
	case state.StateTimeOut:
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 180}, "TIME OUT\n\nPress R to restart level")
	case state.StateLevelComplete:
		text := "LEVEL COMPLETE\n\nPress Spacebar to load next level"
		if !p.session.HasNext() {
			text = "LEVEL COMPLETE\n\nAll levels cleared, Q to quit"
		}
		p.drawOverlay(screen, color.RGBA{0, 60, 0, 160}, text)
	}
}

func (p *Playing) drawMenu(screen *ebiten.Image) {
	text := "Loading..."
	if p.session.State() == state.StateMenu {
		text = "TIME WARP\n\nPress spacebar to start\n\n" +
			"Arrows: move | Up: exit | Space: jump\n" +
			"A/D: bank time | S: warp | ESC: pause"
	}
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-120, p.screenH/2-40)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, text string) {
	vector.FillRect(screen, 0, 0, float32(p.screenW), float32(p.screenH), c, false)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-100, p.screenH/2-30)
}

// OnEnter is called when the scene becomes active
func (p *Playing) OnEnter() {
	p.session.Ready()
}

// OnExit saves an unfinished recording
func (p *Playing) OnExit() {
	if p.recorder != nil && p.recorder.IsRecording() && p.recorder.FrameCount() > 0 {
		p.saveRecording()
	}
}
