package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/application/state"
)

const (
	// FrameDuration is the target frame time of Run
	FrameDuration = time.Second / 60
	// maxDT caps a frame so a stalled terminal does not skip through walls
	maxDT = 50.0
)

// Driver runs a session on a tcell screen
type Driver struct {
	screen  tcell.Screen
	session *session.Session
	render  *Renderer
	keys    *Keys

	last  time.Time
	level *level.Level
}

// NewDriver creates a driver where each terminal cell shows colW x rowH
// world pixels
func NewDriver(screen tcell.Screen, s *session.Session, colW, rowH float64) *Driver {
	return &Driver{
		screen:  screen,
		session: s,
		render:  NewRenderer(screen, colW, rowH),
		keys:    NewKeys(DefaultHoldTimeout),
	}
}

// HandleKey feeds a key event to the session. Only the first event of a
// hold is a press; auto-repeat just extends the hold.
func (d *Driver) HandleKey(ev *tcell.EventKey, now time.Time) (quit bool, err error) {
	k, action := MapKey(ev.Key(), ev.Rune())
	switch action {
	case ActionQuit:
		return true, nil
	case ActionNone:
		return false, nil
	}
	if !d.keys.Press(k, now) {
		return false, nil
	}
	err = d.session.Press(k)

	// A new level starts with an empty command buffer; only the key that
	// started it stays held so its auto-repeat does not act again.
	if lvl := d.session.Level(); lvl != d.level {
		d.level = lvl
		d.keys.Reset()
		d.keys.Press(k, now)
	}
	return false, err
}

// Frame releases timed-out keys, advances the session by the wall time
// since the previous frame and redraws.
func (d *Driver) Frame(now time.Time) {
	dt := 0.0
	if !d.last.IsZero() {
		dt = min(float64(now.Sub(d.last))/float64(time.Millisecond), maxDT)
	}
	d.last = now

	for _, k := range d.keys.Expire(now) {
		d.session.Release(k)
	}

	d.session.Update(dt)
	d.Draw()
}

// Draw renders the current level and the state overlay
func (d *Driver) Draw() {
	d.screen.Clear()

	if lvl := d.session.Level(); lvl != nil {
		w, h := d.render.View()
		lvl.Draw(d.render, w, h)
	}

	switch d.session.State() {
	case state.StateLoading:
		d.render.Message("Loading...")
	case state.StateMenu:
		d.render.Message("TIME WARP", "", "Press spacebar to start",
			"arrows move, space jumps, a/d bank time, s warps, q quits")
	case state.StatePaused:
		d.render.Message("PAUSED", "Press ESC to resume")
	case state.StateGameOver:
		d.render.Message("GAME OVER", "Press R to restart level")
	case state.StateTimeOut:
		d.render.Message("TIME OUT", "Press R to restart level")
	case state.StateLevelComplete:
		if d.session.HasNext() {
			d.render.Message("LEVEL COMPLETE", "Press Spacebar to load next level")
		} else {
			d.render.Message("LEVEL COMPLETE", "All levels cleared, q to quit")
		}
	}

	d.screen.Show()
}

// Run polls terminal events on a goroutine and drives frames until the
// player quits, ctx is done, or a level fails to load.
func (d *Driver) Run(ctx context.Context) error {
	d.session.Ready()

	events := make(chan tcell.Event, 10)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				quit, err := d.HandleKey(ev, time.Now())
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			case *tcell.EventResize:
				d.screen.Sync()
			}
		case now := <-ticker.C:
			d.Frame(now)
		}
	}
}
