package level

import (
	"math"

	"github.com/younwookim/timewarp/internal/domain/entity"
)

// Camera is the world position of the top-left corner of the view
type Camera struct {
	X, Y float64
}

// HUD is the overlay state handed to the renderer each frame
type HUD struct {
	Name        string
	Time        float64 // remaining ms
	TimeWarp    float64 // banked ms
	MaxTimeWarp float64
	State       entity.AnimationState
}

// Renderer draws a level. Screen coordinates are world coordinates minus
// the camera position.
type Renderer interface {
	DrawBackground(grid *entity.TileGrid, cam Camera)
	DrawAnnotation(a entity.Annotation, sx, sy float64)
	DrawObstacle(o entity.Obstacle, sx, sy float64)
	DrawPlayer(p *entity.Player, sx, sy float64)
	DrawHUD(h HUD)
}

// Camera centres the view on the player, clamped to the world. A world
// smaller than the view is pinned to the top-left corner.
func (l *Level) Camera(viewW, viewH float64) Camera {
	return Camera{
		X: clampView(l.player.X-viewW/2, l.grid.WorldWidth()-viewW),
		Y: clampView(l.player.Y-viewH/2, l.grid.WorldHeight()-viewH),
	}
}

func clampView(v, limit float64) float64 {
	return math.Max(0, math.Min(v, limit))
}

// Draw renders the level back to front through r
func (l *Level) Draw(r Renderer, viewW, viewH float64) {
	cam := l.Camera(viewW, viewH)

	r.DrawBackground(l.grid, cam)
	for _, a := range l.texts {
		r.DrawAnnotation(a, a.X-cam.X, a.Y-cam.Y)
	}
	for _, o := range l.platforms {
		box := o.Box()
		r.DrawObstacle(o, box.X-cam.X, box.Y-cam.Y)
	}
	for _, o := range l.walls {
		box := o.Box()
		r.DrawObstacle(o, box.X-cam.X, box.Y-cam.Y)
	}
	if l.player.Visible() {
		r.DrawPlayer(l.player, l.player.X-cam.X, l.player.Y-cam.Y)
	}

	r.DrawHUD(HUD{
		Name:        l.name,
		Time:        l.time,
		TimeWarp:    l.player.TimeWarp,
		MaxTimeWarp: l.maxBank,
		State:       l.player.Animation.State,
	})
}
