package playing

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/domain/entity"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{26, 26, 46, 255}
	colorWall     = color.RGBA{80, 80, 100, 255}
	colorCeiling  = color.RGBA{70, 70, 90, 255}
	colorExit     = color.RGBA{60, 160, 90, 255}
	colorPlatform = color.RGBA{170, 140, 90, 255}
	colorWarning  = color.RGBA{230, 120, 60, 255}
	colorHidden   = color.RGBA{170, 140, 90, 90}
	colorSlider   = color.RGBA{200, 50, 50, 255}
	colorPlayer   = color.RGBA{100, 200, 100, 255}
	colorBankBG   = color.RGBA{60, 60, 60, 255}
	colorBankFG   = color.RGBA{100, 160, 230, 255}
)

// rampSteps is the number of strips a floor ramp is drawn with
const rampSteps = 8

// screenRenderer draws a level onto an ebiten image
type screenRenderer struct {
	screen  *ebiten.Image
	screenW int
	screenH int
}

var _ level.Renderer = (*screenRenderer)(nil)

func (r *screenRenderer) DrawBackground(grid *entity.TileGrid, cam level.Camera) {
	r.screen.Fill(colorBG)

	size := grid.Size()
	startX := max(0, int(cam.X/size))
	startY := max(0, int(cam.Y/size))
	endX := min(grid.Cols()-1, int((cam.X+float64(r.screenW))/size))
	endY := min(grid.Rows()-1, int((cam.Y+float64(r.screenH))/size))

	for row := startY; row <= endY; row++ {
		for col := startX; col <= endX; col++ {
			cell := entity.Cell{Col: col, Row: row}
			x := float64(col)*size - cam.X
			y := float64(row)*size - cam.Y

			if cell == grid.Exit() {
				fillRect(r.screen, x, y, size, size, colorExit)
				continue
			}

			switch code := grid.CodeAtCell(cell); code {
			case entity.TileSolid:
				fillRect(r.screen, x, y, size, size, colorWall)
			case entity.TileCeilingRampLeft, entity.TileCeilingRampRight:
				fillRect(r.screen, x, y, size, size, colorCeiling)
			case entity.TileRampUp, entity.TileRampDown:
				drawRamp(r.screen, x, y, size, code)
			}
		}
	}
}

// drawRamp approximates the triangular floor of a ramp cell with strips
func drawRamp(screen *ebiten.Image, x, y, size float64, code entity.TileCode) {
	step := size / rampSteps
	for i := 0; i < rampSteps; i++ {
		h := step * float64(i+1)
		sx := x + step*float64(i)
		if code == entity.TileRampDown {
			sx = x + size - step*float64(i+1)
		}
		fillRect(screen, sx, y+size-h, step, h, colorWall)
	}
}

func (r *screenRenderer) DrawAnnotation(a entity.Annotation, sx, sy float64) {
	ebitenutil.DebugPrintAt(r.screen, a.Text, int(sx), int(sy))
}

func (r *screenRenderer) DrawObstacle(o entity.Obstacle, sx, sy float64) {
	box := o.Box()
	switch o.Kind() {
	case entity.KindSlidingWall:
		fillRect(r.screen, sx, sy, box.W, box.H, colorSlider)
	case entity.KindBlinkingPlatform:
		if b, ok := o.(*entity.BlinkingPlatform); ok && b.Hidden() {
			vector.StrokeRect(r.screen, float32(sx), float32(sy), float32(b.W), float32(b.H), 1, colorHidden, false)
			return
		}
		c := colorPlatform
		if o.Warning() {
			c = colorWarning
		}
		fillRect(r.screen, sx, sy, box.W, box.H, c)
	default:
		fillRect(r.screen, sx, sy, box.W, box.H, colorPlatform)
	}
}

// DrawPlayer draws the body shrunk around the feet by the warp scale
func (r *screenRenderer) DrawPlayer(p *entity.Player, sx, sy float64) {
	scale := p.Scale()
	w, h := 2*p.W*scale, 2*p.H*scale
	fillRect(r.screen, sx-w/2, sy-h, w, h, colorPlayer)
}

func (r *screenRenderer) DrawHUD(h level.HUD) {
	ebitenutil.DebugPrintAt(r.screen, h.Name, 10, 10)
	ebitenutil.DebugPrintAt(r.screen, fmt.Sprintf("Time: %d", int(h.Time/1000)), r.screenW-90, 10)

	barX, barY, barW, barH := 10.0, float64(r.screenH-20), 100.0, 10.0
	fillRect(r.screen, barX, barY, barW, barH, colorBankBG)
	if h.MaxTimeWarp > 0 {
		ratio := math.Min(h.TimeWarp/h.MaxTimeWarp, 1)
		fillRect(r.screen, barX, barY, barW*ratio, barH, colorBankFG)
	}
	ebitenutil.DebugPrintAt(r.screen, fmt.Sprintf("Warp: %.1fs %s", h.TimeWarp/1000, h.State), int(barX+barW+10), int(barY)-4)
}

func fillRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
}
