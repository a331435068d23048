// Package terminal plays the game in a terminal through tcell.
package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/timewarp/internal/application/level"
	"github.com/younwookim/timewarp/internal/domain/entity"
)

// hudRows is the number of rows above the play field
const hudRows = 1

// Canvas is the part of tcell.Screen the renderer draws on
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleExit     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	stylePlatform = tcell.StyleDefault.Foreground(tcell.Color(51))
	styleWarning  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHidden   = tcell.StyleDefault.Foreground(tcell.Color(240))
	styleSlider   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Renderer draws a level as characters. Every terminal cell covers
// colW x rowH world pixels.
type Renderer struct {
	canvas Canvas
	colW   float64
	rowH   float64
}

var _ level.Renderer = (*Renderer)(nil)

func NewRenderer(c Canvas, colW, rowH float64) *Renderer {
	return &Renderer{canvas: c, colW: colW, rowH: rowH}
}

// View returns the world size visible below the HUD
func (r *Renderer) View() (w, h float64) {
	cols, rows := r.canvas.Size()
	return float64(cols) * r.colW, float64(max(0, rows-hudRows)) * r.rowH
}

func (r *Renderer) DrawBackground(grid *entity.TileGrid, cam level.Camera) {
	cols, rows := r.canvas.Size()
	for cy := 0; cy < rows-hudRows; cy++ {
		wy := cam.Y + (float64(cy)+0.5)*r.rowH
		if wy >= grid.WorldHeight() {
			break
		}
		for cx := 0; cx < cols; cx++ {
			wx := cam.X + (float64(cx)+0.5)*r.colW
			if wx >= grid.WorldWidth() {
				break
			}

			cell := grid.CellAt(wx, wy)
			if cell == grid.Exit() {
				r.canvas.SetContent(cx, cy+hudRows, 'E', nil, styleExit)
				continue
			}
			switch grid.CodeAtCell(cell) {
			case entity.TileSolid, entity.TileCeilingRampLeft, entity.TileCeilingRampRight:
				r.canvas.SetContent(cx, cy+hudRows, '#', nil, styleWall)
			case entity.TileRampUp:
				r.canvas.SetContent(cx, cy+hudRows, '/', nil, styleWall)
			case entity.TileRampDown:
				r.canvas.SetContent(cx, cy+hudRows, '\\', nil, styleWall)
			}
		}
	}
}

func (r *Renderer) DrawAnnotation(a entity.Annotation, sx, sy float64) {
	r.text(r.col(sx), r.row(sy)+hudRows, a.Text, styleText)
}

func (r *Renderer) DrawObstacle(o entity.Obstacle, sx, sy float64) {
	box := o.Box()
	ch, style := '=', stylePlatform

	switch o.Kind() {
	case entity.KindSlidingWall:
		ch, style = '|', styleSlider
	case entity.KindBlinkingPlatform:
		if b, ok := o.(*entity.BlinkingPlatform); ok && b.Hidden() {
			box.W, box.H = b.W, b.H
			ch, style = '.', styleHidden
		} else if o.Warning() {
			ch, style = '~', styleWarning
		}
	}
	r.fill(sx, sy, box.W, box.H, ch, style)
}

// DrawPlayer marks the feet with '@' and the rest of the scaled body with 'o'
func (r *Renderer) DrawPlayer(p *entity.Player, sx, sy float64) {
	col := r.col(sx)
	feet := r.row(sy)
	head := r.row(sy - 2*p.H*p.Scale())
	for row := head; row < feet; row++ {
		r.put(col, row+hudRows, 'o', stylePlayer)
	}
	r.put(col, feet+hudRows, '@', stylePlayer)
}

func (r *Renderer) DrawHUD(h level.HUD) {
	const barWidth = 10
	filled := 0
	if h.MaxTimeWarp > 0 {
		filled = int(math.Round(math.Min(h.TimeWarp/h.MaxTimeWarp, 1) * barWidth))
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	r.text(0, 0, fmt.Sprintf("%s  Time: %d  Warp [%s] %s", h.Name, int(h.Time/1000), bar, h.State), styleText)
}

// Message writes centered lines over the play field; the HUD row is
// never overwritten.
func (r *Renderer) Message(lines ...string) {
	cols, rows := r.canvas.Size()
	top := hudRows + max(0, (rows-hudRows-len(lines))/2)
	for i, line := range lines {
		r.text((cols-len(line))/2, top+i, line, styleText)
	}
}

func (r *Renderer) fill(sx, sy, w, h float64, ch rune, style tcell.Style) {
	if w <= 0 || h <= 0 {
		return
	}
	c0, c1 := r.col(sx), int(math.Ceil((sx+w)/r.colW))-1
	r0, r1 := r.row(sy), int(math.Ceil((sy+h)/r.rowH))-1
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			r.put(col, row+hudRows, ch, style)
		}
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.put(x+i, y, ch, style)
	}
}

// put drops characters outside the canvas
func (r *Renderer) put(x, y int, ch rune, style tcell.Style) {
	cols, rows := r.canvas.Size()
	if x < 0 || x >= cols || y < 0 || y >= rows {
		return
	}
	r.canvas.SetContent(x, y, ch, nil, style)
}

func (r *Renderer) col(sx float64) int { return int(math.Floor(sx / r.colW)) }
func (r *Renderer) row(sy float64) int { return int(math.Floor(sy / r.rowH)) }
