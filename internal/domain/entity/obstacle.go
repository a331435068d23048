package entity

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// ObstacleKind is the closed set of cyclic obstacle variants
type ObstacleKind int

const (
	KindPlatform ObstacleKind = iota
	KindBlinkingPlatform
	KindSlidingWall
)

// String returns the name used in level files
func (k ObstacleKind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindBlinkingPlatform:
		return "blinking"
	case KindSlidingWall:
		return "wall"
	default:
		return "unknown"
	}
}

// ParseObstacleKind maps a level file name to a kind
func ParseObstacleKind(name string) (ObstacleKind, error) {
	switch name {
	case "platform", "":
		return KindPlatform, nil
	case "blinking":
		return KindBlinkingPlatform, nil
	case "wall":
		return KindSlidingWall, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownObstacle)
}

var curves = map[string]ease.TweenFunc{
	"":          ease.Linear,
	"linear":    ease.Linear,
	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"inSine":    ease.InSine,
	"outSine":   ease.OutSine,
	"inOutSine": ease.InOutSine,
}

// CurveByName returns the easing curve for a level file name
func CurveByName(name string) (ease.TweenFunc, bool) {
	c, ok := curves[name]
	return c, ok
}

// Rect is an axis-aligned box in world pixels
type Rect struct {
	X, Y, W, H float64
}

// Obstacle is implemented by every cyclic obstacle variant.
type Obstacle interface {
	Kind() ObstacleKind
	// Advance moves the obstacle dt milliseconds along its cycle.
	Advance(dt float64)
	// Hold records the current position as the previous one without moving.
	Hold()
	// Intersects tests the horizontal band [x-halfW, x+halfW] at height y
	// against the obstacle, including a swept test from (lastX, lastY).
	Intersects(x, y, lastX, lastY, halfW float64) bool
	Box() Rect
	Previous() (x, y float64)
	// Warning reports whether a render hook should flag the obstacle.
	Warning() bool
}

// Motion is the position/timer record shared by all obstacle variants.
// The obstacle travels from its initial position toward initial+0.5*delta
// during the first half of the cycle and back during the second half.
type Motion struct {
	InitX, InitY float64
	W, H         float64
	DX, DY       float64
	Cycle        float64
	Timer        float64

	X, Y         float64
	LastX, LastY float64

	curve ease.TweenFunc
}

// NewMotion creates a motion record positioned at timer 0.
// A nil curve means linear travel.
func NewMotion(x, y, w, h, dx, dy, cycle float64, curve ease.TweenFunc) Motion {
	if curve == nil {
		curve = ease.Linear
	}
	m := Motion{
		InitX: x, InitY: y,
		W: w, H: h,
		DX: dx, DY: dy,
		Cycle: cycle,
		curve: curve,
	}
	m.X, m.Y = m.PositionAt(0)
	m.LastX, m.LastY = m.X, m.Y
	return m
}

// Progress folds timer into the triangle wave [0,0.5] -> [0.5,0]
func (m *Motion) Progress(timer float64) float64 {
	p := timer / m.Cycle
	if p > 0.5 {
		p = 1 - p
	}
	return float64(m.curve(float32(p), 0, 0.5, 0.5))
}

// PositionAt returns the position for a timer value in [0, Cycle]
func (m *Motion) PositionAt(timer float64) (x, y float64) {
	p := m.Progress(timer)
	return m.InitX + p*m.DX, m.InitY + p*m.DY
}

// Advance moves the timer and recomputes the position
func (m *Motion) Advance(dt float64) {
	m.LastX, m.LastY = m.X, m.Y
	m.setTimer(m.Timer + dt)
}

// Hold keeps the obstacle still for one tick
func (m *Motion) Hold() {
	m.LastX, m.LastY = m.X, m.Y
}

func (m *Motion) setTimer(t float64) {
	t = math.Mod(t, m.Cycle)
	if t < 0 {
		t += m.Cycle
	}
	m.Timer = t
	m.X, m.Y = m.PositionAt(t)
}

// Box returns the current hitbox
func (m *Motion) Box() Rect {
	return Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
}

// Previous returns the position before the last Advance or Hold
func (m *Motion) Previous() (x, y float64) {
	return m.LastX, m.LastY
}

// Warning is false for plain motion
func (m *Motion) Warning() bool { return false }

// intersects checks the band against [X, X+W) x [Y, Y+reach). Intervals are
// inclusive at the min edge and exclusive at the max edge. The swept part
// compares positions relative to the obstacle so a fast obstacle cannot
// skip over a slow body within one tick.
func (m *Motion) intersects(x, y, lastX, lastY, halfW, reach float64) bool {
	overlapX := x+halfW >= m.X && x-halfW < m.X+m.W
	overlapY := y >= m.Y && y < m.Y+reach
	if overlapX && overlapY {
		return true
	}

	relX, relLastX := x-m.X, lastX-m.LastX
	crossedX := (relLastX+halfW < 0 && relX-halfW >= m.W) ||
		(relLastX-halfW >= m.W && relX+halfW < 0)
	if crossedX && overlapY {
		return true
	}

	crossedY := lastY-m.LastY < 0 && y-m.Y >= 0
	return crossedY && overlapX
}

// Platform is a solid ledge the player can stand on and ride.
type Platform struct {
	Motion
}

// NewPlatform creates a moving platform
func NewPlatform(m Motion) *Platform {
	return &Platform{Motion: m}
}

// Kind implements Obstacle
func (p *Platform) Kind() ObstacleKind { return KindPlatform }

// Intersects catches a feet point up to one body height below the top.
func (p *Platform) Intersects(x, y, lastX, lastY, halfW float64) bool {
	return p.intersects(x, y, lastX, lastY, halfW, 2*p.H)
}

// BlinkingPlatform is a platform whose hitbox vanishes for the second half
// of its cycle. Delay shifts the phase.
type BlinkingPlatform struct {
	Motion
	Delay  float64
	hidden bool
}

// NewBlinkingPlatform creates a blinking platform starting at timer delay
func NewBlinkingPlatform(m Motion, delay float64) *BlinkingPlatform {
	b := &BlinkingPlatform{Motion: m, Delay: delay}
	b.setTimer(delay)
	b.LastX, b.LastY = b.X, b.Y
	b.refresh()
	return b
}

// Kind implements Obstacle
func (b *BlinkingPlatform) Kind() ObstacleKind { return KindBlinkingPlatform }

// Advance implements Obstacle
func (b *BlinkingPlatform) Advance(dt float64) {
	b.Motion.Advance(dt)
	b.refresh()
}

func (b *BlinkingPlatform) refresh() {
	b.hidden = b.Timer > b.Cycle/2
}

// Hidden reports whether the hitbox is currently zeroed
func (b *BlinkingPlatform) Hidden() bool { return b.hidden }

// Box implements Obstacle; the box is empty while hidden
func (b *BlinkingPlatform) Box() Rect {
	if b.hidden {
		return Rect{X: b.X, Y: b.Y}
	}
	return b.Motion.Box()
}

// Warning is set shortly before the platform disappears
func (b *BlinkingPlatform) Warning() bool {
	return b.Timer > b.Cycle*0.4
}

// Intersects implements Obstacle
func (b *BlinkingPlatform) Intersects(x, y, lastX, lastY, halfW float64) bool {
	if b.hidden {
		return false
	}
	return b.intersects(x, y, lastX, lastY, halfW, 2*b.H)
}

// SlidingWall pushes the player sideways and crushes it against terrain or
// another wall.
type SlidingWall struct {
	Motion
}

// NewSlidingWall creates a sliding wall
func NewSlidingWall(m Motion) *SlidingWall {
	return &SlidingWall{Motion: m}
}

// Kind implements Obstacle
func (w *SlidingWall) Kind() ObstacleKind { return KindSlidingWall }

// Intersects implements Obstacle
func (w *SlidingWall) Intersects(x, y, lastX, lastY, halfW float64) bool {
	return w.intersects(x, y, lastX, lastY, halfW, w.H)
}
