package entity

import "github.com/tanema/gween/ease"

// AnimationState is the ability state of the player
type AnimationState int

const (
	StateNormal AnimationState = iota
	StateDisappearing
	StateNotThere
	StateAppearing
)

// String returns the state name
func (s AnimationState) String() string {
	switch s {
	case StateNormal:
		return "Normal"
	case StateDisappearing:
		return "Disappearing"
	case StateNotThere:
		return "NotThere"
	case StateAppearing:
		return "Appearing"
	default:
		return "Unknown"
	}
}

// PlatformID indexes the level's platform collection
type PlatformID int

// NoPlatform means the player is not riding anything
const NoPlatform PlatformID = -1

// Animation holds the current ability state and its countdown (ms)
type Animation struct {
	State     AnimationState
	Remaining float64
	Duration  float64
}

// Player is the controllable body.
// X is the horizontal centre and Y the feet line; the box spans
// [X-W, X+W] x [Y-H, Y]. Speeds are in pixels per millisecond.
type Player struct {
	X, Y         float64
	LastX, LastY float64

	SpeedX, SpeedY float64
	W, H           float64

	OnGround   bool
	OnPlatform PlatformID

	Dead     bool
	Complete bool

	// TimeWarp is the banked intangible time in milliseconds
	TimeWarp  float64
	Animation Animation
}

// NewPlayer creates an airborne player at (x, y) with an initial
// downward speed so the first tick settles it on the ground.
func NewPlayer(x, y, halfW, halfH, fallSpeed float64) *Player {
	return &Player{
		X: x, Y: y,
		LastX: x, LastY: y,
		SpeedY:     fallSpeed,
		W:          halfW,
		H:          halfH,
		OnPlatform: NoPlatform,
	}
}

// IsFrozen returns true during the disappear/appear transitions.
// The world is paused while the player is frozen.
func (p *Player) IsFrozen() bool {
	return p.Animation.State == StateDisappearing || p.Animation.State == StateAppearing
}

// IsIntangible returns true whenever the player is not in the normal
// state; no input, gravity or collision applies.
func (p *Player) IsIntangible() bool {
	return p.Animation.State != StateNormal
}

// IsTerminal returns true once the player died or finished the level
func (p *Player) IsTerminal() bool {
	return p.Dead || p.Complete
}

// Riding returns true while attached to a platform
func (p *Player) Riding() bool {
	return p.OnPlatform != NoPlatform
}

// Airborne returns true when neither grounded nor riding
func (p *Player) Airborne() bool {
	return !p.OnGround && !p.Riding()
}

// Visible returns false while the player is not there
func (p *Player) Visible() bool {
	return p.Animation.State != StateNotThere
}

// Scale returns the render scale of the body during warp transitions
func (p *Player) Scale() float64 {
	a := p.Animation
	if a.Duration <= 0 {
		return 1
	}
	elapsed := float32(a.Duration - a.Remaining)
	if elapsed < 0 {
		elapsed = 0
	}
	d := float32(a.Duration)
	if elapsed > d {
		elapsed = d
	}

	switch a.State {
	case StateDisappearing:
		return float64(ease.InQuad(elapsed, 1, -1, d))
	case StateAppearing:
		return float64(ease.OutQuad(elapsed, 0, 1, d))
	case StateNotThere:
		return 0
	default:
		return 1
	}
}
