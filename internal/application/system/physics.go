package system

import (
	"math"

	"github.com/younwookim/timewarp/internal/domain/entity"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// World is the collision and query surface the player resolves against
type World interface {
	TileSize() float64
	TileCodeAt(x, y float64) entity.TileCode
	ProbeCorners(x, y, halfW, halfH float64) entity.TileCode
	RampSurfaceY(x, y float64) (float64, bool)
	IsInExitZone(x, y, halfW float64) bool
	// FloorBound is the lowest y a living player may reach
	FloorBound() float64

	// Platform returns nil for an unknown id
	Platform(id entity.PlatformID) entity.Obstacle
	// PlatformsNear returns candidate platforms for area in id order.
	// Candidates are a superset; Intersects decides.
	PlatformsNear(area entity.Rect) []entity.PlatformID
	// WallsNear returns candidate sliding walls for area
	WallsNear(area entity.Rect) []entity.Obstacle
}

// PhysicsSystem advances the player one tick: the warp state machine, input
// and collision resolution against the world.
type PhysicsSystem struct {
	config *config.PhysicsConfig
	sound  SoundHook
}

// NewPhysicsSystem creates a new physics system. A nil sound hook discards
// sound requests.
func NewPhysicsSystem(cfg *config.PhysicsConfig, sound SoundHook) *PhysicsSystem {
	if sound == nil {
		sound = NopSound{}
	}
	return &PhysicsSystem{
		config: cfg,
		sound:  sound,
	}
}

// Update advances the player by dt milliseconds. The input buffer is
// drained as documented on entity.Input.
func (s *PhysicsSystem) Update(player *entity.Player, dt float64, in *entity.Input, w World) {
	if player.IsTerminal() {
		return
	}
	player.LastX, player.LastY = player.X, player.Y

	if s.updateWarp(player, dt, in) {
		return
	}

	s.handleJump(player, in)
	if s.handleExit(player, in, w) {
		return
	}
	s.handleTimeBank(player, in)
	s.handleMovement(player, in)

	if player.Airborne() {
		s.resolveVertical(player, dt, w)
		if player.Dead {
			return
		}
	}

	s.followPlatform(player, w)

	if s.crushedOverhead(player, w) {
		player.Dead = true
		return
	}

	s.resolveHorizontal(player, dt, w)

	s.resolveWalls(player, w)
	if player.Dead {
		return
	}

	s.settle(player, w)

	if player.Y >= w.FloorBound() {
		player.Dead = true
	}
}

// resolveVertical moves an airborne player along SpeedY
func (s *PhysicsSystem) resolveVertical(player *entity.Player, dt float64, w World) {
	newY := player.Y + player.SpeedY*dt
	if newY >= w.FloorBound() {
		player.Y = newY
		player.Dead = true
		return
	}

	code := w.ProbeCorners(player.X, newY, player.W, player.H)
	if code == entity.TileEmpty && player.SpeedY > 0 {
		// The centre can cross a ramp apex between the corners
		code = w.TileCodeAt(player.X, newY)
	}
	if code == entity.TileEmpty {
		player.Y = newY
		return
	}

	size := w.TileSize()
	if player.SpeedY > 0 {
		// Landing
		player.OnGround = true
		if code.IsFloorRamp() {
			// Keep the last clear height when the centre is not over the ramp
			if y, ok := w.RampSurfaceY(player.X, newY); ok {
				player.Y = y
			}
		} else {
			player.Y = math.Floor(player.Y/size+1)*size - 1
		}
	} else {
		// Head against the ceiling
		player.Y = math.Floor((player.Y-player.H)/size)*size + player.H + 1
	}
	player.SpeedY = 0
}

// followPlatform carries a riding player along with its platform
func (s *PhysicsSystem) followPlatform(player *entity.Player, w World) {
	if !player.Riding() {
		return
	}

	p := w.Platform(player.OnPlatform)
	if p == nil || vanished(p) {
		player.OnPlatform = entity.NoPlatform
		return
	}

	box := p.Box()
	lastX, _ := p.Previous()
	player.Y = box.Y
	if carry := box.X - lastX; carry != 0 {
		s.moveHorizontal(player, player.X+carry, w)
	}

	if s.standing(player, w) {
		player.OnPlatform = entity.NoPlatform
		player.OnGround = true
		player.SpeedY = 0
	}
}

// crushedOverhead reports whether the head corners are inside terrain
func (s *PhysicsSystem) crushedOverhead(player *entity.Player, w World) bool {
	top := player.Y - player.H
	return w.TileCodeAt(player.X-player.W, top) != entity.TileEmpty ||
		w.TileCodeAt(player.X+player.W, top) != entity.TileEmpty
}

// resolveHorizontal moves the player along SpeedX
func (s *PhysicsSystem) resolveHorizontal(player *entity.Player, dt float64, w World) {
	if player.SpeedX == 0 {
		return
	}
	if !s.moveHorizontal(player, player.X+player.SpeedX*dt, w) {
		player.SpeedX = 0
	}
}

// moveHorizontal moves the body to newX. A grounded body follows floor
// ramps up and down and steps from a ramp onto the block it leads into.
// It returns false when terrain stopped the body short of newX.
func (s *PhysicsSystem) moveHorizontal(player *entity.Player, newX float64, w World) bool {
	dx := newX - player.X
	code := w.ProbeCorners(newX, player.Y, player.W, player.H)
	switch {
	case code == entity.TileEmpty:
		player.X = newX
	case code.IsFloorRamp():
		player.X = newX
		if y, ok := w.RampSurfaceY(newX, player.Y); ok {
			player.Y = y
		}
	default:
		if y, ok := s.stepUp(player, newX, w); ok {
			player.X, player.Y = newX, y
			return true
		}
		size := w.TileSize()
		if dx > 0 {
			player.X = math.Floor(player.X/size+1)*size - player.W - 1
		} else {
			player.X = math.Floor(player.X/size)*size + player.W
		}
		return false
	}

	if player.OnGround {
		y, ok := rampUnder(player.X, player.Y, math.Abs(dx)+1, w)
		if ok && !embedded(player, player.X, y, w) {
			player.Y = y
		}
	}
	return true
}

// embedded reports whether a corner of the body placed at (x, y) is inside
// terrain other than a floor ramp
func embedded(player *entity.Player, x, y float64, w World) bool {
	corners := [...][2]float64{
		{x - player.W, y - player.H},
		{x + player.W, y - player.H},
		{x - player.W, y},
		{x + player.W, y},
	}
	for _, c := range corners {
		if code := w.TileCodeAt(c[0], c[1]); code != entity.TileEmpty && !code.IsFloorRamp() {
			return true
		}
	}
	return false
}

// stepUp returns the feet height on top of the cell row the feet are in,
// for a grounded body on a ramp whose leading corner hit a block at the
// top of the ramp. The step is at most half a cell and the body must fit.
func (s *PhysicsSystem) stepUp(player *entity.Player, newX float64, w World) (float64, bool) {
	if !player.OnGround {
		return 0, false
	}
	if _, ok := rampUnder(player.X, player.Y, 1, w); !ok {
		return 0, false
	}

	size := w.TileSize()
	y := math.Floor(player.Y/size)*size - 1
	if y >= player.Y || player.Y-y > size/2 {
		return 0, false
	}
	if w.ProbeCorners(newX, y, player.W, player.H) != entity.TileEmpty {
		return 0, false
	}
	return y, true
}

// resolveWalls pushes the player out of sliding walls. Contact on both
// sides, or a push into terrain or another wall, kills the player.
func (s *PhysicsSystem) resolveWalls(player *entity.Player, w World) {
	walls := w.WallsNear(sweptBand(player))
	if len(walls) == 0 {
		return
	}

	leftX, rightX := player.X-player.W, player.X+player.W
	lastLeftX, lastRightX := player.LastX-player.W, player.LastX+player.W

	var left, right entity.Obstacle
	for _, wall := range walls {
		if left == nil && wall.Intersects(leftX, player.Y, lastLeftX, player.LastY, 0) {
			left = wall
		}
		if right == nil && wall.Intersects(rightX, player.Y, lastRightX, player.LastY, 0) {
			right = wall
		}
	}

	if left != nil && left == right {
		// One wall swept across the whole body: push along its motion
		if lastX, _ := left.Previous(); left.Box().X >= lastX {
			right = nil
		} else {
			left = nil
		}
	}

	var farX float64
	switch {
	case left != nil && right != nil:
		player.Dead = true
		return
	case left != nil:
		box := left.Box()
		player.X = box.X + box.W + player.W
		farX = player.X + player.W
	case right != nil:
		box := right.Box()
		player.X = box.X - player.W
		farX = player.X - player.W
	default:
		return
	}
	player.SpeedX = 0

	if s.pinned(player, farX, walls, left, right, w) {
		player.Dead = true
	}
}

// pinned reports whether the far edge of a pushed player overlaps terrain
// or a wall other than the pushing one.
func (s *PhysicsSystem) pinned(player *entity.Player, farX float64, walls []entity.Obstacle, left, right entity.Obstacle, w World) bool {
	mid := player.Y - player.H/2
	top := player.Y - player.H
	if w.TileCodeAt(farX, top) != entity.TileEmpty || w.TileCodeAt(farX, mid) != entity.TileEmpty {
		return true
	}
	for _, wall := range walls {
		if wall == left || wall == right {
			continue
		}
		if wall.Intersects(farX, player.Y, farX, player.Y, 0) {
			return true
		}
	}
	return false
}

// settle re-derives ground and platform contact and applies gravity
func (s *PhysicsSystem) settle(player *entity.Player, w World) {
	player.OnGround = s.standing(player, w)
	player.OnPlatform = entity.NoPlatform

	if !player.OnGround && player.SpeedY >= 0 {
		if id, ok := s.findPlatform(player, w); ok {
			player.OnPlatform = id
			player.Y = w.Platform(id).Box().Y
		}
	}

	if !player.Airborne() {
		player.SpeedY = 0
		return
	}
	player.SpeedY = math.Min(player.SpeedY+s.config.Physics.Gravity, s.config.Physics.MaxFallSpeed)
}

// standing reports whether a foot is one pixel above terrain, or the
// centre rests on a floor ramp
func (s *PhysicsSystem) standing(player *entity.Player, w World) bool {
	feet := player.Y + 1
	if w.TileCodeAt(player.X-player.W, feet) != entity.TileEmpty ||
		w.TileCodeAt(player.X+player.W, feet) != entity.TileEmpty {
		return true
	}
	if player.SpeedY < 0 {
		return false
	}
	_, ok := rampUnder(player.X, player.Y, 1, w)
	return ok
}

// rampUnder returns the floor ramp surface under x nearest to the feet
// line y, searching the feet cell and the cells above and below it.
// Surfaces farther than reach from y are ignored.
func rampUnder(x, y, reach float64, w World) (float64, bool) {
	size := w.TileSize()
	best, found := 0.0, false
	for _, probe := range [...]float64{y + 1, y + 1 - size, y + 1 + size} {
		surface, ok := w.RampSurfaceY(x, probe)
		if !ok || math.Abs(surface-y) > reach {
			continue
		}
		if !found || math.Abs(surface-y) < math.Abs(best-y) {
			best, found = surface, true
		}
	}
	return best, found
}

// findPlatform returns the first platform by id under the feet
func (s *PhysicsSystem) findPlatform(player *entity.Player, w World) (entity.PlatformID, bool) {
	for _, id := range w.PlatformsNear(sweptBand(player)) {
		p := w.Platform(id)
		if p != nil && p.Intersects(player.X, player.Y+1, player.LastX, player.LastY+1, player.W) {
			return id, true
		}
	}
	return entity.NoPlatform, false
}

// sweptBand covers the body from its last to its current position, one
// pixel below the feet included.
func sweptBand(player *entity.Player) entity.Rect {
	minX := math.Min(player.X, player.LastX) - player.W
	maxX := math.Max(player.X, player.LastX) + player.W
	minY := math.Min(player.Y, player.LastY) - player.H
	maxY := math.Max(player.Y, player.LastY) + 1
	return entity.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// vanished reports whether an obstacle currently has no hitbox
func vanished(o entity.Obstacle) bool {
	box := o.Box()
	return box.W == 0 && box.H == 0
}
