package system

import (
	"math"

	"github.com/younwookim/timewarp/internal/domain/entity"
)

// handleJump starts a jump from the ground or a platform. The press is
// drained even when the player cannot jump.
func (s *PhysicsSystem) handleJump(player *entity.Player, in *entity.Input) {
	if !in.TakeJump() {
		return
	}
	if player.Airborne() {
		return
	}
	player.SpeedY = -s.config.Jump.Force
	player.OnGround = false
	player.OnPlatform = entity.NoPlatform
}

// handleExit completes the level when up is pressed on the exit floor
func (s *PhysicsSystem) handleExit(player *entity.Player, in *entity.Input, w World) bool {
	if !in.Up || !player.OnGround || !w.IsInExitZone(player.X, player.Y, player.W) {
		return false
	}
	in.ConsumeUp()
	player.Complete = true
	return true
}

// handleTimeBank applies a pending bank adjustment
func (s *PhysicsSystem) handleTimeBank(player *entity.Player, in *entity.Input) {
	adjust := in.TakeAdjust()
	if adjust == 0 {
		return
	}
	bank := player.TimeWarp + float64(adjust)*s.config.Warp.Step
	player.TimeWarp = math.Max(0, math.Min(bank, s.config.Warp.MaxBank))
}

// handleMovement handles horizontal movement
func (s *PhysicsSystem) handleMovement(player *entity.Player, in *entity.Input) {
	accel := s.config.Movement.Acceleration
	maxSpeed := s.config.Movement.MaxSpeed

	if in.Left && in.Right {
		return
	}

	switch in.Steering() {
	case 1:
		player.SpeedX = math.Min(player.SpeedX+accel, maxSpeed)
	case -1:
		player.SpeedX = math.Max(player.SpeedX-accel, -maxSpeed)
	default:
		// Deceleration
		if player.SpeedX > 0 {
			player.SpeedX = math.Max(player.SpeedX-accel, 0)
		} else if player.SpeedX < 0 {
			player.SpeedX = math.Min(player.SpeedX+accel, 0)
		}
	}
}
