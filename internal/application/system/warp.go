package system

import "github.com/younwookim/timewarp/internal/domain/entity"

// updateWarp runs the time-warp state machine
//
//	Normal -> Disappearing -> NotThere -> Appearing -> Normal
//
// and returns true when the tick belongs to it: a warp just started or the
// player is not in the normal state.
func (s *PhysicsSystem) updateWarp(player *entity.Player, dt float64, in *entity.Input) bool {
	anim := &player.Animation
	animTime := s.config.Warp.AnimationTime

	switch anim.State {
	case entity.StateNormal:
		if !in.Warp || player.TimeWarp <= 0 {
			return false
		}
		in.ConsumeWarp()
		anim.State = entity.StateDisappearing
		anim.Remaining = animTime
		anim.Duration = animTime
		player.OnPlatform = entity.NoPlatform
		s.sound.Pause(SoundTic)
		s.sound.Play(SoundBzzt, false)

	case entity.StateDisappearing:
		anim.Remaining -= dt
		if anim.Remaining <= 0 {
			anim.State = entity.StateNotThere
			anim.Remaining = player.TimeWarp
			anim.Duration = player.TimeWarp
			s.sound.Resume(SoundTic)
		}

	case entity.StateNotThere:
		anim.Remaining -= dt
		if anim.Remaining > 0 {
			player.TimeWarp = anim.Remaining
			break
		}
		anim.State = entity.StateAppearing
		anim.Remaining = animTime
		anim.Duration = animTime
		player.TimeWarp = 0
		s.sound.Pause(SoundTic)
		s.sound.Play(SoundBzzt, false)

	case entity.StateAppearing:
		anim.Remaining -= dt
		if anim.Remaining <= 0 {
			anim.State = entity.StateNormal
			anim.Remaining = 0
			anim.Duration = 0
			s.sound.Resume(SoundTic)
		}
	}

	return true
}
