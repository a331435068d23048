package entity

// Input is the command buffer handed to the simulation each tick.
//
// Left and Right are level-triggered: the caller keeps them set while the
// key is held. Jump, Up, Warp and Adjust are edge-triggered presses; the
// simulation drains them when it acts on them:
//   - Jump is cleared whenever a normal tick observes it, even mid-air.
//   - Up is cleared when it completes the level.
//   - Warp is cleared when a warp starts.
//   - Adjust is reset to 0 once applied to the time bank.
//
// A caller that needs "pressed this frame" semantics simply sets the field
// on key press; it must not clear it itself before the tick.
type Input struct {
	Jump  bool
	Up    bool
	Left  bool
	Right bool
	Warp  bool
	// Adjust is -1, 0 or 1
	Adjust int
}

// TakeJump returns and clears the jump press
func (in *Input) TakeJump() bool {
	j := in.Jump
	in.Jump = false
	return j
}

// TakeAdjust returns and clears the time bank adjustment
func (in *Input) TakeAdjust() int {
	a := in.Adjust
	in.Adjust = 0
	return a
}

// ConsumeUp clears the up press
func (in *Input) ConsumeUp() { in.Up = false }

// ConsumeWarp clears the warp press
func (in *Input) ConsumeWarp() { in.Warp = false }

// Steering returns -1, 0 or 1 from the held direction keys
func (in *Input) Steering() int {
	s := 0
	if in.Left {
		s--
	}
	if in.Right {
		s++
	}
	return s
}
