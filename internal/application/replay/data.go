package replay

import "github.com/younwookim/timewarp/internal/domain/entity"

// FrameInput records the command buffer and step of a single frame
type FrameInput struct {
	F  int     `json:"f"`           // Frame number
	DT float64 `json:"dt"`          // Step in milliseconds
	J  bool    `json:"j,omitempty"` // Jump
	U  bool    `json:"u,omitempty"` // Up
	L  bool    `json:"l,omitempty"` // Left
	R  bool    `json:"r,omitempty"` // Right
	W  bool    `json:"w,omitempty"` // Warp
	A  int     `json:"a,omitempty"` // Bank adjustment
}

// NewFrameInput captures the buffer as it is handed to a tick
func NewFrameInput(frame int, dt float64, in entity.Input) FrameInput {
	return FrameInput{
		F:  frame,
		DT: dt,
		J:  in.Jump,
		U:  in.Up,
		L:  in.Left,
		R:  in.Right,
		W:  in.Warp,
		A:  in.Adjust,
	}
}

// Input rebuilds the command buffer
func (fi FrameInput) Input() entity.Input {
	return entity.Input{
		Jump:   fi.J,
		Up:     fi.U,
		Left:   fi.L,
		Right:  fi.R,
		Warp:   fi.W,
		Adjust: fi.A,
	}
}

// ReplayData contains all data needed to replay one level attempt
type ReplayData struct {
	Version   string       `json:"version"`
	Level     int          `json:"level"`
	LevelName string       `json:"levelName"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
