package system

// Sound names requested through the SoundHook
const (
	SoundTic     = "tic"
	SoundBzzt    = "bzzt"
	SoundVictory = "victory"
	SoundDeath   = "death"
	SoundTimeout = "timeout"
)

// SoundHook receives fire-and-forget sound requests from the simulation
type SoundHook interface {
	Play(name string, loop bool)
	Pause(name string)
	Resume(name string)
}

// NopSound discards every request
type NopSound struct{}

func (NopSound) Play(string, bool) {}
func (NopSound) Pause(string)      {}
func (NopSound) Resume(string)     {}
