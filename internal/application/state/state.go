package state

// GameState represents the current state of the session
type GameState int

const (
	StateMenu GameState = iota
	StateLoading
	StatePlaying
	StatePaused
	StateGameOver
	StateTimeOut
	StateLevelComplete
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateTimeOut:
		return "TimeOut"
	case StateLevelComplete:
		return "LevelComplete"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the level in play has ended
func (s GameState) Terminal() bool {
	return s == StateGameOver || s == StateTimeOut || s == StateLevelComplete
}
