package config

// PhysicsConfig is the root config for physics.json.
// Speeds are pixels per millisecond, durations milliseconds.
type PhysicsConfig struct {
	Display  DisplayConfig   `json:"display"`
	Player   PlayerConfig    `json:"player"`
	Physics  PhysicsSettings `json:"physics"`
	Movement MovementConfig  `json:"movement"`
	Jump     JumpConfig      `json:"jump"`
	Warp     WarpConfig      `json:"warp"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

// PlayerConfig holds the half extents of the player body
type PlayerConfig struct {
	HalfWidth  float64 `json:"halfWidth"`
	HalfHeight float64 `json:"halfHeight"`
}

type PhysicsSettings struct {
	Gravity      float64 `json:"gravity"` // added to SpeedY once per tick
	MaxFallSpeed float64 `json:"maxFallSpeed"`
}

type MovementConfig struct {
	Acceleration float64 `json:"acceleration"` // per tick
	MaxSpeed     float64 `json:"maxSpeed"`
}

type JumpConfig struct {
	Force float64 `json:"force"`
}

// WarpConfig tunes the time-warp ability
type WarpConfig struct {
	Step          float64 `json:"step"`    // bank change per adjust press
	MaxBank       float64 `json:"maxBank"` // upper clamp of the bank
	AnimationTime float64 `json:"animationTime"`
}

// DefaultPhysics returns the stock tuning
func DefaultPhysics() *PhysicsConfig {
	return &PhysicsConfig{
		Display: DisplayConfig{
			ScreenWidth:  800,
			ScreenHeight: 600,
			Scale:        1,
			Framerate:    60,
		},
		Player: PlayerConfig{
			HalfWidth:  12,
			HalfHeight: 36,
		},
		Physics: PhysicsSettings{
			Gravity:      0.05,
			MaxFallSpeed: 0.8,
		},
		Movement: MovementConfig{
			Acceleration: 0.02,
			MaxSpeed:     0.4,
		},
		Jump: JumpConfig{
			Force: 0.7,
		},
		Warp: WarpConfig{
			Step:          500,
			MaxBank:       3000,
			AnimationTime: 1000,
		},
	}
}
