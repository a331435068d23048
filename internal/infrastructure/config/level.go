package config

// LevelPack is the root config for levels.json
type LevelPack struct {
	Levels []LevelConfig `json:"levels"`
}

// LevelConfig describes one level. Cells are addressed by column c and
// line l; obstacle coordinates are world pixels. A nil Exit is rejected when
// the level is built.
type LevelConfig struct {
	Name      string           `json:"name"`
	Map       [][]int          `json:"map"`
	Size      float64          `json:"size"`
	Exit      *CellConfig      `json:"exit"`
	Time      float64          `json:"time"` // seconds
	Player    CellConfig       `json:"player"`
	Platforms []ObstacleConfig `json:"platforms"`
	Texts     []TextConfig     `json:"texts"`
}

type CellConfig struct {
	C int `json:"c"`
	L int `json:"l"`
}

// ObstacleConfig describes a cyclic obstacle. Type is "platform",
// "blinking" or "wall"; an empty type is a platform.
type ObstacleConfig struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	DX    float64 `json:"dX"`
	DY    float64 `json:"dY"`
	Cycle float64 `json:"cycle"`
	Delay float64 `json:"delay,omitempty"`
	Ease  string  `json:"ease,omitempty"`
}

type TextConfig struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}
