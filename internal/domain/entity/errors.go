package entity

import "errors"

// Level construction errors. Loaders and the level builder wrap these with
// context, so callers should match them with errors.Is.
var (
	ErrEmptyGrid       = errors.New("tile grid is empty")
	ErrRaggedGrid      = errors.New("tile grid rows differ in length")
	ErrBadTileCode     = errors.New("unknown tile code")
	ErrBadTileSize     = errors.New("tile size must be positive")
	ErrMissingExit     = errors.New("level has no exit")
	ErrOutOfGrid       = errors.New("cell is outside the tile grid")
	ErrUnknownObstacle = errors.New("unknown obstacle type")
	ErrBadCycle        = errors.New("obstacle cycle must be positive")
	ErrUnknownEase     = errors.New("unknown ease curve")
	ErrBadTime         = errors.New("level time budget must be positive")
)
