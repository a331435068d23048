package level

import (
	"fmt"
	"math"

	"github.com/younwookim/timewarp/internal/domain/entity"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// buildGrid converts the level map into a validated tile grid
func buildGrid(def *config.LevelConfig) (*entity.TileGrid, error) {
	if def.Exit == nil {
		return nil, entity.ErrMissingExit
	}

	rows := make([][]entity.TileCode, len(def.Map))
	for y, row := range def.Map {
		rows[y] = make([]entity.TileCode, len(row))
		for x, code := range row {
			rows[y][x] = entity.TileCode(code)
		}
	}

	exit := entity.Cell{Col: def.Exit.C, Row: def.Exit.L}
	return entity.NewTileGrid(rows, def.Size, exit)
}

// buildObstacle converts one obstacle entry into its variant
func buildObstacle(o config.ObstacleConfig) (entity.Obstacle, error) {
	kind, err := entity.ParseObstacleKind(o.Type)
	if err != nil {
		return nil, err
	}
	if o.Cycle <= 0 {
		return nil, fmt.Errorf("cycle %v: %w", o.Cycle, entity.ErrBadCycle)
	}
	curve, ok := entity.CurveByName(o.Ease)
	if !ok {
		return nil, fmt.Errorf("%q: %w", o.Ease, entity.ErrUnknownEase)
	}

	m := entity.NewMotion(o.X, o.Y, o.W, o.H, o.DX, o.DY, o.Cycle, curve)
	switch kind {
	case entity.KindBlinkingPlatform:
		return entity.NewBlinkingPlatform(m, o.Delay), nil
	case entity.KindSlidingWall:
		return entity.NewSlidingWall(m), nil
	default:
		return entity.NewPlatform(m), nil
	}
}

// travelBounds is the area an obstacle can reach over its cycle, the
// platform catch band included.
func travelBounds(o config.ObstacleConfig, kind entity.ObstacleKind) entity.Rect {
	reach := o.H
	if kind != entity.KindSlidingWall {
		reach = 2 * o.H
	}
	endX, endY := o.X+0.5*o.DX, o.Y+0.5*o.DY
	minX, maxX := math.Min(o.X, endX), math.Max(o.X, endX)+o.W
	minY, maxY := math.Min(o.Y, endY), math.Max(o.Y, endY)+reach
	return entity.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func union(a, b entity.Rect) entity.Rect {
	minX, minY := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	maxX, maxY := math.Max(a.X+a.W, b.X+b.W), math.Max(a.Y+a.H, b.Y+b.H)
	return entity.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
