package config

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"
)

// TMX layout read by LoadTMX:
//   - tile layer "tiles": a painted tile uses its tileset property "code"
//     (solid when the property is missing), an empty tile is code 0
//   - object group "markers": objects named "exit" and "spawn", addressed by
//     the cell under their centre
//   - object group "platforms": the object name is the obstacle type, with
//     properties dX, dY, cycle, delay and ease
//   - object group "texts": property "text", or the object name
//   - map properties "name" and "time" (seconds)
const (
	tmxTileLayer     = "tiles"
	tmxMarkers       = "markers"
	tmxPlatforms     = "platforms"
	tmxTexts         = "texts"
	tmxMarkerExit    = "exit"
	tmxMarkerSpawn   = "spawn"
	tmxCodeProperty  = "code"
	tmxDefaultSolid  = 1
	tmxDefaultPeriod = 2000
)

// LoadTMX loads one level from a Tiled map file
func (l *Loader) LoadTMX(tmxPath string) (*LevelConfig, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(l.fsys))
	if err != nil {
		return nil, fmt.Errorf("failed to load tmx %s: %w", tmxPath, err)
	}
	if m.TileWidth != m.TileHeight {
		return nil, fmt.Errorf("tmx %s: tiles must be square, got %dx%d", tmxPath, m.TileWidth, m.TileHeight)
	}

	cfg := &LevelConfig{Size: float64(m.TileWidth)}
	if m.Properties != nil {
		cfg.Name = m.Properties.GetString("name")
		cfg.Time = m.Properties.GetFloat("time")
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(path.Base(tmxPath), ".tmx")
	}

	cfg.Map, err = tmxTiles(m)
	if err != nil {
		return nil, fmt.Errorf("tmx %s: %w", tmxPath, err)
	}

	var haveSpawn bool
	for _, og := range m.ObjectGroups {
		switch og.Name {
		case tmxMarkers:
			for _, o := range og.Objects {
				cell := CellConfig{
					C: int(math.Floor((o.X + o.Width/2) / cfg.Size)),
					L: int(math.Floor((o.Y + o.Height/2) / cfg.Size)),
				}
				switch o.Name {
				case tmxMarkerExit:
					exit := cell
					cfg.Exit = &exit
				case tmxMarkerSpawn:
					cfg.Player, haveSpawn = cell, true
				}
			}
		case tmxPlatforms:
			for _, o := range og.Objects {
				cycle := o.Properties.GetFloat("cycle")
				if cycle == 0 {
					cycle = tmxDefaultPeriod
				}
				cfg.Platforms = append(cfg.Platforms, ObstacleConfig{
					Type:  o.Name,
					X:     o.X,
					Y:     o.Y,
					W:     o.Width,
					H:     o.Height,
					DX:    o.Properties.GetFloat("dX"),
					DY:    o.Properties.GetFloat("dY"),
					Cycle: cycle,
					Delay: o.Properties.GetFloat("delay"),
					Ease:  o.Properties.GetString("ease"),
				})
			}
		case tmxTexts:
			for _, o := range og.Objects {
				text := o.Properties.GetString("text")
				if text == "" {
					text = o.Name
				}
				cfg.Texts = append(cfg.Texts, TextConfig{X: o.X, Y: o.Y, Text: text})
			}
		}
	}

	if !haveSpawn {
		return nil, fmt.Errorf("tmx %s: no %q marker", tmxPath, tmxMarkerSpawn)
	}

	return cfg, nil
}

func tmxTiles(m *tiled.Map) ([][]int, error) {
	for _, layer := range m.Layers {
		if layer.Name != tmxTileLayer {
			continue
		}

		rows := make([][]int, m.Height)
		for y := 0; y < m.Height; y++ {
			rows[y] = make([]int, m.Width)
			for x := 0; x < m.Width; x++ {
				tile := layer.Tiles[y*m.Width+x]
				if tile.IsNil() {
					continue
				}
				rows[y][x] = tmxDefaultSolid
				ts, err := tile.Tileset.GetTilesetTile(tile.ID)
				if err != nil || ts.Properties.GetString(tmxCodeProperty) == "" {
					continue
				}
				rows[y][x] = ts.Properties.GetInt(tmxCodeProperty)
			}
		}
		return rows, nil
	}
	return nil, fmt.Errorf("no %q tile layer", tmxTileLayer)
}
