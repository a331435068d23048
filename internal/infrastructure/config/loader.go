package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics *PhysicsConfig
	Levels  []LevelConfig
}

// Loader loads game configuration from JSON and TMX files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// LoadPhysics loads physics.json over the default tuning, so a file may
// override only some values.
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	data, err := fs.ReadFile(l.fsys, "physics.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read physics.json: %w", err)
	}

	cfg := DefaultPhysics()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse physics.json: %w", err)
	}

	return cfg, nil
}

// LoadLevels loads the level pack levels.json
func (l *Loader) LoadLevels() (*LevelPack, error) {
	data, err := fs.ReadFile(l.fsys, "levels.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read levels.json: %w", err)
	}

	var pack LevelPack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse levels.json: %w", err)
	}

	for i := range pack.Levels {
		if pack.Levels[i].Name == "" {
			pack.Levels[i].Name = fmt.Sprintf("level %d", i+1)
		}
	}

	return &pack, nil
}

// LoadTMXDir loads every levels/*.tmx file, sorted by path
func (l *Loader) LoadTMXDir() ([]LevelConfig, error) {
	matches, err := fs.Glob(l.fsys, "levels/*.tmx")
	if err != nil {
		return nil, fmt.Errorf("failed to list tmx levels: %w", err)
	}
	sort.Strings(matches)

	levels := make([]LevelConfig, 0, len(matches))
	for _, path := range matches {
		cfg, err := l.LoadTMX(path)
		if err != nil {
			return nil, err
		}
		levels = append(levels, *cfg)
	}

	return levels, nil
}

// LoadAll loads physics and every level: the JSON pack first, then TMX levels
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	pack, err := l.LoadLevels()
	if err != nil {
		return nil, err
	}

	tmx, err := l.LoadTMXDir()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics: physics,
		Levels:  append(pack.Levels, tmx...),
	}, nil
}
