package main

import (
	"fmt"
	"io"

	"github.com/younwookim/timewarp/internal/application/replay"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
)

// verifyReplay plays a recorded file against the pack and writes the outcome
func verifyReplay(w io.Writer, filename string, cfg *config.GameConfig) error {
	data, err := replay.LoadReplay(filename)
	if err != nil {
		return err
	}

	result, err := replay.Run(*data, cfg.Levels, cfg.Physics)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "level %d %q: %s after %d of %d frames, %.0fms left, player at (%.2f, %.2f)\n",
		data.Level, cfg.Levels[data.Level].Name, result.State, result.Frames, len(data.Frames),
		result.Time, result.X, result.Y)
	return err
}
