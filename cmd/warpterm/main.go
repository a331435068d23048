// Command warpterm plays the level pack in a terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
	"github.com/younwookim/timewarp/internal/infrastructure/terminal"
)

func main() {
	configDir := flag.String("configs", "cmd/game/configs", "Directory holding physics.json, levels.json and levels/*.tmx")
	levelFlag := flag.Int("level", 0, "Level to start from")
	colW := flag.Float64("col", 10, "World pixels per terminal column")
	rowH := flag.Float64("row", 20, "World pixels per terminal row")
	flag.Parse()

	cfg, err := config.NewLoader(*configDir).LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := session.New(cfg.Levels, cfg.Physics, session.WithStartLevel(*levelFlag))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorDefault).
		Foreground(tcell.ColorWhite))
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = terminal.NewDriver(screen, s, *colW, *rowH).Run(ctx)
	stop()
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
