package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/timewarp/internal/application/game"
	"github.com/younwookim/timewarp/internal/application/replay"
	"github.com/younwookim/timewarp/internal/application/scene/playing"
	"github.com/younwookim/timewarp/internal/application/session"
	"github.com/younwookim/timewarp/internal/infrastructure/audio"
	"github.com/younwookim/timewarp/internal/infrastructure/config"
	"github.com/younwookim/timewarp/internal/infrastructure/save"
)

// appName names the save data directory
const appName = "timewarp"

func main() {
	// Parse command line flags
	levelFlag := flag.Int("level", -1, "Level to start from (default: the last unlocked level)")
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play back a recorded file in the window")
	verifyFlag := flag.String("verify", "", "Play back a recorded file without a window and print the outcome")
	muteFlag := flag.Bool("mute", false, "Disable sound")
	flag.Parse()

	// Load configurations using embedded filesystem
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		log.Fatalf("Failed to get config subfs: %v", err)
	}
	loader := config.NewFSLoader(fsys, "configs")
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *verifyFlag != "" {
		if err := verifyReplay(os.Stdout, *verifyFlag, cfg); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	var opts []session.Option
	var sceneOpts []playing.Option

	if !*muteFlag {
		bank := audio.NewSoundBank()
		if err := bank.Init(); err != nil {
			log.Printf("Warning: Could not initialize audio: %v", err)
		} else {
			defer bank.Close()
			opts = append(opts, session.WithSound(bank))
		}
	}

	start := *levelFlag
	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		if err := replay.Validate(*data, cfg.Levels); err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		start = data.Level
		sceneOpts = append(sceneOpts, playing.WithReplay(replay.NewReplayer(*data)))
		log.Printf("Replaying %s: level %d, %d frames", *replayFlag, data.Level, len(data.Frames))
	} else {
		progress, err := save.Open(appName)
		if err != nil {
			log.Printf("Warning: Could not initialize persistence: %v", err)
		} else {
			opts = append(opts, session.WithProgress(progress))
			if start < 0 {
				start = progress.Unlocked()
			}
		}
		if *recordFlag != "" {
			sceneOpts = append(sceneOpts, playing.WithRecording(*recordFlag))
		}
	}
	opts = append(opts, session.WithStartLevel(start))

	s, err := session.New(cfg.Levels, cfg.Physics, opts...)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	display := cfg.Physics.Display
	scene := playing.New(s, display.ScreenWidth, display.ScreenHeight, sceneOpts...)
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight, display.Framerate)

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Time Warp")
	ebiten.SetTPS(display.Framerate)

	// Run game
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
