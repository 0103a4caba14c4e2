package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"

	"ebiten-survivor/config"
)

func main() {
	terminal := flag.Bool("terminal", false, "run in the terminal instead of a window")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	templates := flag.String("templates", "", "directory of balance data layered over the defaults")
	windowed := flag.Bool("windowed", false, "do not switch to fullscreen")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *templates != "" {
		cfg.TemplateDir = *templates
	}

	if *terminal {
		// The terminal owns stdout, so simulation logs go to a file
		logFile, err := os.Create("survivor.log")
		if err != nil {
			log.Fatal(err)
		}
		defer logFile.Close()
		logger := log.New(logFile, "[sim] ", log.LstdFlags)
		if err := runTerminal(cfg, logger); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger := log.New(os.Stderr, "[sim] ", log.LstdFlags)
	game, err := NewGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	// Get window size from config
	windowWidth, windowHeight := config.GetWindowSize()
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetFullscreen(!*windowed)
	ebiten.SetTPS(config.FrameRate)

	ebiten.SetWindowTitle("Ebiten Survivor")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
