package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"ebiten-survivor/config"
	"ebiten-survivor/sim"
)

// Terminals report key presses but not releases, so a direction is held for a few frames
const holdFrames = 8

// hudRows are the terminal rows reserved below the play area
const hudRows = 2

// terminalRunner draws the simulation as glyphs, one cell per TileSize world units
type terminalRunner struct {
	screen tcell.Screen
	cfg    config.Simulation
	logger *log.Logger
	sim    *sim.Simulation

	dirX, dirY float64
	held       int
}

// runTerminal plays the game in the terminal until Escape or Ctrl-C
func runTerminal(cfg config.Simulation, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	width, height := screen.Size()
	cfg.ViewportWidth = float64(width * config.TileSize)
	cfg.ViewportHeight = float64((height - hudRows) * config.TileSize)

	s, err := sim.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("terminal %dx%d: %w", width, height, err)
	}
	r := &terminalRunner{screen: screen, cfg: cfg, logger: logger, sim: s}
	return r.run()
}

func (r *terminalRunner) run() error {
	ticker := time.NewTicker(time.Second / config.FrameRate)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			quit, err := r.handleInput(ev)
			if err != nil {
				return err
			}
			if quit {
				r.sim.Close()
				return nil
			}

		case <-ticker.C:
			if r.held > 0 {
				r.held--
			} else {
				r.dirX, r.dirY = 0, 0
			}
			r.sim.SetInput(r.dirX, r.dirY)
			if err := r.sim.Advance(1.0 / config.FrameRate); err != nil {
				r.logger.Printf("frame %.2fs: %v", r.sim.Elapsed(), err)
			}
			r.draw()
		}
	}
}

// handleInput reports whether the player asked to quit
func (r *terminalRunner) handleInput(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyLeft:
			r.steer(-1, 0)
		case tcell.KeyRight:
			r.steer(1, 0)
		case tcell.KeyUp:
			r.steer(0, -1)
		case tcell.KeyDown:
			r.steer(0, 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'a':
				r.steer(-1, 0)
			case 'd':
				r.steer(1, 0)
			case 'w':
				r.steer(0, -1)
			case 's':
				r.steer(0, 1)
			case 'p', ' ':
				r.sim.TogglePause()
			case 'q':
				return true, nil
			case 'r':
				if r.sim.GameOver() {
					s, err := sim.New(r.cfg, r.logger)
					if err != nil {
						return false, err
					}
					r.sim.Close()
					r.sim = s
				}
			}
		}

	case *tcell.EventResize:
		r.screen.Sync()
	}
	return false, nil
}

func (r *terminalRunner) steer(x, y float64) {
	r.dirX, r.dirY = x, y
	r.held = holdFrames
}

func (r *terminalRunner) draw() {
	r.screen.Clear()
	width, height := r.screen.Size()
	playRows := height - hudRows

	for _, sprite := range r.sim.Sprites(0) {
		col, row := sprite.Screen.Cell(config.TileSize)
		if col < 0 || col >= width || row < 0 || row >= playRows {
			continue
		}
		c := sprite.Color
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		r.screen.SetContent(col, row, sprite.Glyph, nil, style)
	}

	hp, maxHP := r.sim.PlayerHealth()
	level, xp, toNext := r.sim.PlayerExperience()
	tally := r.sim.Tally()
	status := fmt.Sprintf("HP %d/%d  LV %d  XP %d/%d  Kills %d  Time %.0fs", hp, maxHP, level, xp, toNext, tally.Kills, tally.SurvivedTime)
	if r.sim.GameOver() {
		status += "  GAME OVER - r to restart, q to quit"
	} else if r.sim.Paused() {
		status += "  PAUSED - p to resume"
	}
	r.drawText(0, playRows, status, tcell.StyleDefault.Reverse(true))
	if msgs := r.sim.Messages().RecentColored(1); len(msgs) > 0 {
		c := msgs[0].GetColor()
		r.drawText(0, playRows+1, msgs[0].Text, tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
	}

	r.screen.Show()
}

func (r *terminalRunner) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
