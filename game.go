package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ebiten-survivor/config"
	"ebiten-survivor/coords"
	"ebiten-survivor/sim"
)

// gridSpacing is the distance between background grid lines in world units
const gridSpacing = 64

var (
	backgroundColor = color.RGBA{18, 18, 26, 255}
	gridColor       = color.RGBA{40, 40, 56, 255}
)

// GameState represents the current state of the game
type GameState int

const (
	StateStartScreen GameState = iota
	StatePlaying
)

// Game implements ebiten.Game interface.
type Game struct {
	cfg       config.Simulation
	logger    *log.Logger
	sim       *sim.Simulation
	state     GameState
	start     *StartScreen
	showStats bool
}

// NewGame creates a new game instance
func NewGame(cfg config.Simulation, logger *log.Logger) (*Game, error) {
	// The window shows exactly the simulated viewport
	width, height := config.GetScreenDimensions()
	cfg.ViewportWidth, cfg.ViewportHeight = float64(width), float64(height)

	s, err := sim.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Game{
		cfg:    cfg,
		logger: logger,
		sim:    s,
		state:  StateStartScreen,
		start:  NewStartScreen(logger),
	}, nil
}

// restart replaces the simulation with a fresh one
func (g *Game) restart() error {
	s, err := sim.New(g.cfg, g.logger)
	if err != nil {
		return err
	}
	g.sim.Close()
	g.sim = s
	return nil
}

// Update updates the game state.
func (g *Game) Update() error {
	if g.state == StateStartScreen {
		if g.start.Update() {
			g.state = StatePlaying
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		_, cached := g.sim.Coords().Transformer().(*coords.CachedTransformer)
		g.sim.SetCachedCamera(!cached)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showStats = !g.showStats
	}
	if g.sim.GameOver() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sim.TogglePause()
	}

	g.sim.SetInput(readDirection())
	if err := g.sim.Advance(1.0 / float64(ebiten.TPS())); err != nil {
		// Failed systems are already logged by the scheduler; the next frame still runs
		g.logger.Printf("frame %.2fs: %v", g.sim.Elapsed(), err)
	}
	return nil
}

// readDirection turns held movement keys into a direction
func readDirection() (x, y float64) {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		x--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		x++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		y++
	}
	return x, y
}

// Draw draws the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.state == StateStartScreen {
		g.start.Draw(screen)
		return
	}

	screen.Fill(backgroundColor)
	g.drawGrid(screen)
	for _, sprite := range g.sim.Sprites(0) {
		vector.DrawFilledCircle(screen, float32(sprite.Screen.X), float32(sprite.Screen.Y), float32(sprite.Radius), sprite.Color, true)
	}
	g.drawHUD(screen)
}

// drawGrid draws world-space grid lines so camera movement is visible
func (g *Game) drawGrid(screen *ebiten.Image) {
	view := g.sim.Coords().VisibleWorldRect()
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())

	for x := math.Floor(view.Min.X/gridSpacing) * gridSpacing; x <= view.Max.X; x += gridSpacing {
		sx := float32(g.sim.Coords().WorldToScreen(coords.V(x, 0)).X)
		vector.StrokeLine(screen, sx, 0, sx, h, 1, gridColor, false)
	}
	for y := math.Floor(view.Min.Y/gridSpacing) * gridSpacing; y <= view.Max.Y; y += gridSpacing {
		sy := float32(g.sim.Coords().WorldToScreen(coords.V(0, y)).Y)
		vector.StrokeLine(screen, 0, sy, w, sy, 1, gridColor, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	hp, maxHP := g.sim.PlayerHealth()
	level, xp, toNext := g.sim.PlayerExperience()
	tally := g.sim.Tally()

	ebitenutil.DebugPrint(screen, fmt.Sprintf("HP %d/%d  LV %d  XP %d/%d  Kills %d  Time %.0fs  FPS %.1f",
		hp, maxHP, level, xp, toNext, tally.Kills, tally.SurvivedTime, ebiten.ActualFPS()))

	height := screen.Bounds().Dy()
	for i, msg := range g.sim.Messages().RecentMessages(4) {
		ebitenutil.DebugPrintAt(screen, msg, 4, height-16*(i+1))
	}

	if g.showStats {
		g.drawStats(screen)
	}
	if g.sim.GameOver() {
		ebitenutil.DebugPrintAt(screen, "GAME OVER - press R to restart", screen.Bounds().Dx()/2-90, height/2)
	} else if g.sim.Paused() {
		ebitenutil.DebugPrintAt(screen, "PAUSED - press P or Esc to resume", screen.Bounds().Dx()/2-100, height/2)
	}
}

// drawStats shows scheduler timings and the coordinate cache
func (g *Game) drawStats(screen *ebiten.Image) {
	y := 20
	transformer := g.sim.Coords().Transformer()
	line := "camera: " + transformer.Name()
	if cached, ok := transformer.(*coords.CachedTransformer); ok {
		stats := cached.Stats()
		line += fmt.Sprintf(" hits %d misses %d", stats.Hits, stats.Misses)
	}
	ebitenutil.DebugPrintAt(screen, line, 4, y)

	timings := g.sim.Scheduler().TimingStats()
	for _, name := range g.sim.Scheduler().Order() {
		y += 16
		t := timings[name]
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-15s avg %v max %v", name, t.Average(), t.Max), 4, y)
	}
}

// Layout implements ebiten.Game's Layout.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GetScreenDimensions()
}
