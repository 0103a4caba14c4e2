package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// StartScreen handles the title screen state
type StartScreen struct {
	titleImage *ebiten.Image
}

// NewStartScreen creates a new start screen
func NewStartScreen(logger *log.Logger) *StartScreen {
	var titleImage *ebiten.Image

	// Try different image formats
	formats := []string{"png", "jpg", "jpeg", "gif"}
	for _, format := range formats {
		path := fmt.Sprintf("assets/start_screen.%s", format)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			logger.Printf("failed to load title screen image %s: %v", path, err)
			continue
		}
		titleImage = img
		break
	}

	// Without an image the title is drawn as text on a plain panel
	if titleImage == nil {
		titleImage = ebiten.NewImage(400, 200)
		titleImage.Fill(color.RGBA{20, 20, 40, 255})
		ebitenutil.DebugPrintAt(titleImage, "S U R V I V O R", 150, 90)
	}

	return &StartScreen{titleImage: titleImage}
}

// Update reports whether the player pressed Enter to start
func (s *StartScreen) Update() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

// Draw renders the start screen
func (s *StartScreen) Draw(screen *ebiten.Image) {
	screenWidth, screenHeight := screen.Bounds().Dx(), screen.Bounds().Dy()

	// Calculate center position for the title image
	titleWidth, titleHeight := s.titleImage.Bounds().Dx(), s.titleImage.Bounds().Dy()
	titleX := (screenWidth - titleWidth) / 2
	titleY := (screenHeight - titleHeight) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(titleX), float64(titleY))
	screen.DrawImage(s.titleImage, op)

	text := "Press Enter to Start  -  move with WASD or arrows"
	textX := (screenWidth - len(text)*6) / 2
	ebitenutil.DebugPrintAt(screen, text, textX, titleY+titleHeight+20)
}
