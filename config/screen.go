package config

// Screen layout configuration
const (
	// Tile size in pixels, used by the terminal renderer to map pixels to cells
	TileSize = 16

	// Window dimensions in tiles
	ScreenWidth  = 60
	ScreenHeight = 40

	// Window dimensions in pixels (derived from tile dimensions)
	WindowWidth  = ScreenWidth * TileSize
	WindowHeight = ScreenHeight * TileSize

	// FrameRate is the fixed number of simulation frames per second
	FrameRate = 60
)

// GetScreenDimensions returns the screen dimensions in pixels
func GetScreenDimensions() (width, height int) {
	return WindowWidth, WindowHeight
}

// GetWindowSize returns the recommended window size (may be different from actual screen dimensions)
func GetWindowSize() (width, height int) {
	return 1280, 854 // Can be adjusted if needed for UI scaling
}
