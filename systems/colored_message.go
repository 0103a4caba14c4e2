package systems

import (
	"image/color"
)

// MessageType defines different types of messages that can appear in the log
type MessageType int

const (
	// MessageTypeNormal is for standard game messages (white/gray)
	MessageTypeNormal MessageType = iota
	// MessageTypeCombat is for kills and damage (red)
	MessageTypeCombat
	// MessageTypeProgress is for experience and level ups (blue)
	MessageTypeProgress
	// MessageTypeAlert is for important alerts such as game over (bright yellow)
	MessageTypeAlert
)

// ColoredMessage stores a message with its associated color
type ColoredMessage struct {
	Text string
	Type MessageType
}

// GetColor returns the color for the message based on its type
func (cm ColoredMessage) GetColor() color.RGBA {
	switch cm.Type {
	case MessageTypeCombat:
		return color.RGBA{255, 100, 100, 255} // Red
	case MessageTypeProgress:
		return color.RGBA{100, 149, 237, 255} // Cornflower Blue
	case MessageTypeAlert:
		return color.RGBA{255, 255, 0, 255} // Bright Yellow
	default:
		return color.RGBA{200, 200, 200, 255} // Light Gray (default)
	}
}
