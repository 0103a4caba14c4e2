package systems

import "fmt"

// MessageLog stores player-facing game messages.
// One log belongs to each simulation; the render collaborator reads it.
type MessageLog struct {
	Messages    []ColoredMessage
	MaxMessages int
}

// NewMessageLog creates a new message log
func NewMessageLog() *MessageLog {
	return &MessageLog{
		Messages:    []ColoredMessage{},
		MaxMessages: 100, // Store the last 100 messages
	}
}

// Add adds a normal message to the log
func (ml *MessageLog) Add(message string) {
	ml.AddTyped(MessageTypeNormal, message)
}

// AddTyped adds a message of the given type
func (ml *MessageLog) AddTyped(msgType MessageType, message string) {
	ml.Messages = append(ml.Messages, ColoredMessage{Text: message, Type: msgType})

	// Truncate if we have too many messages
	if len(ml.Messages) > ml.MaxMessages {
		ml.Messages = ml.Messages[len(ml.Messages)-ml.MaxMessages:]
	}
}

// AddCombat adds a combat message
func (ml *MessageLog) AddCombat(format string, args ...interface{}) {
	ml.AddTyped(MessageTypeCombat, fmt.Sprintf(format, args...))
}

// AddProgress adds an experience or level message
func (ml *MessageLog) AddProgress(format string, args ...interface{}) {
	ml.AddTyped(MessageTypeProgress, fmt.Sprintf(format, args...))
}

// AddAlert adds an important alert
func (ml *MessageLog) AddAlert(message string) {
	ml.AddTyped(MessageTypeAlert, message)
}

// RecentColored gets the n most recent messages with their types, newest first
func (ml *MessageLog) RecentColored(n int) []ColoredMessage {
	if n > len(ml.Messages) {
		n = len(ml.Messages)
	}

	result := make([]ColoredMessage, n)
	for i := 0; i < n; i++ {
		result[i] = ml.Messages[len(ml.Messages)-1-i]
	}

	return result
}

// RecentMessages gets the text of the n most recent messages, newest first
func (ml *MessageLog) RecentMessages(n int) []string {
	colored := ml.RecentColored(n)
	result := make([]string, len(colored))
	for i, m := range colored {
		result[i] = m.Text
	}
	return result
}

// Clear clears all messages
func (ml *MessageLog) Clear() {
	ml.Messages = []ColoredMessage{}
}
