package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/obscura/pkg/core"
)

// ConsoleMessage is one log line of a render, streamed to the client as a
// "console" SSE event
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger for a single render. Every line is tagged
// with the render's ID both on stdout and in the console channel, so
// concurrent renders can be told apart in the server log.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for the render renderID. A nil channel logs
// to stdout only.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf writes the line to stdout and offers it to the console channel,
// dropping it if the channel is full
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("[%s] %s", wl.renderID, message)

	if wl.consoleChan == nil {
		return
	}

	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
	}:
	default:
	}
}

// messageLevel flags grid timer misuse, which the timer reports as
// "timer: ..." lines, as warnings
func messageLevel(message string) string {
	if strings.HasPrefix(message, "timer:") {
		return "warning"
	}
	return "info"
}
