// Package notify shows fire-and-forget success and failure messages to the user
package notify

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Notifier displays a user-facing message. Implementations must not block on delivery
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console prints toasts to a terminal, green for success and red for errors
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

// NewConsole writes to w. Colors are dropped when noColor is set
func NewConsole(w io.Writer, noColor bool) *Console {
	c := &Console{
		w:       w,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		c.success.DisableColor()
		c.failure.DisableColor()
	}
	return c
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success.Fprintln(c.w, "✔ "+msg)
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure.Fprintln(c.w, "✖ "+msg)
}

// Multi fans every message out to all notifiers
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
