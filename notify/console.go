package notify

import (
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Console prints notifications as single lines. A loading line stays
// pending until Dismiss; Success and Error print unconditionally.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	pending string
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Loading(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = message
	fmt.Fprintf(c.out, "… %s\n", message)
}

func (c *Console) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != "" {
		log.WithField("notification", c.pending).Debug("dismissed")
	}
	c.pending = ""
}

func (c *Console) Success(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "✔ %s\n", message)
}

func (c *Console) Error(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "✖ %s\n", message)
}

// Pending returns the loading message that hasn't been dismissed yet.
func (c *Console) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
