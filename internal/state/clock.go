package state

import (
	"sync"

	"github.com/google/uuid"
)

// Clock is a logical counter. Sessions tick it on every commit; replicas
// advance it past every sequence number they see.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Update moves the clock forward to seq if it is behind.
func (c *Clock) Update(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq > c.counter {
		c.counter = seq
	}
}

func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

func newID() string {
	return uuid.NewString()
}
