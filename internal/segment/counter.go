package segment

import "sync"

// Counter numbers written frames across a whole run. The zero value starts
// at 0, so the first committed frame is number 1.
type Counter struct {
	mu sync.Mutex
	n  int
}

func NewCounter() *Counter {
	return &Counter{}
}

// Commit calls write with the next frame number and advances the counter
// only if write succeeds. Calls are serialized.
func (c *Counter) Commit(write func(n int) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := write(c.n + 1); err != nil {
		return err
	}
	c.n++

	return nil
}

// Value is the number of the last committed frame.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
