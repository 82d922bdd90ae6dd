package executor

import "context"

// Semaphore bounds concurrent access to a resource via a buffered channel.
// A zero-value-constructed Semaphore (n <= 0) is unlimited: Acquire always
// succeeds immediately.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore builds a Semaphore admitting at most n concurrent holders.
// n <= 0 means unlimited.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		return &Semaphore{}
	}
	return &Semaphore{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if s == nil || s.slots == nil {
		return nil
	}
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
func (s *Semaphore) Release() {
	if s == nil || s.slots == nil {
		return
	}
	<-s.slots
}
