package mockset

import "context"

// Notifier lets a caller wait until a mounted mock's expectation range
// first becomes satisfied.
//
// The done channel is closed exactly once, the moment the mock's match
// counter first falls inside its expectation range: closing a channel
// that every waiter already holds a reference to is the idiomatic Go
// substitute for the original's monotonic-flag-plus-broadcast design
// (set the flag before waking, subscribe before checking the flag) —
// a channel receive after close never blocks, so there is no window in
// which a satisfaction that happens between a waiter's check and its
// subscribe is missed.
type Notifier struct {
	satisfied bool
	done      chan struct{}
}

func newNotifier() *Notifier {
	return &Notifier{done: make(chan struct{})}
}

// markSatisfied closes the done channel the first time it is called.
// Must be called with the owning set's write lock held.
func (n *Notifier) markSatisfied() {
	if !n.satisfied {
		n.satisfied = true
		close(n.done)
	}
}

// Wait blocks until the mock's expectation becomes satisfied or ctx is
// done, whichever happens first.
func (n *Notifier) Wait(ctx context.Context) error {
	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Satisfied reports whether the expectation has already been met,
// without blocking.
func (n *Notifier) Satisfied() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}
