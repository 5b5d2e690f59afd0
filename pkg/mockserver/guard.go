package mockserver

import (
	"context"
	"sync"
	"testing"

	"github.com/mockwire/mockwire/internal/mockset"
	"github.com/mockwire/mockwire/pkg/request"
)

// Guard is a scoped handle to a mock registered via RegisterAsScoped.
// Closing it verifies the mock's expectation and, if satisfied,
// deactivates it; this is the explicit Go analogue of the original's
// Drop-based scoped verification, since Go has no destructors. Prefer
// the server's RegisterAsScopedT entry point, which registers Close with
// t.Cleanup automatically, over calling Close yourself.
//
// A Guard must be closed exactly once, either directly or via Cleanup.
type Guard struct {
	id       mockset.ID
	bare     *bare
	notifier *mockset.Notifier

	mu     sync.Mutex
	closed bool
}

func newGuard(b *bare, id mockset.ID, n *mockset.Notifier) *Guard {
	return &Guard{id: id, bare: b, notifier: n}
}

// ReceivedRequests returns the requests that have matched this guard's
// mock so far, in arrival order.
func (g *Guard) ReceivedRequests() []*request.Request {
	return g.bare.matchedRequests(g.id)
}

// WaitUntilSatisfied blocks until the mock's expectation range is first
// satisfied, or ctx is done, whichever happens first. It has no built-in
// timeout; pass a context with a deadline to impose one.
func (g *Guard) WaitUntilSatisfied(ctx context.Context) error {
	return g.notifier.Wait(ctx)
}

// Close verifies the mock's expectation and, if satisfied, deactivates
// it. If the expectation is not satisfied, Close panics with the mock's
// verification report message. Calling Close more than once is a no-op after the
// first call.
//
// Most callers should use RegisterAsScopedT instead of calling Close
// directly, so an unmet expectation fails the test via t.Errorf rather
// than panicking mid-test.
func (g *Guard) Close() {
	g.close(nil)
}

// cleanup is registered with t.Cleanup by RegisterAsScopedT. Unlike
// Close, it reports an unmet expectation through t.Errorf instead of
// panicking, matching ordinary Go test-failure idiom rather than the
// original's panic-unless-already-unwinding rule (Go test binaries do
// not unwind through Cleanup the way a panicking destructor would).
func (g *Guard) cleanup(t testing.TB) {
	t.Helper()
	g.close(t)
}

func (g *Guard) close(t testing.TB) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	report := g.bare.verifyAndDeactivate(g.id)
	if report.Satisfied() {
		return
	}
	if t != nil {
		t.Errorf("mockwire: scoped mock verification failed:\n%s", report.Message())
		return
	}
	panic(report.Message())
}
