package mockserver

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/mockwire/mockwire/pkg/bodylimit"
)

// maxPoolSize bounds how many bare servers the process-wide pool will
// ever create, mirroring the original's deadpool-backed pool (whose
// deadpool::managed::Pool::new(..., 1000) is not available to us: deadpool
// is not among this module's dependencies, so the pool below is a plain
// mutex-guarded free list instead — see DESIGN.md).
const maxPoolSize = 1000

// pool amortizes listener setup across servers: Start borrows an idle
// server or creates one on demand (up to maxPoolSize); releasing a
// server resets its state and returns it to the idle list rather than
// tearing it down.
//
// Pooled servers are never TLS-enabled: a bare server's accept loop
// starts once, at creation, so there is no point at which a later
// acquire could retrofit per-instance TLS material onto an
// already-running listener. TLS is scoped to Builder instead, matching
// the original crate's own builder().start_https(...) shape rather than
// an ambient MockServer::start_https().
type pool struct {
	mu      sync.Mutex
	idle    []*bare
	created int
}

var defaultPool = &pool{}

func (p *pool) acquire(recording bool, limit bodylimit.Limit, logger *slog.Logger) (*bare, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		b := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		b.configure(recording, limit, logger)
		return b, nil
	}
	if p.created >= maxPoolSize {
		p.mu.Unlock()
		return nil, fmt.Errorf("mockwire: pooled mock server limit reached (%d)", maxPoolSize)
	}
	p.created++
	p.mu.Unlock()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("mockwire: failed to bind pooled mock server listener: %w", err)
	}
	b := newBare(ln, recording, limit, logger, nil)
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}

// release resets b's state and returns it to the idle list. Pooled
// servers are never shut down on release, only reset — shutdown happens
// only when the process itself ends, since a live listener costs nothing
// to keep around and rebinding one is the expense this pool exists to
// amortize.
func (p *pool) release(b *bare) {
	b.reset()
	p.mu.Lock()
	p.idle = append(p.idle, b)
	p.mu.Unlock()
}
