// Package mockserver implements the server lifecycle, pool, scoped-mock
// guard and user-facing facade described by SPEC_FULL.md §4.7-§4.11: the
// parts of the system that own a listener, a background goroutine, and
// the shared, lock-guarded state every request is dispatched against.
package mockserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mockwire/mockwire/internal/mockset"
	"github.com/mockwire/mockwire/pkg/bodylimit"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// bare owns a listener, its HTTP server, and the shared state every
// accepted connection dispatches against. It has no notion of pooling —
// that is layered on top by pool.go and MockServer.
type bare struct {
	listener   net.Listener
	httpServer *http.Server
	state      *state
	logger     *slog.Logger
	addr       string
	tlsConfig  *tls.Config
}

// configure applies the recording flag, body print limit and logger to a
// server borrowed from the pool, so options passed to Start reach a
// reused bare server, not just a freshly created one.
func (b *bare) configure(recording bool, limit bodylimit.Limit, logger *slog.Logger) {
	b.logger = logger
	b.state.configure(recording, limit, logger)
}

// newBare wires h2c support on top of the plain handler, so a client that
// speaks HTTP/2 with prior knowledge (RFC 7540 §3.4) is served over
// HTTP/2 even without TLS, while an ordinary HTTP/1.1 client is served
// exactly as before. When tlsConfig is non-nil, start additionally
// enables HTTP/2-over-TLS negotiated via ALPN.
func newBare(ln net.Listener, recording bool, limit bodylimit.Limit, logger *slog.Logger, tlsConfig *tls.Config) *bare {
	b := &bare{
		listener:  ln,
		state:     newState(recording, limit, logger),
		logger:    logger,
		addr:      ln.Addr().String(),
		tlsConfig: tlsConfig,
	}
	handler := h2c.NewHandler(http.HandlerFunc(b.serveHTTP), &http2.Server{})
	b.httpServer = &http.Server{Handler: handler, TLSConfig: tlsConfig}
	if tlsConfig != nil {
		if err := http2.ConfigureServer(b.httpServer, &http2.Server{}); err != nil {
			logger.Error("mockwire: failed to configure HTTP/2 over TLS", "error", err)
		}
	}
	return b
}

// start serves in a background goroutine and waits for the listener to
// start accepting connections before returning, so a caller's first
// request is never racing the accept loop's startup. When tlsConfig was
// supplied, the listener is wrapped so the handshake happens transparently
// on accept; waitUntilReady's plain TCP dial still succeeds, since a
// tls.Listener defers the handshake itself to the first read or write.
func (b *bare) start() error {
	ln := b.listener
	if b.tlsConfig != nil {
		ln = tls.NewListener(ln, b.tlsConfig)
	}
	go func() {
		if err := b.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			b.logger.Error("mockwire: server stopped serving unexpectedly", "error", err)
		}
	}()
	return b.waitUntilReady()
}

// waitUntilReady polls the listener address with short-timeout dials,
// for up to roughly one second, mirroring the original's 40x25ms poll
// loop.
func (b *bare) waitUntilReady() error {
	const (
		attempts = 40
		interval = 25 * time.Millisecond
	)
	for i := 0; i < attempts; i++ {
		conn, err := net.DialTimeout("tcp", b.addr, interval)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("mockwire: server at %s did not become ready in time", b.addr)
}

// stop gracefully shuts down the HTTP server, waiting for in-flight
// requests to complete or ctx to expire.
func (b *bare) stop(ctx context.Context) error {
	if err := b.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("mockwire: failed to shut down mock server: %w", err)
	}
	return nil
}

// uri returns the server's base URI, reporting https when TLS was
// configured.
func (b *bare) uri() string {
	if b.tlsConfig != nil {
		return "https://" + b.addr
	}
	return "http://" + b.addr
}

// address returns the server's listener address.
func (b *bare) address() string {
	return b.addr
}

func (b *bare) serveHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := request.New(r)
	if err != nil {
		b.logger.Error("mockwire: failed to read incoming request", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	tmpl, transportErr, matched := b.state.handleRequest(req)
	if transportErr != nil {
		abortConnection(w)
		return
	}
	if !matched {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if delay, ok := tmpl.Delay(); ok {
		time.Sleep(delay)
	}
	tmpl.Render(w)
}

// abortConnection hijacks and closes the underlying connection without
// writing a status line, so the client observes a reset/closed
// connection rather than any HTTP response — used to simulate a
// transport-level failure from a Mock built with RespondWithErr.
func abortConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = conn.Close()
}

// register and the handful of thin wrappers below let server.go stay
// focused on the pooled/dedicated/guard bookkeeping.

func (b *bare) register(m mock.Mock) mockset.ID {
	return b.state.register(m)
}

func (b *bare) registerWithNotifier(m mock.Mock) (mockset.ID, *mockset.Notifier) {
	return b.state.registerWithNotifier(m)
}

func (b *bare) reset() {
	b.state.reset()
}

func (b *bare) deactivate(id mockset.ID) {
	b.state.deactivate(id)
}

func (b *bare) verifyAndDeactivate(id mockset.ID) mockset.Report {
	return b.state.verifyAndDeactivate(id)
}

func (b *bare) verify(id mockset.ID) mockset.Report {
	return b.state.verify(id)
}

func (b *bare) verifyAll() mockset.Outcome {
	return b.state.verifyAll()
}

func (b *bare) matchedRequests(id mockset.ID) []*request.Request {
	return b.state.matchedRequests(id)
}

func (b *bare) receivedRequests() ([]*request.Request, bool) {
	return b.state.receivedRequests()
}
