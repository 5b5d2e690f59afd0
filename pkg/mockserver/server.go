package mockserver

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mockwire/mockwire/pkg/bodylimit"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/mocklog"
	"github.com/mockwire/mockwire/pkg/request"
)

// options collects the configuration shared by Start and Builder.
type options struct {
	listener  net.Listener
	recording bool
	bodyLimit bodylimit.Limit
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		recording: true,
		bodyLimit: bodylimit.Default(),
		logger:    mocklog.Nop(),
	}
}

// ServerOption configures a pooled MockServer started via Start/StartT.
type ServerOption func(*options)

// WithLogger sets the logger used for server-level diagnostics (unmatched
// requests, shutdown errors). The default is a no-op logger, so a server
// started without this option is silent.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(o *options) { o.logger = logger }
}

// WithBodyPrintLimit overrides the default body print limit (Limited(10000),
// itself overridable by WIREMOCK_BODY_PRINT_LIMIT) used when rendering
// request bodies into verification diagnostics.
func WithBodyPrintLimit(limit bodylimit.Limit) ServerOption {
	return func(o *options) { o.bodyLimit = limit }
}

// WithoutRequestRecording turns off request recording on a pooled server;
// ReceivedRequests will report recording as disabled.
func WithoutRequestRecording() ServerOption {
	return func(o *options) { o.recording = false }
}

// MockServer is the user-facing handle to a running mock server. It is
// either a pooled instance (the common case, via Start/StartT) or a
// dedicated one built via Builder, and behaves identically either way
// once started: the pool is purely an optimization (see SPEC_FULL.md §9).
type MockServer struct {
	bare   *bare
	pooled bool
}

// Start borrows a server from the process-wide pool, applying opts, and
// returns it ready to accept connections. Creation only fails in
// practice when the OS cannot provide a listener or the pool's bounded
// size is exhausted; both are surfaced as a panic, matching this
// library's policy of panicking on conditions a correctly written test
// would never hit.
func Start(opts ...ServerOption) *MockServer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b, err := defaultPool.acquire(o.recording, o.bodyLimit, o.logger)
	if err != nil {
		panic(err)
	}
	return &MockServer{bare: b, pooled: true}
}

// StartT is Start, with the server's Stop registered via t.Cleanup, so
// tests do not need an explicit defer.
func StartT(t testing.TB, opts ...ServerOption) *MockServer {
	t.Helper()
	s := Start(opts...)
	t.Cleanup(s.Stop)
	return s
}

// Stop verifies every in-scope mock (panicking with the set-wide
// diagnostic if any is unsatisfied, exactly like Verify) and then
// releases the underlying bare server: back to the pool if this instance
// was pooled, or shut down if it was a dedicated server built via
// Builder.
func (s *MockServer) Stop() {
	s.Verify()
	if s.pooled {
		defaultPool.release(s.bare)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.bare.stop(ctx); err != nil {
		s.bare.logger.Error("mockwire: error stopping mock server", "error", err)
	}
}

// Register mounts m against this server.
func (s *MockServer) Register(m mock.Mock) {
	s.bare.register(m)
}

// RegisterAsScoped mounts m and returns a Guard whose Close verifies and
// deactivates it. Prefer RegisterAsScopedT in tests.
func (s *MockServer) RegisterAsScoped(m mock.Mock) *Guard {
	id, notifier := s.bare.registerWithNotifier(m)
	return newGuard(s.bare, id, notifier)
}

// RegisterAsScopedT is RegisterAsScoped, with the guard's Close
// registered via t.Cleanup; an unmet expectation is reported with
// t.Errorf rather than a panic.
func (s *MockServer) RegisterAsScopedT(t testing.TB, m mock.Mock) *Guard {
	t.Helper()
	g := s.RegisterAsScoped(m)
	t.Cleanup(func() { g.cleanup(t) })
	return g
}

// Reset clears every mounted mock and the recording buffer. Any Guard or
// ID obtained before Reset must not be used again.
func (s *MockServer) Reset() {
	s.bare.reset()
}

// Verify checks every in-scope mock's expectation and panics with the
// composed diagnostic if any is unsatisfied.
func (s *MockServer) Verify() {
	outcome := s.bare.verifyAll()
	if outcome.OK() {
		return
	}
	received, recording := s.bare.receivedRequests()
	panic(composeDiagnostic(outcome.Failures, received, recording, s.bare.state.bodyLimit))
}

// URI returns the server's base URI, e.g. "http://127.0.0.1:54321".
func (s *MockServer) URI() string {
	return s.bare.uri()
}

// Address returns the server's listener address.
func (s *MockServer) Address() string {
	return s.bare.address()
}

// ReceivedRequests returns every request recorded so far, in arrival
// order, and whether recording is enabled. When recording is disabled
// the second return value is false rather than the first being an empty
// slice, so a caller can distinguish "no requests yet" from "recording
// off".
func (s *MockServer) ReceivedRequests() ([]*request.Request, bool) {
	return s.bare.receivedRequests()
}
