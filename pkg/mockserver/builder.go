package mockserver

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"

	"github.com/mockwire/mockwire/pkg/bodylimit"
)

// Builder constructs a dedicated (unpooled) MockServer, for the uncommon
// case of needing a specific listener, TLS, or a lifetime independent of
// the process-wide pool. Most tests should use Start/StartT instead.
type Builder struct {
	opts      options
	tlsConfig *tls.Config
}

// NewBuilder returns a Builder with the default configuration: recording
// enabled, the default body print limit, and a no-op logger.
func NewBuilder() *Builder {
	return &Builder{opts: defaultOptions()}
}

// Listener supplies a pre-bound listener instead of letting the server
// bind an OS-assigned loopback port.
func (b *Builder) Listener(ln net.Listener) *Builder {
	b.opts.listener = ln
	return b
}

// DisableRequestRecording turns off request recording; ReceivedRequests
// on the resulting server will report recording as disabled.
func (b *Builder) DisableRequestRecording() *Builder {
	b.opts.recording = false
	return b
}

// BodyPrintLimit overrides the body print limit used in diagnostics.
func (b *Builder) BodyPrintLimit(limit bodylimit.Limit) *Builder {
	b.opts.bodyLimit = limit
	return b
}

// WithLogger sets the logger used for server-level diagnostics.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.opts.logger = logger
	return b
}

// WithTLS supplies a pre-configured tls.Config that the server terminates
// TLS with, the Go analogue of the original's
// builder().start_https(server_config). Certificate generation is not
// this library's concern (see DESIGN.md); cfg is expected to already
// carry the desired certificate and key. When set, URI reports an
// https:// base and the server additionally negotiates HTTP/2 over TLS
// via ALPN.
func (b *Builder) WithTLS(cfg *tls.Config) *Builder {
	b.tlsConfig = cfg
	return b
}

// Start binds (if no Listener was supplied) and starts a dedicated
// MockServer, never backed by the process-wide pool.
func (b *Builder) Start() *MockServer {
	ln := b.opts.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			panic(fmt.Errorf("mockwire: failed to bind mock server listener: %w", err))
		}
	}
	bare := newBare(ln, b.opts.recording, b.opts.bodyLimit, b.opts.logger, b.tlsConfig)
	if err := bare.start(); err != nil {
		panic(err)
	}
	return &MockServer{bare: bare, pooled: false}
}
