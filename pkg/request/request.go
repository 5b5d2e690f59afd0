// Package request holds the normalized, immutable snapshot of an incoming
// HTTP request that every matcher and the dispatch engine operate on.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/mockwire/mockwire/pkg/bodylimit"
)

// Request is an incoming request to a MockServer.
//
// Each matcher receives an immutable reference to a Request. The body is
// read once, when the request arrives, and stored here; matchers are pure
// predicates and must not perform I/O, so the body cannot be streamed
// lazily the way http.Request.Body is.
type Request struct {
	URL    *url.URL
	Method string
	Header http.Header
	Body   []byte
}

// New consumes r, fully reading and closing its body, and returns a
// normalized, immutable Request. The method is upper-cased: HTTP methods
// are case-sensitive per RFC 7230, but every modern server and client
// normalizes to upper-case, and this library matches that convention (see
// the case-sensitivity design note in DESIGN.md).
func New(r *http.Request) (*Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("mockwire: failed to read request body: %w", err)
	}
	_ = r.Body.Close()

	u := *r.URL
	if u.Host == "" {
		u.Host = "localhost"
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	header := make(http.Header, len(r.Header))
	for k, v := range r.Header {
		values := make([]string, len(v))
		copy(values, v)
		header[k] = values
	}

	return &Request{
		URL:    &u,
		Method: strings.ToUpper(r.Method),
		Header: header,
		Body:   body,
	}, nil
}

// Clone returns a deep copy of r, safe to store independently of the
// original (e.g. in a MountedMock's matched-requests log).
func (r *Request) Clone() *Request {
	u := *r.URL
	header := make(http.Header, len(r.Header))
	for k, v := range r.Header {
		values := make([]string, len(v))
		copy(values, v)
		header[k] = values
	}
	body := make([]byte, len(r.Body))
	copy(body, r.Body)
	return &Request{
		URL:    &u,
		Method: r.Method,
		Header: header,
		Body:   body,
	}
}

// BodyJSON decodes the request body as JSON into v.
func (r *Request) BodyJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("mockwire: failed to decode request body as JSON: %w", err)
	}
	return nil
}

// RequestLine renders "METHOD URL", the first line of a diagnostic
// rendering of this request.
func (r *Request) RequestLine() string {
	return fmt.Sprintf("%s %s", r.Method, r.URL.String())
}

// String renders the request line, one header per line ("Name: v1,v2"),
// then the full, untruncated body. Use Diagnostic for a rendering that
// respects a body print limit.
func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(r.RequestLine())
	b.WriteByte('\n')
	for name, values := range r.Header {
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(values, ","))
	}
	b.Write(r.Body)
	b.WriteByte('\n')
	return b.String()
}

// Diagnostic renders the request the way String does, but respects limit
// when rendering the body: a non-UTF-8 body is rendered as a size note
// instead of raw bytes, and an over-limit body is truncated with a note
// naming the environment variable and builder method that raise it.
func (r *Request) Diagnostic(limit bodylimit.Limit) string {
	var b strings.Builder
	b.WriteString(r.RequestLine())
	b.WriteByte('\n')
	for name, values := range r.Header {
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(values, ","))
	}

	if !utf8.Valid(r.Body) {
		fmt.Fprintf(&b, "Body is likely binary (invalid utf-8) size is %d bytes\n", len(r.Body))
		return b.String()
	}

	body, truncated, originalLen := limit.Truncate(r.Body)
	b.Write(body)
	if truncated {
		n, _ := limit.Bytes()
		b.WriteByte('\n')
		b.WriteString(bodylimit.TruncationNote(originalLen, n))
	}
	b.WriteByte('\n')
	return b.String()
}
